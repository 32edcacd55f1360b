package adaptor

import (
	"net/http"

	"ticket-booking/internal/dto/request"
	"ticket-booking/internal/usecase"
	"ticket-booking/pkg/utils"

	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// ConfirmBooking handles POST /confirm
func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	var req request.ConfirmBookingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.ConfirmBooking(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "confirm booking")
		return
	}

	utils.ResponseSuccess(w, result)
}

// BookTickets handles POST /book
func (h *BookingHandler) BookTickets(w http.ResponseWriter, r *http.Request) {
	var req request.BookTicketsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.BookTickets(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "book tickets")
		return
	}

	utils.ResponseSuccess(w, result)
}

// GetBookings handles GET /bookings
func (h *BookingHandler) GetBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.GetBookings(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get bookings")
		return
	}

	utils.ResponseSuccess(w, bookings)
}
