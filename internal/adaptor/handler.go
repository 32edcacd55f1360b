package adaptor

import (
	"ticket-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Ticket  *TicketHandler
	Booking *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Ticket:  NewTicketHandler(service.Ticket, service.Hold, log),
		Booking: NewBookingHandler(service.Booking, log),
	}
}
