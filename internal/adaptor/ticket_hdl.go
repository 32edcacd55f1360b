package adaptor

import (
	"net/http"

	"ticket-booking/internal/dto/request"
	"ticket-booking/internal/usecase"
	"ticket-booking/pkg/utils"

	"go.uber.org/zap"
)

type TicketHandler struct {
	tickets usecase.TicketService
	holds   usecase.HoldService
	log     *zap.Logger
}

func NewTicketHandler(tickets usecase.TicketService, holds usecase.HoldService, log *zap.Logger) *TicketHandler {
	return &TicketHandler{
		tickets: tickets,
		holds:   holds,
		log:     log.With(zap.String("handler", "ticket")),
	}
}

// GetTickets handles GET /tickets
func (h *TicketHandler) GetTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.tickets.GetTickets(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get tickets")
		return
	}

	utils.ResponseSuccess(w, tickets)
}

// HoldTickets handles POST /hold
func (h *TicketHandler) HoldTickets(w http.ResponseWriter, r *http.Request) {
	var req request.HoldRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	hold, err := h.holds.HoldTickets(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "hold tickets")
		return
	}

	utils.ResponseCreated(w, hold)
}
