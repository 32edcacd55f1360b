package wire

import (
	"ticket-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTicket(r chi.Router, ticketHandler *adaptor.TicketHandler) {
	// GET /tickets - inventory per tier
	r.Get("/tickets", ticketHandler.GetTickets)

	// POST /hold - reserve tickets for a limited time
	r.Post("/hold", ticketHandler.HoldTickets)
}
