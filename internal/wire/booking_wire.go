package wire

import (
	"ticket-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	// GET /bookings - booking log in insertion order
	r.Get("/bookings", bookingHandler.GetBookings)

	// POST /confirm - pay for a hold (payment always succeeds)
	r.Post("/confirm", bookingHandler.ConfirmBooking)

	// POST /book - direct booking without a hold
	r.Post("/book", bookingHandler.BookTickets)
}
