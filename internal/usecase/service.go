package usecase

import (
	"ticket-booking/internal/cache"
	"ticket-booking/internal/clock"
	"ticket-booking/internal/data/repository"
	"ticket-booking/internal/notify"
	"ticket-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Ticket  TicketService
	Hold    HoldService
	Booking BookingService
}

// Extensions are optional collaborators; nil fields fall back to no-ops
// and the system clock.
type Extensions struct {
	Cache    cache.TicketCache
	Notifier notify.Notifier
	Clock    clock.Clock
}

func NewService(repo *repository.Repository, ext Extensions, config *utils.Config, log *zap.Logger) *Service {
	if ext.Cache == nil {
		ext.Cache = cache.NewNoop()
	}
	if ext.Notifier == nil {
		ext.Notifier = notify.NewLogNotifier(log)
	}
	if ext.Clock == nil {
		ext.Clock = clock.NewSystem()
	}

	changes := newChangeFeed(ext.Cache, ext.Notifier, ext.Clock, log)

	return &Service{
		Ticket:  NewTicketService(repo, ext.Cache, log),
		Hold:    NewHoldService(repo, changes, ext.Clock, config.Booking.HoldTTL, log),
		Booking: NewBookingService(repo, changes, ext.Clock, log),
	}
}
