package usecase

import (
	"context"
	"time"

	"ticket-booking/internal/cache"
	"ticket-booking/internal/clock"
	"ticket-booking/internal/data/entity"
	"ticket-booking/internal/notify"

	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// changeFeed runs after a commit: drops the cached ticket list and tells
// subscribers to refetch. Failures are logged only.
type changeFeed struct {
	cache    cache.TicketCache
	notifier notify.Notifier
	clock    clock.Clock
	log      *zap.Logger
}

func newChangeFeed(c cache.TicketCache, n notify.Notifier, clk clock.Clock, log *zap.Logger) *changeFeed {
	return &changeFeed{
		cache:    c,
		notifier: n,
		clock:    clk,
		log:      log.With(zap.String("service", "changes")),
	}
}

func (f *changeFeed) ticketsChanged(ctx context.Context, tiers ...entity.Tier) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := f.cache.Invalidate(ctx); err != nil {
		f.log.Warn("Failed to invalidate ticket cache", zap.Error(err))
	}
	f.publish(ctx, notify.EventTicketsUpdated, tiers)
}

func (f *changeFeed) bookingsChanged(ctx context.Context, tiers ...entity.Tier) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	f.publish(ctx, notify.EventBookingsUpdated, tiers)
}

func (f *changeFeed) publish(ctx context.Context, eventType string, tiers []entity.Tier) {
	event := notify.ChangeEvent{
		Type:       eventType,
		Tiers:      tiers,
		OccurredAt: f.clock.Now(),
	}
	if err := f.notifier.Publish(ctx, event); err != nil {
		f.log.Warn("Failed to publish change event",
			zap.Error(err),
			zap.String("type", eventType),
		)
	}
}
