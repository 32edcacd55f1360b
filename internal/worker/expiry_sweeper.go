package worker

import (
	"context"
	"time"

	"ticket-booking/internal/usecase"

	"go.uber.org/zap"
)

// HoldReleaser is the part of the hold service the sweeper drives.
type HoldReleaser interface {
	ReleaseExpiredHolds(ctx context.Context) (*usecase.ReleaseResult, error)
}

// ExpirySweeper reclaims lapsed holds on a fixed interval.
type ExpirySweeper struct {
	holds    HoldReleaser
	interval time.Duration
	log      *zap.Logger
}

func NewExpirySweeper(holds HoldReleaser, interval time.Duration, log *zap.Logger) *ExpirySweeper {
	return &ExpirySweeper{
		holds:    holds,
		interval: interval,
		log:      log.With(zap.String("worker", "expiry_sweeper")),
	}
}

// Start runs one pass immediately, then one per tick until ctx is done.
func (w *ExpirySweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("Expiry sweeper started", zap.Duration("interval", w.interval))

	w.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Expiry sweeper stopped")
			return nil
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep runs a single pass. Errors are logged; the next tick retries.
func (w *ExpirySweeper) Sweep(ctx context.Context) {
	result, err := w.holds.ReleaseExpiredHolds(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.log.Error("Expiry sweep failed", zap.Error(err))
		return
	}

	if result.Holds == 0 {
		w.log.Debug("No expired holds")
		return
	}

	w.log.Info("Expired holds released",
		zap.Int("holds", result.Holds),
		zap.Int("units", result.Units),
		zap.Any("tiers", result.Tiers),
	)
}
