package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"ticket-booking/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingReleaser struct {
	calls atomic.Int32
	err   error
}

func (r *countingReleaser) ReleaseExpiredHolds(context.Context) (*usecase.ReleaseResult, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return &usecase.ReleaseResult{Holds: 1, Units: 3}, nil
}

func TestExpirySweeper_RunsImmediatelyAndOnTick(t *testing.T) {
	releaser := &countingReleaser{}
	sweeper := NewExpirySweeper(releaser, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Start(ctx) }()

	require.Eventually(t, func() bool { return releaser.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestExpirySweeper_FirstPassBeforeTick(t *testing.T) {
	releaser := &countingReleaser{}
	sweeper := NewExpirySweeper(releaser, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sweeper.Start(ctx) }()

	require.Eventually(t, func() bool { return releaser.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestExpirySweeper_ErrorsDoNotStopLoop(t *testing.T) {
	releaser := &countingReleaser{err: errors.New("db down")}
	sweeper := NewExpirySweeper(releaser, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sweeper.Start(ctx) }()

	require.Eventually(t, func() bool { return releaser.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
}
