package repository

import (
	"context"
	"sync"

	"ticket-booking/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memoryTxKey struct{}

// memoryStore keeps all state behind one RWMutex. WithTx holds the write
// lock for the whole unit and undoes recorded writes if fn fails or panics.
type memoryStore struct {
	mu       sync.RWMutex
	tickets  map[entity.Tier]*entity.Ticket
	holds    map[uuid.UUID]*entity.Hold
	bookings []*entity.Booking
	log      *zap.Logger
}

type memoryTx struct {
	store *memoryStore
	undo  []func()
}

func newMemoryStore(log *zap.Logger) *memoryStore {
	return &memoryStore{
		tickets: make(map[entity.Tier]*entity.Ticket),
		holds:   make(map[uuid.UUID]*entity.Hold),
		log:     log.With(zap.String("repository", "memory")),
	}
}

func (s *memoryStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txFrom(ctx) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{store: s}
	done := false
	defer func() {
		if !done {
			tx.rollback()
		}
	}()

	if err := fn(context.WithValue(ctx, memoryTxKey{}, tx)); err != nil {
		return err
	}
	done = true
	return nil
}

func (s *memoryStore) txFrom(ctx context.Context) *memoryTx {
	tx, _ := ctx.Value(memoryTxKey{}).(*memoryTx)
	if tx == nil || tx.store != s {
		return nil
	}
	return tx
}

// read runs fn under the read lock unless ctx already owns the write lock.
func (s *memoryStore) read(ctx context.Context, fn func()) {
	if s.txFrom(ctx) != nil {
		fn()
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// write runs fn under the write lock unless ctx already owns it. tx is nil
// outside WithTx; a single write outside a unit needs no undo.
func (s *memoryStore) write(ctx context.Context, fn func(tx *memoryTx) error) error {
	if tx := s.txFrom(ctx); tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(nil)
}

func (tx *memoryTx) record(undo func()) {
	if tx == nil {
		return
	}
	tx.undo = append(tx.undo, undo)
}

func (tx *memoryTx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	if len(tx.undo) > 0 {
		tx.store.log.Debug("Rolled back memory tx", zap.Int("writes", len(tx.undo)))
	}
	tx.undo = nil
}
