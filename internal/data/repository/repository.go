package repository

import (
	"context"
	"time"

	"ticket-booking/internal/data/entity"
	"ticket-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transactor runs fn as one atomic unit. Repositories called with the ctx
// passed to fn join that unit; nested calls reuse it.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TicketRepository interface {
	FindAll(ctx context.Context) ([]*entity.Ticket, error)
	// FindByTier locks the row when called inside WithTx.
	FindByTier(ctx context.Context, tier entity.Tier) (*entity.Ticket, error)
	Adjust(ctx context.Context, adj entity.Adjustment) (*entity.Ticket, error)
	Count(ctx context.Context) (int, error)
	CreateBatch(ctx context.Context, tickets []*entity.Ticket) error
}

type HoldRepository interface {
	Create(ctx context.Context, hold *entity.Hold) error
	// FindByID locks the row when called inside WithTx.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Hold, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes and returns every hold with expires_at <= now.
	DeleteExpired(ctx context.Context, now time.Time) ([]*entity.Hold, error)
	FindAll(ctx context.Context) ([]*entity.Hold, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	// FindAll returns bookings in insertion order.
	FindAll(ctx context.Context) ([]*entity.Booking, error)
}

type Repository struct {
	Tx      Transactor
	Ticket  TicketRepository
	Hold    HoldRepository
	Booking BookingRepository
}

// NewRepository builds the postgres-backed repositories.
func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Tx:      NewTransactor(db, log),
		Ticket:  NewTicketRepository(db, log),
		Hold:    NewHoldRepository(db, log),
		Booking: NewBookingRepository(db, log),
	}
}

// NewMemoryRepository builds repositories over one in-process store
// guarded by a single lock.
func NewMemoryRepository(log *zap.Logger) *Repository {
	store := newMemoryStore(log)
	return &Repository{
		Tx:      store,
		Ticket:  &memoryTicketRepository{store: store},
		Hold:    &memoryHoldRepository{store: store},
		Booking: &memoryBookingRepository{store: store},
	}
}
