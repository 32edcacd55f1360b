package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ticket-booking/internal/data/entity"

	"github.com/google/uuid"
)

func copyTicket(t *entity.Ticket) *entity.Ticket {
	c := *t
	return &c
}

func copyHold(h *entity.Hold) *entity.Hold {
	c := *h
	return &c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func copyBooking(b *entity.Booking) *entity.Booking {
	c := *b
	c.UserName = copyString(b.UserName)
	c.Email = copyString(b.Email)
	c.Phone = copyString(b.Phone)
	return &c
}

// ==================== TICKETS ====================

type memoryTicketRepository struct {
	store *memoryStore
}

func (r *memoryTicketRepository) FindAll(ctx context.Context) ([]*entity.Ticket, error) {
	var tickets []*entity.Ticket
	r.store.read(ctx, func() {
		for _, tier := range entity.Tiers {
			if t, ok := r.store.tickets[tier]; ok {
				tickets = append(tickets, copyTicket(t))
			}
		}
	})
	return tickets, nil
}

func (r *memoryTicketRepository) FindByTier(ctx context.Context, tier entity.Tier) (*entity.Ticket, error) {
	var found *entity.Ticket
	r.store.read(ctx, func() {
		if t, ok := r.store.tickets[tier]; ok {
			found = copyTicket(t)
		}
	})
	if found == nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrTicketNotFound, tier)
	}
	return found, nil
}

func (r *memoryTicketRepository) Adjust(ctx context.Context, adj entity.Adjustment) (*entity.Ticket, error) {
	var updated *entity.Ticket
	err := r.store.write(ctx, func(tx *memoryTx) error {
		t, ok := r.store.tickets[adj.Tier]
		if !ok {
			return fmt.Errorf("%w: %s", entity.ErrTicketNotFound, adj.Tier)
		}
		if adj.ExpectedVersion != 0 && t.Version != adj.ExpectedVersion {
			return fmt.Errorf("%w: %s", entity.ErrVersionConflict, adj.Tier)
		}
		if !t.CanApply(adj) {
			return fmt.Errorf("%w: %s", entity.ErrInventoryBounds, adj.Tier)
		}

		prev := *t
		t.Available += adj.AvailableDelta
		t.Booked += adj.BookedDelta
		t.Version++
		tx.record(func() { *t = prev })

		updated = copyTicket(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *memoryTicketRepository) Count(ctx context.Context) (int, error) {
	var n int
	r.store.read(ctx, func() { n = len(r.store.tickets) })
	return n, nil
}

func (r *memoryTicketRepository) CreateBatch(ctx context.Context, tickets []*entity.Ticket) error {
	return r.store.write(ctx, func(tx *memoryTx) error {
		for _, t := range tickets {
			if _, exists := r.store.tickets[t.Tier]; exists {
				continue
			}
			tier := t.Tier
			r.store.tickets[tier] = copyTicket(t)
			tx.record(func() { delete(r.store.tickets, tier) })
		}
		return nil
	})
}

// ==================== HOLDS ====================

type memoryHoldRepository struct {
	store *memoryStore
}

func (r *memoryHoldRepository) Create(ctx context.Context, hold *entity.Hold) error {
	return r.store.write(ctx, func(tx *memoryTx) error {
		if _, exists := r.store.holds[hold.ID]; exists {
			return fmt.Errorf("create hold %s: duplicate id", hold.ID)
		}
		id := hold.ID
		r.store.holds[id] = copyHold(hold)
		tx.record(func() { delete(r.store.holds, id) })
		return nil
	})
}

func (r *memoryHoldRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Hold, error) {
	var found *entity.Hold
	r.store.read(ctx, func() {
		if h, ok := r.store.holds[id]; ok {
			found = copyHold(h)
		}
	})
	if found == nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrHoldNotFound, id)
	}
	return found, nil
}

func (r *memoryHoldRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.write(ctx, func(tx *memoryTx) error {
		h, ok := r.store.holds[id]
		if !ok {
			return fmt.Errorf("%w: %s", entity.ErrHoldNotFound, id)
		}
		delete(r.store.holds, id)
		tx.record(func() { r.store.holds[id] = h })
		return nil
	})
}

func (r *memoryHoldRepository) DeleteExpired(ctx context.Context, now time.Time) ([]*entity.Hold, error) {
	var expired []*entity.Hold
	err := r.store.write(ctx, func(tx *memoryTx) error {
		for id, h := range r.store.holds {
			if !h.IsExpired(now) {
				continue
			}
			delete(r.store.holds, id)
			removed := h
			tx.record(func() { r.store.holds[removed.ID] = removed })
			expired = append(expired, copyHold(h))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortHolds(expired)
	return expired, nil
}

func (r *memoryHoldRepository) FindAll(ctx context.Context) ([]*entity.Hold, error) {
	var holds []*entity.Hold
	r.store.read(ctx, func() {
		holds = make([]*entity.Hold, 0, len(r.store.holds))
		for _, h := range r.store.holds {
			holds = append(holds, copyHold(h))
		}
	})
	sortHolds(holds)
	return holds, nil
}

func sortHolds(holds []*entity.Hold) {
	sort.Slice(holds, func(i, j int) bool {
		if !holds[i].CreatedAt.Equal(holds[j].CreatedAt) {
			return holds[i].CreatedAt.Before(holds[j].CreatedAt)
		}
		return holds[i].ID.String() < holds[j].ID.String()
	})
}

// ==================== BOOKINGS ====================

type memoryBookingRepository struct {
	store *memoryStore
}

func (r *memoryBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	return r.store.write(ctx, func(tx *memoryTx) error {
		n := len(r.store.bookings)
		r.store.bookings = append(r.store.bookings, copyBooking(booking))
		tx.record(func() {
			r.store.bookings[n] = nil
			r.store.bookings = r.store.bookings[:n]
		})
		return nil
	})
}

func (r *memoryBookingRepository) FindAll(ctx context.Context) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	r.store.read(ctx, func() {
		bookings = make([]*entity.Booking, 0, len(r.store.bookings))
		for _, b := range r.store.bookings {
			bookings = append(bookings, copyBooking(b))
		}
	})
	return bookings, nil
}
