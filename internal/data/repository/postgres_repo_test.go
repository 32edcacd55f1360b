package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"ticket-booking/internal/data/entity"
	"ticket-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newPostgresRepo connects to TEST_DATABASE_URL using its own schema, then
// migrates and truncates.
func newPostgresRepo(t *testing.T) *Repository {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	config.ConnConfig.RuntimeParams["search_path"] = "repository_test"
	database.RegisterTypes(config)

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("postgres unavailable: %v", err)
	}
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `CREATE SCHEMA IF NOT EXISTS repository_test`)
	require.NoError(t, err)

	db := database.NewDB(pool)
	_, err = database.Migrate(ctx, db)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `TRUNCATE bookings, ticket_holds, tickets`)
	require.NoError(t, err)

	repo := NewRepository(db, zap.NewNop())
	require.NoError(t, repo.Ticket.CreateBatch(ctx, entity.DefaultTickets()))
	return repo
}

func TestPostgresTicket_AdjustGuards(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()

	tickets, err := repo.Ticket.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	assert.Equal(t, entity.TierVIP, tickets[0].Tier)
	assert.Equal(t, "100.00", tickets[0].Price.StringFixed(2))

	updated, err := repo.Ticket.Adjust(ctx, entity.Adjustment{
		Tier: entity.TierGA, AvailableDelta: -3, ExpectedVersion: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 497, updated.Available)
	assert.Equal(t, 2, updated.Version)

	_, err = repo.Ticket.Adjust(ctx, entity.Adjustment{Tier: entity.TierGA, AvailableDelta: -1, ExpectedVersion: 1})
	assert.ErrorIs(t, err, entity.ErrVersionConflict)

	_, err = repo.Ticket.Adjust(ctx, entity.Adjustment{Tier: entity.TierGA, AvailableDelta: -498})
	assert.ErrorIs(t, err, entity.ErrInventoryBounds)

	_, err = repo.Ticket.Adjust(ctx, entity.Adjustment{Tier: "Balcony", AvailableDelta: -1})
	assert.ErrorIs(t, err, entity.ErrTicketNotFound)
}

func TestPostgresTx_Rollback(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	err := repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := repo.Ticket.Adjust(ctx, entity.Adjustment{Tier: entity.TierVIP, AvailableDelta: -2}); err != nil {
			return err
		}
		if err := repo.Hold.Create(ctx, newHold(entity.TierVIP, 2, now.Add(time.Minute))); err != nil {
			return err
		}
		return entity.ErrInsufficientInventory
	})
	require.ErrorIs(t, err, entity.ErrInsufficientInventory)

	vip, err := repo.Ticket.FindByTier(ctx, entity.TierVIP)
	require.NoError(t, err)
	assert.Equal(t, 100, vip.Available)

	holds, err := repo.Hold.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, holds)
}

func TestPostgresHold_Lifecycle(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	live := newHold(entity.TierGA, 2, now.Add(time.Minute))
	old := newHold(entity.TierFrontRow, 4, now.Add(-time.Minute))
	require.NoError(t, repo.Hold.Create(ctx, live))
	require.NoError(t, repo.Hold.Create(ctx, old))

	got, err := repo.Hold.FindByID(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, live.UserID, got.UserID)
	assert.True(t, live.ExpiresAt.Equal(got.ExpiresAt))

	expired, err := repo.Hold.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, old.ID, expired[0].ID)

	require.NoError(t, repo.Hold.Delete(ctx, live.ID))
	assert.ErrorIs(t, repo.Hold.Delete(ctx, live.ID), entity.ErrHoldNotFound)

	_, err = repo.Hold.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, entity.ErrHoldNotFound)
}

func TestPostgresBooking_Order(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	email := "a@example.com"

	first := &entity.Booking{ID: uuid.New(), UserID: "u1", Tier: entity.TierVIP, Quantity: 2, TotalPrice: decimal.RequireFromString("199.99"), Timestamp: now, Email: &email}
	second := &entity.Booking{ID: uuid.New(), UserID: "u2", Tier: entity.TierGA, Quantity: 3, TotalPrice: decimal.NewFromInt(30), Timestamp: now}
	require.NoError(t, repo.Booking.Create(ctx, first))
	require.NoError(t, repo.Booking.Create(ctx, second))

	bookings, err := repo.Booking.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, first.ID, bookings[0].ID)
	assert.True(t, decimal.RequireFromString("199.99").Equal(bookings[0].TotalPrice), "got %s", bookings[0].TotalPrice)
	require.NotNil(t, bookings[0].Email)
	assert.Equal(t, email, *bookings[0].Email)
	assert.Nil(t, bookings[1].Email)
}
