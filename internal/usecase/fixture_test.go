package usecase

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"ticket-booking/internal/clock"
	"ticket-booking/internal/data/entity"
	"ticket-booking/internal/data/repository"
	"ticket-booking/internal/notify"
	"ticket-booking/pkg/database"
	"ticket-booking/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testStart = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.ChangeEvent
	err    error
}

func (n *recordingNotifier) Publish(_ context.Context, event notify.ChangeEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *recordingNotifier) Close() error { return nil }

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}

// recordingCache mirrors the redis cache's generation check in memory.
type recordingCache struct {
	mu          sync.Mutex
	tickets     []*entity.Ticket
	has         bool
	gen         int64
	sets        int
	invalidates int
	getErr      error
}

func (c *recordingCache) Get(context.Context) ([]*entity.Ticket, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.tickets, c.has, nil
}

func (c *recordingCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *recordingCache) Set(_ context.Context, gen int64, tickets []*entity.Ticket) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false, nil
	}
	c.tickets, c.has = tickets, true
	c.sets++
	return true, nil
}

func (c *recordingCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickets, c.has = nil, false
	c.gen++
	c.invalidates++
	return nil
}

func (c *recordingCache) snapshot() ([]*entity.Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickets, c.has
}

// pausingTicketRepo blocks the first FindAll after it has read the store.
type pausingTicketRepo struct {
	repository.TicketRepository
	once    sync.Once
	reached chan struct{}
	release chan struct{}
}

func newPausingTicketRepo(inner repository.TicketRepository) *pausingTicketRepo {
	return &pausingTicketRepo{
		TicketRepository: inner,
		reached:          make(chan struct{}),
		release:          make(chan struct{}),
	}
}

func (r *pausingTicketRepo) FindAll(ctx context.Context) ([]*entity.Ticket, error) {
	tickets, err := r.TicketRepository.FindAll(ctx)
	r.once.Do(func() {
		close(r.reached)
		<-r.release
	})
	return tickets, err
}

type fixture struct {
	repo     *repository.Repository
	svc      *Service
	clock    *clock.Manual
	notifier *recordingNotifier
	cache    *recordingCache
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWith(t, repository.NewMemoryRepository(zap.NewNop()))
}

func newFixtureWith(t *testing.T, repo *repository.Repository) *fixture {
	t.Helper()

	f := &fixture{
		repo:     repo,
		clock:    clock.NewManual(testStart),
		notifier: &recordingNotifier{},
		cache:    &recordingCache{},
	}
	config := &utils.Config{Booking: utils.BookingConfig{HoldTTL: 5 * time.Minute, SweepInterval: time.Minute}}
	f.svc = NewService(f.repo, Extensions{Cache: f.cache, Notifier: f.notifier, Clock: f.clock}, config, zap.NewNop())

	seeded, err := f.svc.Ticket.Seed(context.Background())
	require.NoError(t, err)
	require.True(t, seeded)
	return f
}

const postgresSchema = "usecase_test"

// newPostgresRepo connects to TEST_DATABASE_URL using its own schema, then
// migrates and truncates.
func newPostgresRepo(t *testing.T) *repository.Repository {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	config.ConnConfig.RuntimeParams["search_path"] = postgresSchema
	config.MaxConns = 16
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

	_, err = pool.Exec(ctx, `CREATE SCHEMA IF NOT EXISTS `+postgresSchema)
	require.NoError(t, err)

	db := database.NewDB(pool)
	_, err = database.Migrate(ctx, db)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `TRUNCATE bookings, ticket_holds, tickets`)
	require.NoError(t, err)

	return repository.NewRepository(db, zap.NewNop())
}

var drivers = []struct {
	name    string
	newRepo func(t *testing.T) *repository.Repository
}{
	{name: "memory", newRepo: func(*testing.T) *repository.Repository { return repository.NewMemoryRepository(zap.NewNop()) }},
	{name: "postgres", newRepo: newPostgresRepo},
}

// eachDriver runs fn on a fresh fixture per storage driver. Postgres is
// skipped unless TEST_DATABASE_URL is set.
func eachDriver(t *testing.T, fn func(t *testing.T, f *fixture)) {
	t.Helper()
	for _, d := range drivers {
		t.Run(d.name, func(t *testing.T) {
			fn(t, newFixtureWith(t, d.newRepo(t)))
		})
	}
}

func (f *fixture) ticket(t *testing.T, tier entity.Tier) *entity.Ticket {
	t.Helper()
	ticket, err := f.repo.Ticket.FindByTier(context.Background(), tier)
	require.NoError(t, err)
	return ticket
}

// requireBalanced checks available + booked + held == total for every tier.
func (f *fixture) requireBalanced(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	holds, err := f.repo.Hold.FindAll(ctx)
	require.NoError(t, err)
	held := make(map[entity.Tier]int)
	for _, h := range holds {
		held[h.Tier] += h.Quantity
	}

	tickets, err := f.repo.Ticket.FindAll(ctx)
	require.NoError(t, err)
	for _, ticket := range tickets {
		require.GreaterOrEqual(t, ticket.Available, 0, ticket.Tier)
		require.LessOrEqual(t, ticket.Available, ticket.Total, ticket.Tier)
		require.GreaterOrEqual(t, ticket.Booked, 0, ticket.Tier)
		require.LessOrEqual(t, ticket.Booked, ticket.Total, ticket.Tier)
		require.Equal(t, ticket.Total, ticket.Available+ticket.Booked+held[ticket.Tier],
			"tier %s: available=%d booked=%d held=%d", ticket.Tier, ticket.Available, ticket.Booked, held[ticket.Tier])
	}
}

type failingBookingRepo struct{}

var errBookingStore = errors.New("booking store down")

func (failingBookingRepo) Create(context.Context, *entity.Booking) error { return errBookingStore }
func (failingBookingRepo) FindAll(context.Context) ([]*entity.Booking, error) {
	return nil, errBookingStore
}

var nopLog = zap.NewNop()
