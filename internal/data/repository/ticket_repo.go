package repository

import (
	"context"
	"errors"
	"fmt"

	"ticket-booking/internal/data/entity"
	"ticket-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const ticketColumns = `tier, price, available, total, booked, version`

// display order VIP, FrontRow, GA
const ticketOrder = `CASE tier WHEN 'VIP' THEN 1 WHEN 'FrontRow' THEN 2 WHEN 'GA' THEN 3 ELSE 4 END`

type ticketRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketRepository(db database.PgxIface, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

func scanTicket(row pgx.Row) (*entity.Ticket, error) {
	var t entity.Ticket
	if err := row.Scan(&t.Tier, &t.Price, &t.Available, &t.Total, &t.Booked, &t.Version); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) FindAll(ctx context.Context) ([]*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY ` + ticketOrder

	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list tickets", zap.Error(err))
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*entity.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}

	return tickets, nil
}

func (r *ticketRepository) FindByTier(ctx context.Context, tier entity.Tier) (*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE tier = $1`
	if txFromContext(ctx) != nil {
		query += ` FOR UPDATE`
	}

	t, err := scanTicket(conn(ctx, r.db).QueryRow(ctx, query, tier))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entity.ErrTicketNotFound, tier)
	}
	if err != nil {
		r.log.Error("Failed to find ticket", zap.Error(err), zap.String("tier", tier.String()))
		return nil, fmt.Errorf("find ticket %s: %w", tier, err)
	}

	return t, nil
}

// Adjust applies the deltas with a compare-and-swap on version and bound checks.
func (r *ticketRepository) Adjust(ctx context.Context, adj entity.Adjustment) (*entity.Ticket, error) {
	query := `
		UPDATE tickets
		SET available = available + $2,
			booked = booked + $3,
			version = version + 1
		WHERE tier = $1
			AND ($4::int = 0 OR version = $4::int)
			AND available + $2 BETWEEN 0 AND total
			AND booked + $3 BETWEEN 0 AND total
		RETURNING ` + ticketColumns

	q := conn(ctx, r.db)
	t, err := scanTicket(q.QueryRow(ctx, query, adj.Tier, adj.AvailableDelta, adj.BookedDelta, adj.ExpectedVersion))
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.log.Error("Failed to adjust ticket",
			zap.Error(err),
			zap.String("tier", adj.Tier.String()),
			zap.Int("available_delta", adj.AvailableDelta),
			zap.Int("booked_delta", adj.BookedDelta),
		)
		return nil, fmt.Errorf("adjust ticket %s: %w", adj.Tier, err)
	}

	// nothing updated: work out which guard rejected it
	current, err := scanTicket(q.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE tier = $1`, adj.Tier))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entity.ErrTicketNotFound, adj.Tier)
	}
	if err != nil {
		return nil, fmt.Errorf("reload ticket %s: %w", adj.Tier, err)
	}
	if adj.ExpectedVersion != 0 && current.Version != adj.ExpectedVersion {
		r.log.Warn("Ticket version conflict",
			zap.String("tier", adj.Tier.String()),
			zap.Int("expected", adj.ExpectedVersion),
			zap.Int("actual", current.Version),
		)
		return nil, fmt.Errorf("%w: %s", entity.ErrVersionConflict, adj.Tier)
	}
	return nil, fmt.Errorf("%w: %s", entity.ErrInventoryBounds, adj.Tier)
}

func (r *ticketRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&count); err != nil {
		r.log.Error("Failed to count tickets", zap.Error(err))
		return 0, fmt.Errorf("count tickets: %w", err)
	}
	return count, nil
}

func (r *ticketRepository) CreateBatch(ctx context.Context, tickets []*entity.Ticket) error {
	query := `
		INSERT INTO tickets (tier, price, available, total, booked, version)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tier) DO NOTHING
	`

	q := conn(ctx, r.db)
	for _, t := range tickets {
		if _, err := q.Exec(ctx, query, t.Tier, t.Price, t.Available, t.Total, t.Booked, t.Version); err != nil {
			r.log.Error("Failed to create ticket", zap.Error(err), zap.String("tier", t.Tier.String()))
			return fmt.Errorf("create ticket %s: %w", t.Tier, err)
		}
	}
	return nil
}
