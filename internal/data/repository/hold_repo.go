package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticket-booking/internal/data/entity"
	"ticket-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const holdColumns = `id, user_id, tier, quantity, expires_at, created_at`

type holdRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewHoldRepository(db database.PgxIface, log *zap.Logger) HoldRepository {
	return &holdRepository{
		db:  db,
		log: log.With(zap.String("repository", "hold")),
	}
}

func scanHold(row pgx.Row) (*entity.Hold, error) {
	var h entity.Hold
	if err := row.Scan(&h.ID, &h.UserID, &h.Tier, &h.Quantity, &h.ExpiresAt, &h.CreatedAt); err != nil {
		return nil, err
	}
	return &h, nil
}

func collectHolds(rows pgx.Rows) ([]*entity.Hold, error) {
	defer rows.Close()

	var holds []*entity.Hold
	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hold: %w", err)
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holds: %w", err)
	}
	return holds, nil
}

func (r *holdRepository) Create(ctx context.Context, hold *entity.Hold) error {
	query := `
		INSERT INTO ticket_holds (id, user_id, tier, quantity, expires_at, user_id_tier, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := conn(ctx, r.db).Exec(ctx, query,
		hold.ID,
		hold.UserID,
		hold.Tier,
		hold.Quantity,
		hold.ExpiresAt,
		hold.UserIDTier(),
		hold.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create hold",
			zap.Error(err),
			zap.String("hold_id", hold.ID.String()),
			zap.String("user_id", hold.UserID),
		)
		return fmt.Errorf("create hold %s: %w", hold.ID, err)
	}

	return nil
}

func (r *holdRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Hold, error) {
	query := `SELECT ` + holdColumns + ` FROM ticket_holds WHERE id = $1`
	if txFromContext(ctx) != nil {
		query += ` FOR UPDATE`
	}

	h, err := scanHold(conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entity.ErrHoldNotFound, id)
	}
	if err != nil {
		r.log.Error("Failed to find hold", zap.Error(err), zap.String("hold_id", id.String()))
		return nil, fmt.Errorf("find hold %s: %w", id, err)
	}

	return h, nil
}

func (r *holdRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM ticket_holds WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete hold", zap.Error(err), zap.String("hold_id", id.String()))
		return fmt.Errorf("delete hold %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", entity.ErrHoldNotFound, id)
	}
	return nil
}

func (r *holdRepository) DeleteExpired(ctx context.Context, now time.Time) ([]*entity.Hold, error) {
	query := `DELETE FROM ticket_holds WHERE expires_at <= $1 RETURNING ` + holdColumns

	rows, err := conn(ctx, r.db).Query(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to delete expired holds", zap.Error(err))
		return nil, fmt.Errorf("delete expired holds: %w", err)
	}

	return collectHolds(rows)
}

func (r *holdRepository) FindAll(ctx context.Context) ([]*entity.Hold, error) {
	query := `SELECT ` + holdColumns + ` FROM ticket_holds ORDER BY created_at, id`

	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list holds", zap.Error(err))
		return nil, fmt.Errorf("list holds: %w", err)
	}

	return collectHolds(rows)
}
