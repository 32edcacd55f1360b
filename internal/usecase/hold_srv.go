package usecase

import (
	"context"
	"fmt"
	"time"

	"ticket-booking/internal/clock"
	"ticket-booking/internal/data/entity"
	"ticket-booking/internal/data/repository"
	"ticket-booking/internal/dto/request"
	"ticket-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type HoldService interface {
	HoldTickets(ctx context.Context, req *request.HoldRequest) (*response.HoldResponse, error)
	// ReleaseExpiredHolds returns every lapsed hold's quantity to its tier in one unit.
	ReleaseExpiredHolds(ctx context.Context) (*ReleaseResult, error)
}

type ReleaseResult struct {
	Holds int
	Units int
	Tiers []entity.Tier
}

type holdService struct {
	repo    *repository.Repository
	changes *changeFeed
	clock   clock.Clock
	ttl     time.Duration
	log     *zap.Logger
}

func NewHoldService(repo *repository.Repository, changes *changeFeed, clk clock.Clock, ttl time.Duration, log *zap.Logger) HoldService {
	return &holdService{
		repo:    repo,
		changes: changes,
		clock:   clk,
		ttl:     ttl,
		log:     log.With(zap.String("service", "hold")),
	}
}

func (s *holdService) HoldTickets(ctx context.Context, req *request.HoldRequest) (*response.HoldResponse, error) {
	if err := validateRequest(req); err != nil {
		s.log.Warn("Hold validation failed", zap.Error(err))
		return nil, err
	}

	tier, err := entity.ParseTier(req.Tier)
	if err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: %d", entity.ErrInvalidQuantity, req.Quantity)
	}

	var hold *entity.Hold
	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		ticket, err := s.repo.Ticket.FindByTier(ctx, tier)
		if err != nil {
			return err
		}
		if ticket.Available < req.Quantity {
			return fmt.Errorf("%w: %s has %d, requested %d",
				entity.ErrInsufficientInventory, tier, ticket.Available, req.Quantity)
		}

		if _, err := s.repo.Ticket.Adjust(ctx, entity.Adjustment{
			Tier:            tier,
			AvailableDelta:  -req.Quantity,
			ExpectedVersion: ticket.Version,
		}); err != nil {
			return err
		}

		now := s.clock.Now()
		hold = &entity.Hold{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			UserID:     req.UserID,
			Tier:       tier,
			Quantity:   req.Quantity,
			ExpiresAt:  now.Add(s.ttl),
		}
		return s.repo.Hold.Create(ctx, hold)
	})
	if err != nil {
		s.log.Warn("Hold rejected",
			zap.Error(err),
			zap.String("user_id", req.UserID),
			zap.String("tier", req.Tier),
			zap.Int("quantity", req.Quantity),
		)
		return nil, fmt.Errorf("hold tickets: %w", err)
	}

	s.changes.ticketsChanged(ctx, tier)

	s.log.Info("Tickets held",
		zap.String("hold_id", hold.ID.String()),
		zap.String("user_id", hold.UserID),
		zap.String("tier", tier.String()),
		zap.Int("quantity", hold.Quantity),
		zap.Time("expires_at", hold.ExpiresAt),
	)

	return response.NewHoldResponse(hold), nil
}

func (s *holdService) ReleaseExpiredHolds(ctx context.Context) (*ReleaseResult, error) {
	result := &ReleaseResult{}

	err := s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		*result = ReleaseResult{}

		expired, err := s.repo.Hold.DeleteExpired(ctx, s.clock.Now())
		if err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}

		perTier := make(map[entity.Tier]int)
		for _, h := range expired {
			perTier[h.Tier] += h.Quantity
			result.Units += h.Quantity
		}
		result.Holds = len(expired)

		// fixed tier order keeps row locks ordered
		for _, tier := range entity.Tiers {
			qty, ok := perTier[tier]
			if !ok {
				continue
			}
			ticket, err := s.repo.Ticket.FindByTier(ctx, tier)
			if err != nil {
				return err
			}
			if _, err := s.repo.Ticket.Adjust(ctx, entity.Adjustment{
				Tier:            tier,
				AvailableDelta:  qty,
				ExpectedVersion: ticket.Version,
			}); err != nil {
				return err
			}
			result.Tiers = append(result.Tiers, tier)
		}
		return nil
	})
	if err != nil {
		s.log.Error("Failed to release expired holds", zap.Error(err))
		return nil, fmt.Errorf("release expired holds: %w", err)
	}

	if result.Holds > 0 {
		s.changes.ticketsChanged(ctx, result.Tiers...)
	}

	return result, nil
}
