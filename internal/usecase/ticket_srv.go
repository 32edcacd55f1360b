package usecase

import (
	"context"
	"fmt"

	"ticket-booking/internal/cache"
	"ticket-booking/internal/data/entity"
	"ticket-booking/internal/data/repository"
	"ticket-booking/internal/dto/response"

	"go.uber.org/zap"
)

type TicketService interface {
	GetTickets(ctx context.Context) ([]response.TicketResponse, error)
	// Seed inserts the default inventory when no tier exists yet.
	Seed(ctx context.Context) (bool, error)
}

type ticketService struct {
	repo  *repository.Repository
	cache cache.TicketCache
	log   *zap.Logger
}

func NewTicketService(repo *repository.Repository, c cache.TicketCache, log *zap.Logger) TicketService {
	return &ticketService{
		repo:  repo,
		cache: c,
		log:   log.With(zap.String("service", "ticket")),
	}
}

func (s *ticketService) GetTickets(ctx context.Context) ([]response.TicketResponse, error) {
	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.log.Warn("Ticket cache read failed, falling back to store", zap.Error(err))
	}
	if ok {
		return response.NewTicketListResponse(cached), nil
	}

	// generation must be read before the store
	gen, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		s.log.Warn("Ticket cache generation read failed, not caching", zap.Error(genErr))
	}

	tickets, err := s.repo.Ticket.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get tickets: %w", err)
	}

	if genErr == nil {
		stored, err := s.cache.Set(ctx, gen, tickets)
		if err != nil {
			s.log.Warn("Ticket cache write failed", zap.Error(err))
		} else if !stored {
			s.log.Debug("Ticket snapshot outdated by a concurrent write, not cached", zap.Int64("generation", gen))
		}
	}

	return response.NewTicketListResponse(tickets), nil
}

func (s *ticketService) Seed(ctx context.Context) (bool, error) {
	seeded := false
	err := s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		count, err := s.repo.Ticket.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := s.repo.Ticket.CreateBatch(ctx, entity.DefaultTickets()); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		s.log.Error("Failed to seed tickets", zap.Error(err))
		return false, fmt.Errorf("seed tickets: %w", err)
	}

	if seeded {
		s.log.Info("Ticket inventory seeded", zap.Int("tiers", len(entity.Tiers)))
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn("Failed to invalidate ticket cache", zap.Error(err))
		}
	}
	return seeded, nil
}
