package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticket-booking/internal/clock"
	"ticket-booking/internal/data/entity"
	"ticket-booking/internal/data/repository"
	"ticket-booking/internal/dto/request"
	"ticket-booking/internal/dto/response"
	"ticket-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BookingService interface {
	// ConfirmBooking turns a live hold into a booking. An expired hold is
	// released and ErrHoldExpired returned.
	ConfirmBooking(ctx context.Context, req *request.ConfirmBookingRequest) (*response.BookingResultResponse, error)
	// BookTickets books directly without a hold.
	BookTickets(ctx context.Context, req *request.BookTicketsRequest) (*response.BookingResultResponse, error)
	GetBookings(ctx context.Context) ([]response.BookingResponse, error)
}

type bookingService struct {
	repo    *repository.Repository
	changes *changeFeed
	clock   clock.Clock
	log     *zap.Logger
}

func NewBookingService(repo *repository.Repository, changes *changeFeed, clk clock.Clock, log *zap.Logger) BookingService {
	return &bookingService{
		repo:    repo,
		changes: changes,
		clock:   clk,
		log:     log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) ConfirmBooking(ctx context.Context, req *request.ConfirmBookingRequest) (*response.BookingResultResponse, error) {
	if err := validateRequest(req); err != nil {
		s.log.Warn("Confirm validation failed", zap.Error(err))
		return nil, err
	}

	holdID, err := uuid.Parse(req.HoldID)
	if err != nil {
		return nil, entity.NewValidationError(map[string]string{"holdId": "Must be a valid UUID"})
	}

	contact, err := normalizeContact(req.ContactInfo)
	if err != nil {
		return nil, err
	}

	var (
		booking *entity.Booking
		expired *entity.Hold
	)
	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		booking, expired = nil, nil

		hold, err := s.repo.Hold.FindByID(ctx, holdID)
		if err != nil {
			return err
		}

		ticket, err := s.repo.Ticket.FindByTier(ctx, hold.Tier)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		if hold.IsExpired(now) {
			// release and commit; the caller still gets ErrHoldExpired
			if _, err := s.repo.Ticket.Adjust(ctx, entity.Adjustment{
				Tier:            hold.Tier,
				AvailableDelta:  hold.Quantity,
				ExpectedVersion: ticket.Version,
			}); err != nil {
				return err
			}
			if err := s.repo.Hold.Delete(ctx, hold.ID); err != nil {
				return err
			}
			expired = hold
			return nil
		}

		if _, err := s.repo.Ticket.Adjust(ctx, entity.Adjustment{
			Tier:            hold.Tier,
			BookedDelta:     hold.Quantity,
			ExpectedVersion: ticket.Version,
		}); err != nil {
			return err
		}
		if err := s.repo.Hold.Delete(ctx, hold.ID); err != nil {
			return err
		}

		booking = newBooking(hold.UserID, hold.Tier, hold.Quantity, ticket.Price, now, contact)
		return s.repo.Booking.Create(ctx, booking)
	})
	if err != nil {
		if errors.Is(err, entity.ErrHoldNotFound) {
			s.log.Warn("Confirm for unknown hold", zap.String("hold_id", req.HoldID))
		} else {
			s.log.Error("Failed to confirm booking", zap.Error(err), zap.String("hold_id", req.HoldID))
		}
		return nil, fmt.Errorf("confirm booking: %w", err)
	}

	if expired != nil {
		s.changes.ticketsChanged(ctx, expired.Tier)
		s.log.Info("Expired hold released on confirm",
			zap.String("hold_id", expired.ID.String()),
			zap.String("tier", expired.Tier.String()),
			zap.Int("quantity", expired.Quantity),
		)
		return nil, fmt.Errorf("confirm booking %s: %w", expired.ID, entity.ErrHoldExpired)
	}

	s.changes.ticketsChanged(ctx, booking.Tier)
	s.changes.bookingsChanged(ctx, booking.Tier)

	s.log.Info("Booking confirmed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("hold_id", req.HoldID),
		zap.String("user_id", booking.UserID),
		zap.String("tier", booking.Tier.String()),
		zap.Int("quantity", booking.Quantity),
		zap.String("total_price", booking.TotalPrice.StringFixed(2)),
	)

	return response.NewBookingResultResponse(booking), nil
}

func (s *bookingService) BookTickets(ctx context.Context, req *request.BookTicketsRequest) (*response.BookingResultResponse, error) {
	if err := validateRequest(req); err != nil {
		s.log.Warn("Book validation failed", zap.Error(err))
		return nil, err
	}

	tier, err := entity.ParseTier(req.Tier)
	if err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: %d", entity.ErrInvalidQuantity, req.Quantity)
	}

	contact, err := normalizeContact(req.ContactInfo)
	if err != nil {
		return nil, err
	}

	var booking *entity.Booking
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
			BookedDelta:     req.Quantity,
			ExpectedVersion: ticket.Version,
		}); err != nil {
			return err
		}

		booking = newBooking(req.UserID, tier, req.Quantity, ticket.Price, s.clock.Now(), contact)
		return s.repo.Booking.Create(ctx, booking)
	})
	if err != nil {
		s.log.Warn("Direct booking rejected",
			zap.Error(err),
			zap.String("user_id", req.UserID),
			zap.String("tier", req.Tier),
			zap.Int("quantity", req.Quantity),
		)
		return nil, fmt.Errorf("book tickets: %w", err)
	}

	s.changes.ticketsChanged(ctx, tier)
	s.changes.bookingsChanged(ctx, tier)

	s.log.Info("Tickets booked",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", booking.UserID),
		zap.String("tier", tier.String()),
		zap.Int("quantity", booking.Quantity),
		zap.String("total_price", booking.TotalPrice.StringFixed(2)),
	)

	return response.NewBookingResultResponse(booking), nil
}

func (s *bookingService) GetBookings(ctx context.Context) ([]response.BookingResponse, error) {
	bookings, err := s.repo.Booking.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get bookings: %w", err)
	}
	return response.NewBookingListResponse(bookings), nil
}

// newBooking prices the booking at the tier's current price.
func newBooking(userID string, tier entity.Tier, quantity int, price decimal.Decimal, now time.Time, contact entity.Contact) *entity.Booking {
	return &entity.Booking{
		ID:         uuid.New(),
		UserID:     userID,
		Tier:       tier,
		Quantity:   quantity,
		TotalPrice: utils.LineTotal(price, quantity),
		Timestamp:  now,
		UserName:   contact.UserName,
		Email:      contact.Email,
		Phone:      contact.Phone,
	}
}
