package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Booking struct {
	ID         uuid.UUID       `db:"id"`
	UserID     string          `db:"user_id"`
	Tier       Tier            `db:"tier"`
	Quantity   int             `db:"quantity"`
	TotalPrice decimal.Decimal `db:"total_price"`
	Timestamp  time.Time       `db:"timestamp"`
	UserName   *string         `db:"user_name"`
	Email      *string         `db:"email"`
	Phone      *string         `db:"phone"`
}

// Contact is the optional buyer information attached to a booking.
type Contact struct {
	UserName *string
	Email    *string
	Phone    *string
}
