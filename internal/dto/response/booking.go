package response

import (
	"time"

	"ticket-booking/internal/data/entity"
)

const PaymentStatusSuccess = "success"

type HoldDetail struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Tier      string    `json:"tier"`
	Quantity  int       `json:"quantity"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

type HoldResponse struct {
	Hold      HoldDetail `json:"hold"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

func NewHoldResponse(h *entity.Hold) *HoldResponse {
	return &HoldResponse{
		Hold: HoldDetail{
			ID:        h.ID.String(),
			UserID:    h.UserID,
			Tier:      h.Tier.String(),
			Quantity:  h.Quantity,
			ExpiresAt: h.ExpiresAt,
			CreatedAt: h.CreatedAt,
		},
		ExpiresAt: h.ExpiresAt,
	}
}

type BookingResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Tier       string    `json:"tier"`
	Quantity   int       `json:"quantity"`
	TotalPrice float64   `json:"totalPrice"`
	Timestamp  time.Time `json:"timestamp"`
	UserName   *string   `json:"userName,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
}

func NewBookingResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID.String(),
		UserID:     b.UserID,
		Tier:       b.Tier.String(),
		Quantity:   b.Quantity,
		TotalPrice: b.TotalPrice.InexactFloat64(),
		Timestamp:  b.Timestamp,
		UserName:   b.UserName,
		Email:      b.Email,
		Phone:      b.Phone,
	}
}

func NewBookingListResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, NewBookingResponse(b))
	}
	return out
}

type BookingResultResponse struct {
	Booking       BookingResponse `json:"booking"`
	PaymentStatus string          `json:"paymentStatus"`
}

func NewBookingResultResponse(b *entity.Booking) *BookingResultResponse {
	return &BookingResultResponse{
		Booking:       NewBookingResponse(b),
		PaymentStatus: PaymentStatusSuccess,
	}
}
