package request

type HoldRequest struct {
	UserID   string `json:"userId" validate:"required,max=100"`
	Tier     string `json:"tier" validate:"required,oneof=VIP FrontRow GA"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// ContactInfo is the optional buyer data shared by confirm and book.
type ContactInfo struct {
	UserName *string `json:"userName,omitempty" validate:"omitempty,max=255"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

type ConfirmBookingRequest struct {
	HoldID string `json:"holdId" validate:"required,uuid"`
	ContactInfo
}

type BookTicketsRequest struct {
	UserID   string `json:"userId" validate:"required,max=100"`
	Tier     string `json:"tier" validate:"required,oneof=VIP FrontRow GA"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	ContactInfo
}
