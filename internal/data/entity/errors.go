package entity

import "errors"

var (
	ErrValidation            = errors.New("validation failed")
	ErrInvalidTier           = errors.New("invalid tier")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrHoldNotFound          = errors.New("hold not found")
	ErrHoldExpired           = errors.New("hold expired")
	ErrTicketNotFound        = errors.New("ticket tier not found")
	ErrInventoryBounds       = errors.New("inventory adjustment out of bounds")
	ErrVersionConflict       = errors.New("inventory version conflict")
)

// ValidationError carries per-field messages for a rejected request.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
