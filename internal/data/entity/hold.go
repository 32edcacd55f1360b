package entity

import "time"

// Hold reserves quantity tickets of a tier until ExpiresAt.
type Hold struct {
	BaseSimple
	UserID    string    `db:"user_id"`
	Tier      Tier      `db:"tier"`
	Quantity  int       `db:"quantity"`
	ExpiresAt time.Time `db:"expires_at"`
}

// UserIDTier is the composite lookup key stored next to the hold.
func (h *Hold) UserIDTier() string {
	return h.UserID + "-" + string(h.Tier)
}

// IsExpired reports whether the hold can no longer be confirmed at now.
func (h *Hold) IsExpired(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}
