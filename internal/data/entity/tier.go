package entity

import "fmt"

type Tier string

const (
	TierVIP      Tier = "VIP"
	TierFrontRow Tier = "FrontRow"
	TierGA       Tier = "GA"
)

// Tiers lists every sellable tier in display order.
var Tiers = []Tier{TierVIP, TierFrontRow, TierGA}

func (t Tier) Valid() bool {
	switch t {
	case TierVIP, TierFrontRow, TierGA:
		return true
	}
	return false
}

func (t Tier) String() string {
	return string(t)
}

// ParseTier returns ErrInvalidTier for anything outside the closed tier set.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTier, s)
	}
	return t, nil
}
