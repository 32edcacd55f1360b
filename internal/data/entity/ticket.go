package entity

import "github.com/shopspring/decimal"

// Ticket is the inventory record of one tier.
// available + booked + sum(active hold quantities) == total.
type Ticket struct {
	Tier      Tier            `db:"tier"`
	Price     decimal.Decimal `db:"price"`
	Available int             `db:"available"`
	Total     int             `db:"total"`
	Booked    int             `db:"booked"`
	Version   int             `db:"version"`
}

// Adjustment moves capacity of one tier between available and booked.
// ExpectedVersion of zero skips the version check.
type Adjustment struct {
	Tier            Tier
	AvailableDelta  int
	BookedDelta     int
	ExpectedVersion int
}

// CanApply reports whether the adjustment keeps both counters within [0, total].
func (t *Ticket) CanApply(adj Adjustment) bool {
	available := t.Available + adj.AvailableDelta
	booked := t.Booked + adj.BookedDelta
	return available >= 0 && available <= t.Total && booked >= 0 && booked <= t.Total
}

// DefaultTickets is the fixed venue inventory seeded on first start.
func DefaultTickets() []*Ticket {
	return []*Ticket{
		{Tier: TierVIP, Price: decimal.NewFromInt(100), Available: 100, Total: 100, Version: 1},
		{Tier: TierFrontRow, Price: decimal.NewFromInt(50), Available: 200, Total: 200, Version: 1},
		{Tier: TierGA, Price: decimal.NewFromInt(10), Available: 500, Total: 500, Version: 1},
	}
}
