package domain

import "github.com/shopspring/decimal"

// DisplayScale is the number of fractional digits reported for every amount.
const DisplayScale int32 = 4

// ClientAccount is the mutable per-client balance aggregate.
// Total is maintained incrementally and always equals Available + Held.
type ClientAccount struct {
	ID        ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// NewClientAccount returns a zeroed, unlocked account.
func NewClientAccount(id ClientID) *ClientAccount {
	return &ClientAccount{
		ID:        id,
		Available: decimal.Zero,
		Held:      decimal.Zero,
		Total:     decimal.Zero,
	}
}

// AccountSnapshot is the reported view of one account, with every amount
// rounded to DisplayScale.
type AccountSnapshot struct {
	Client    ClientID        `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
}

// ReplaySummary provides high-level statistics of one replay run.
type ReplaySummary struct {
	EventsRead    int `json:"events_read"`
	EventsApplied int `json:"events_applied"`
	EventsIgnored int `json:"events_ignored"`
	Clients       int `json:"clients"`
}
