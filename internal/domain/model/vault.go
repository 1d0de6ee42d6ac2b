package model

import "time"

// VaultBalance is the custodial pool of payout currency, in its smallest
// denomination. It never goes negative.
type VaultBalance struct {
	Balance   uint64
	UpdatedAt time.Time
}

// Funding is an audit record of a single vault deposit.
type Funding struct {
	ID        int64
	Funder    string
	Amount    uint64
	CreatedAt time.Time
}
