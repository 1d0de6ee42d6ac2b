package model

import "time"

// PayoutStatus describes settlement lifecycle of a redemption payout.
type PayoutStatus string

const (
	PayoutStatusPending  PayoutStatus = "PENDING"
	PayoutStatusSettling PayoutStatus = "SETTLING"
	PayoutStatusSettled  PayoutStatus = "SETTLED"
)

// Payout records a redemption: the vault was debited by Amount when the row
// was created, and the external transfer to the identity is settled
// asynchronously. A pending row is the durable retry marker.
type Payout struct {
	ID        int64
	Identity  string
	Points    uint64
	Amount    uint64
	Status    PayoutStatus
	CreatedAt time.Time
	SettledAt *time.Time
}
