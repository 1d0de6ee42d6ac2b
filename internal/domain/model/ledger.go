package model

import "time"

// AccountClass distinguishes participant roles in the rewards program.
type AccountClass string

const (
	AccountClassFan    AccountClass = "fan"
	AccountClassArtist AccountClass = "artist"
)

// Valid reports whether the class is one of the known values.
func (c AccountClass) Valid() bool {
	return c == AccountClassFan || c == AccountClassArtist
}

// MinRedeemPoints is the fixed redemption threshold: ledgers below it
// cannot redeem.
const MinRedeemPoints uint64 = 1000

// UserLedger holds the points balance and lifetime counters for one identity.
// Points only grow through activity accrual and drain to zero on redemption,
// so Points == TotalEarned - TotalRedeemed at all times.
type UserLedger struct {
	Identity      string
	AccountClass  AccountClass
	Points        uint64
	TotalEarned   uint64
	TotalRedeemed uint64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
