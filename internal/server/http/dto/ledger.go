package dto

import "time"

// LedgerCreateRequest describes ledger registration payload.
type LedgerCreateRequest struct {
	AccountClass string `json:"account_class"`
}

// LedgerResponse represents a user points ledger.
type LedgerResponse struct {
	Identity      string    `json:"identity"`
	AccountClass  string    `json:"account_class"`
	Points        uint64    `json:"points"`
	TotalEarned   uint64    `json:"total_earned"`
	TotalRedeemed uint64    `json:"total_redeemed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ActivityRequest describes an accrual authorization payload.
type ActivityRequest struct {
	Points   uint64 `json:"points"`
	Activity string `json:"activity"`
}

// ActivityResponse describes a recorded accrual.
type ActivityResponse struct {
	Activity  string    `json:"activity"`
	Points    uint64    `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// PayoutResponse describes a redemption payout entry.
type PayoutResponse struct {
	ID        int64      `json:"id"`
	Points    uint64     `json:"points"`
	Amount    uint64     `json:"amount"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
}
