package dto

import "time"

// VaultDepositRequest describes vault funding payload.
type VaultDepositRequest struct {
	Amount uint64 `json:"amount"`
}

// VaultResponse represents the payout pool balance.
type VaultResponse struct {
	Balance   uint64    `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}
