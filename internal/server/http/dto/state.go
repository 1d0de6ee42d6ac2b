package dto

import "time"

// StateInitRequest describes system bootstrap payload.
type StateInitRequest struct {
	ConversionRate uint64 `json:"conversion_rate"`
}

// RateUpdateRequest describes conversion rate change payload.
type RateUpdateRequest struct {
	ConversionRate uint64 `json:"conversion_rate"`
}

// StateResponse represents the global system configuration.
type StateResponse struct {
	Admin                  string    `json:"admin"`
	ConversionRate         uint64    `json:"conversion_rate"`
	TotalPointsDistributed uint64    `json:"total_points_distributed"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}
