package model

import "time"

// GlobalConfig is the singleton system configuration created at bootstrap.
type GlobalConfig struct {
	AdminIdentity          string
	ConversionRate         uint64
	TotalPointsDistributed uint64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
