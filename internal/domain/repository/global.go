package repository

import (
	"context"

	"github.com/solstream/rewards/internal/domain/model"
)

// GlobalRepository manages the singleton system configuration.
type GlobalRepository interface {
	// Init creates the configuration exactly once; a second call returns
	// ErrAlreadyExists without modifying the stored record.
	Init(ctx context.Context, adminIdentity string, conversionRate uint64) (*model.GlobalConfig, error)
	// Get returns ErrNotFound while the system is uninitialized.
	Get(ctx context.Context) (*model.GlobalConfig, error)
	UpdateRate(ctx context.Context, conversionRate uint64) error
}
