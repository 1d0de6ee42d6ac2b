package repository

import (
	"context"

	"github.com/solstream/rewards/internal/domain/model"
)

// ActivityRepository provides access to the accrual audit trail.
type ActivityRepository interface {
	ListByIdentity(ctx context.Context, identity string) ([]model.Activity, error)
}
