package repository

import (
	"context"

	"github.com/solstream/rewards/internal/domain/model"
)

// PrincipalRepository describes persistence operations for authenticated callers.
type PrincipalRepository interface {
	Create(ctx context.Context, login, passwordHash string) (*model.Principal, error)
	GetByLogin(ctx context.Context, login string) (*model.Principal, error)
	GetByID(ctx context.Context, id int64) (*model.Principal, error)
}
