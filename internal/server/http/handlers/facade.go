package handlers

import (
	"context"

	"github.com/solstream/rewards/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (string, error)
}

// StateFacade exposes global configuration transitions.
type StateFacade interface {
	InitializeGlobal(ctx context.Context, caller string, conversionRate uint64) (*model.GlobalConfig, error)
	GlobalState(ctx context.Context) (*model.GlobalConfig, error)
	UpdateConversionRate(ctx context.Context, caller string, conversionRate uint64) error
}

// LedgerFacade encapsulates ledger operations exposed via HTTP.
type LedgerFacade interface {
	CreateLedger(ctx context.Context, caller string, class model.AccountClass) (*model.UserLedger, error)
	Ledger(ctx context.Context, identity string) (*model.UserLedger, error)
	RecordActivity(ctx context.Context, authorizer, target string, awarded uint64, activity model.ActivityType) (*model.UserLedger, error)
	Redeem(ctx context.Context, caller string) (*model.Payout, error)
	ActivityHistory(ctx context.Context, identity string) ([]model.Activity, error)
	PayoutHistory(ctx context.Context, identity string) ([]model.Payout, error)
}

// VaultFacade provides payout pool operations.
type VaultFacade interface {
	VaultBalance(ctx context.Context) (*model.VaultBalance, error)
	FundVault(ctx context.Context, funder string, amount uint64) (*model.VaultBalance, error)
}

// RewardsFacade aggregates the full set of operations used across handlers.
type RewardsFacade interface {
	AuthFacade
	StateFacade
	LedgerFacade
	VaultFacade
}
