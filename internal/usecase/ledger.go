package usecase

import (
	"context"

	domainErrors "github.com/solstream/rewards/internal/domain/errors"
	"github.com/solstream/rewards/internal/domain/model"
	"github.com/solstream/rewards/internal/domain/repository"
)

// LedgerUseCase implements the guarded state transitions of the rewards
// ledger. Authorization is checked here, at the top of each transition;
// the repositories only enforce storage-level invariants.
type LedgerUseCase struct {
	globals    repository.GlobalRepository
	ledgers    repository.LedgerRepository
	activities repository.ActivityRepository
	payouts    repository.PayoutRepository
}

// NewLedgerUseCase constructs LedgerUseCase.
func NewLedgerUseCase(
	globals repository.GlobalRepository,
	ledgers repository.LedgerRepository,
	activities repository.ActivityRepository,
	payouts repository.PayoutRepository,
) *LedgerUseCase {
	return &LedgerUseCase{globals: globals, ledgers: ledgers, activities: activities, payouts: payouts}
}

// InitializeGlobal performs one-time system bootstrap. The caller becomes
// the admin identity.
func (u *LedgerUseCase) InitializeGlobal(ctx context.Context, caller string, conversionRate uint64) (*model.GlobalConfig, error) {
	if conversionRate == 0 {
		return nil, domainErrors.ErrInvalidArgument
	}
	return u.globals.Init(ctx, caller, conversionRate)
}

// GlobalState returns the current system configuration.
func (u *LedgerUseCase) GlobalState(ctx context.Context) (*model.GlobalConfig, error) {
	return u.globals.Get(ctx)
}

// CreateLedger registers a ledger for the caller identity.
func (u *LedgerUseCase) CreateLedger(ctx context.Context, caller string, class model.AccountClass) (*model.UserLedger, error) {
	if !class.Valid() {
		return nil, domainErrors.ErrInvalidArgument
	}
	return u.ledgers.Create(ctx, caller, class)
}

// Ledger returns the ledger owned by the identity.
func (u *LedgerUseCase) Ledger(ctx context.Context, identity string) (*model.UserLedger, error) {
	return u.ledgers.GetByIdentity(ctx, identity)
}

// RecordActivity awards points to the target identity. Only the admin may
// authorize accruals; the activity type is carried as metadata only.
func (u *LedgerUseCase) RecordActivity(ctx context.Context, authorizer, target string, awarded uint64, activity model.ActivityType) (*model.UserLedger, error) {
	if awarded == 0 {
		return nil, domainErrors.ErrInvalidArgument
	}
	if !activity.Valid() {
		return nil, domainErrors.ErrInvalidArgument
	}

	global, err := u.globals.Get(ctx)
	if err != nil {
		return nil, err
	}
	if global.AdminIdentity != authorizer {
		return nil, domainErrors.ErrUnauthorized
	}

	return u.ledgers.Accrue(ctx, target, awarded, activity)
}

// Redeem drains the caller's full points balance into a pending payout.
func (u *LedgerUseCase) Redeem(ctx context.Context, caller string) (*model.Payout, error) {
	return u.ledgers.Redeem(ctx, caller)
}

// UpdateConversionRate replaces the points-per-token rate. Admin only.
func (u *LedgerUseCase) UpdateConversionRate(ctx context.Context, caller string, conversionRate uint64) error {
	if conversionRate == 0 {
		return domainErrors.ErrInvalidArgument
	}

	global, err := u.globals.Get(ctx)
	if err != nil {
		return err
	}
	if global.AdminIdentity != caller {
		return domainErrors.ErrUnauthorized
	}

	return u.globals.UpdateRate(ctx, conversionRate)
}

// ActivityHistory returns recorded accruals for the identity.
func (u *LedgerUseCase) ActivityHistory(ctx context.Context, identity string) ([]model.Activity, error) {
	return u.activities.ListByIdentity(ctx, identity)
}

// PayoutHistory returns redemption payouts for the identity.
func (u *LedgerUseCase) PayoutHistory(ctx context.Context, identity string) ([]model.Payout, error) {
	return u.payouts.ListByIdentity(ctx, identity)
}

// PayoutsForSettlement claims pending payouts for the settlement worker.
func (u *LedgerUseCase) PayoutsForSettlement(ctx context.Context, limit int) ([]model.Payout, error) {
	return u.payouts.SelectBatchForSettlement(ctx, limit)
}

// MarkPayoutSettled records a completed external transfer.
func (u *LedgerUseCase) MarkPayoutSettled(ctx context.Context, payoutID int64) error {
	return u.payouts.MarkSettled(ctx, payoutID)
}

// ReleasePayout returns a claimed payout to the settlement queue.
func (u *LedgerUseCase) ReleasePayout(ctx context.Context, payoutID int64) error {
	return u.payouts.Release(ctx, payoutID)
}
