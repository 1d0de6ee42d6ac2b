package app

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/solstream/rewards/internal/domain/errors"
	"github.com/solstream/rewards/internal/domain/model"
	"github.com/solstream/rewards/internal/usecase"
)

// TreasuryProvider performs external value transfers paired with ledger
// transitions. References make retried transfers idempotent.
type TreasuryProvider interface {
	Payout(ctx context.Context, recipient string, amount uint64, reference string) error
	Collect(ctx context.Context, funder string, amount uint64, reference string) error
}

// RewardsFacade aggregates use cases behind a single application surface.
type RewardsFacade struct {
	auth     *usecase.AuthUseCase
	ledger   *usecase.LedgerUseCase
	vault    *usecase.VaultUseCase
	treasury TreasuryProvider
}

func NewRewardsFacade(auth *usecase.AuthUseCase, ledger *usecase.LedgerUseCase, vault *usecase.VaultUseCase, treasury TreasuryProvider) *RewardsFacade {
	return &RewardsFacade{auth: auth, ledger: ledger, vault: vault, treasury: treasury}
}

func (f *RewardsFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *RewardsFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *RewardsFacade) ParseToken(token string) (string, error) {
	return f.auth.ParseToken(token)
}

func (f *RewardsFacade) InitializeGlobal(ctx context.Context, caller string, conversionRate uint64) (*model.GlobalConfig, error) {
	return f.ledger.InitializeGlobal(ctx, caller, conversionRate)
}

func (f *RewardsFacade) GlobalState(ctx context.Context) (*model.GlobalConfig, error) {
	return f.ledger.GlobalState(ctx)
}

func (f *RewardsFacade) UpdateConversionRate(ctx context.Context, caller string, conversionRate uint64) error {
	return f.ledger.UpdateConversionRate(ctx, caller, conversionRate)
}

func (f *RewardsFacade) CreateLedger(ctx context.Context, caller string, class model.AccountClass) (*model.UserLedger, error) {
	return f.ledger.CreateLedger(ctx, caller, class)
}

func (f *RewardsFacade) Ledger(ctx context.Context, identity string) (*model.UserLedger, error) {
	return f.ledger.Ledger(ctx, identity)
}

func (f *RewardsFacade) RecordActivity(ctx context.Context, authorizer, target string, awarded uint64, activity model.ActivityType) (*model.UserLedger, error) {
	return f.ledger.RecordActivity(ctx, authorizer, target, awarded, activity)
}

func (f *RewardsFacade) Redeem(ctx context.Context, caller string) (*model.Payout, error) {
	return f.ledger.Redeem(ctx, caller)
}

func (f *RewardsFacade) ActivityHistory(ctx context.Context, identity string) ([]model.Activity, error) {
	return f.ledger.ActivityHistory(ctx, identity)
}

func (f *RewardsFacade) PayoutHistory(ctx context.Context, identity string) ([]model.Payout, error) {
	return f.ledger.PayoutHistory(ctx, identity)
}

func (f *RewardsFacade) VaultBalance(ctx context.Context) (*model.VaultBalance, error) {
	return f.vault.Balance(ctx)
}

// FundVault debits the funder's external balance through the treasury and
// credits the vault. The external transfer comes first: on a credit failure
// the funding can be reconciled by reference, while the reverse order could
// pay out currency the pool never received.
func (f *RewardsFacade) FundVault(ctx context.Context, funder string, amount uint64) (*model.VaultBalance, error) {
	if amount == 0 {
		return nil, domainErrors.ErrInvalidArgument
	}

	reference := fmt.Sprintf("funding-%s-%d", funder, time.Now().UnixNano())
	if err := f.treasury.Collect(ctx, funder, amount, reference); err != nil {
		return nil, err
	}

	return f.vault.Deposit(ctx, funder, amount)
}

func (f *RewardsFacade) PayoutsForSettlement(ctx context.Context, limit int) ([]model.Payout, error) {
	return f.ledger.PayoutsForSettlement(ctx, limit)
}

func (f *RewardsFacade) TransferPayout(ctx context.Context, payout model.Payout) error {
	reference := fmt.Sprintf("payout-%d", payout.ID)
	return f.treasury.Payout(ctx, payout.Identity, payout.Amount, reference)
}

func (f *RewardsFacade) MarkPayoutSettled(ctx context.Context, payoutID int64) error {
	return f.ledger.MarkPayoutSettled(ctx, payoutID)
}

func (f *RewardsFacade) ReleasePayout(ctx context.Context, payoutID int64) error {
	return f.ledger.ReleasePayout(ctx, payoutID)
}
