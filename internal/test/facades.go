package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/solstream/rewards/internal/domain/model"
)

// StateFacadeStub provides controllable behaviour for state endpoints.
type StateFacadeStub struct {
	InitFn       func(context.Context, string, uint64) (*model.GlobalConfig, error)
	StateFn      func(context.Context) (*model.GlobalConfig, error)
	UpdateRateFn func(context.Context, string, uint64) error
}

// InitializeGlobal delegates to provided function or returns default state.
func (s StateFacadeStub) InitializeGlobal(ctx context.Context, caller string, conversionRate uint64) (*model.GlobalConfig, error) {
	if s.InitFn != nil {
		return s.InitFn(ctx, caller, conversionRate)
	}
	return &model.GlobalConfig{AdminIdentity: caller, ConversionRate: conversionRate}, nil
}

// GlobalState returns predefined configuration.
func (s StateFacadeStub) GlobalState(ctx context.Context) (*model.GlobalConfig, error) {
	if s.StateFn != nil {
		return s.StateFn(ctx)
	}
	return &model.GlobalConfig{AdminIdentity: "admin", ConversionRate: 100}, nil
}

// UpdateConversionRate executes configured handler.
func (s StateFacadeStub) UpdateConversionRate(ctx context.Context, caller string, conversionRate uint64) error {
	if s.UpdateRateFn != nil {
		return s.UpdateRateFn(ctx, caller, conversionRate)
	}
	return nil
}

// LedgerFacadeStub simulates ledger operations for HTTP layer tests.
type LedgerFacadeStub struct {
	CreateFn     func(context.Context, string, model.AccountClass) (*model.UserLedger, error)
	LedgerFn     func(context.Context, string) (*model.UserLedger, error)
	RecordFn     func(context.Context, string, string, uint64, model.ActivityType) (*model.UserLedger, error)
	RedeemFn     func(context.Context, string) (*model.Payout, error)
	ActivitiesFn func(context.Context, string) ([]model.Activity, error)
	PayoutsFn    func(context.Context, string) ([]model.Payout, error)
}

// CreateLedger delegates to provided function or returns an empty ledger.
func (s LedgerFacadeStub) CreateLedger(ctx context.Context, caller string, class model.AccountClass) (*model.UserLedger, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, caller, class)
	}
	return &model.UserLedger{Identity: caller, AccountClass: class}, nil
}

// Ledger returns predefined ledger for given identity.
func (s LedgerFacadeStub) Ledger(ctx context.Context, identity string) (*model.UserLedger, error) {
	if s.LedgerFn != nil {
		return s.LedgerFn(ctx, identity)
	}
	return &model.UserLedger{Identity: identity, AccountClass: model.AccountClassFan, Points: 500}, nil
}

// RecordActivity executes configured accrual handler.
func (s LedgerFacadeStub) RecordActivity(ctx context.Context, authorizer, target string, awarded uint64, activity model.ActivityType) (*model.UserLedger, error) {
	if s.RecordFn != nil {
		return s.RecordFn(ctx, authorizer, target, awarded, activity)
	}
	return &model.UserLedger{Identity: target, Points: awarded, TotalEarned: awarded}, nil
}

// Redeem returns configured payout.
func (s LedgerFacadeStub) Redeem(ctx context.Context, caller string) (*model.Payout, error) {
	if s.RedeemFn != nil {
		return s.RedeemFn(ctx, caller)
	}
	return &model.Payout{ID: 1, Identity: caller, Points: 1000, Amount: 10, Status: model.PayoutStatusPending}, nil
}

// ActivityHistory returns preconfigured history.
func (s LedgerFacadeStub) ActivityHistory(ctx context.Context, identity string) ([]model.Activity, error) {
	if s.ActivitiesFn != nil {
		return s.ActivitiesFn(ctx, identity)
	}
	return []model.Activity{{Identity: identity, Type: model.ActivityTypeStream, Points: 10, RecordedAt: time.Unix(0, 0)}}, nil
}

// PayoutHistory returns preconfigured payouts.
func (s LedgerFacadeStub) PayoutHistory(ctx context.Context, identity string) ([]model.Payout, error) {
	if s.PayoutsFn != nil {
		return s.PayoutsFn(ctx, identity)
	}
	return []model.Payout{{ID: 1, Identity: identity, Points: 1000, Amount: 10, Status: model.PayoutStatusSettled}}, nil
}

// VaultFacadeStub simulates payout pool operations.
type VaultFacadeStub struct {
	BalanceFn func(context.Context) (*model.VaultBalance, error)
	FundFn    func(context.Context, string, uint64) (*model.VaultBalance, error)
}

// VaultBalance returns stored balance or default data.
func (s VaultFacadeStub) VaultBalance(ctx context.Context) (*model.VaultBalance, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx)
	}
	return &model.VaultBalance{Balance: 1000, UpdatedAt: time.Unix(0, 0)}, nil
}

// FundVault executes configured funding handler.
func (s VaultFacadeStub) FundVault(ctx context.Context, funder string, amount uint64) (*model.VaultBalance, error) {
	if s.FundFn != nil {
		return s.FundFn(ctx, funder, amount)
	}
	return &model.VaultBalance{Balance: amount}, nil
}

// SettlementCall stores information about payout settlement invocations.
type SettlementCall struct {
	PayoutID int64
}

// SettlerFacadeStub mimics worker interactions with the rewards facade.
type SettlerFacadeStub struct {
	Batches    [][]model.Payout
	PayoutsFn  func(context.Context, int) ([]model.Payout, error)
	TransferFn func(context.Context, model.Payout) error
	MarkFn     func(context.Context, int64) error
	ReleaseFn  func(context.Context, int64) error

	Transferred []model.Payout
	Settled     []int64
	Released    []int64

	mu             sync.Mutex
	batchCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *SettlerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *SettlerFacadeStub) Unlock() { s.mu.Unlock() }

// PayoutsForSettlement returns batches from configured queue.
func (s *SettlerFacadeStub) PayoutsForSettlement(ctx context.Context, limit int) ([]model.Payout, error) {
	if s.PayoutsFn != nil {
		return s.PayoutsFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.batchCallCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// TransferPayout records transfer attempts.
func (s *SettlerFacadeStub) TransferPayout(ctx context.Context, payout model.Payout) error {
	if s.TransferFn != nil {
		return s.TransferFn(ctx, payout)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Transferred = append(s.Transferred, payout)
	return nil
}

// MarkPayoutSettled records settlement completions.
func (s *SettlerFacadeStub) MarkPayoutSettled(ctx context.Context, payoutID int64) error {
	if s.MarkFn != nil {
		return s.MarkFn(ctx, payoutID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Settled = append(s.Settled, payoutID)
	return nil
}

// ReleasePayout records payouts returned to the settlement queue.
func (s *SettlerFacadeStub) ReleasePayout(ctx context.Context, payoutID int64) error {
	if s.ReleaseFn != nil {
		return s.ReleaseFn(ctx, payoutID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Released = append(s.Released, payoutID)
	return nil
}

// TreasuryCall stores information about external transfer invocations.
type TreasuryCall struct {
	Account   string
	Amount    uint64
	Reference string
}

// TreasuryProviderStub simulates the external treasury service.
type TreasuryProviderStub struct {
	PayoutFn  func(context.Context, string, uint64, string) error
	CollectFn func(context.Context, string, uint64, string) error

	Payouts  []TreasuryCall
	Collects []TreasuryCall
}

// Payout records outbound transfer requests.
func (s *TreasuryProviderStub) Payout(ctx context.Context, recipient string, amount uint64, reference string) error {
	if s.PayoutFn != nil {
		return s.PayoutFn(ctx, recipient, amount, reference)
	}
	s.Payouts = append(s.Payouts, TreasuryCall{Account: recipient, Amount: amount, Reference: reference})
	return nil
}

// Collect records inbound transfer requests.
func (s *TreasuryProviderStub) Collect(ctx context.Context, funder string, amount uint64, reference string) error {
	if s.CollectFn != nil {
		return s.CollectFn(ctx, funder, amount, reference)
	}
	s.Collects = append(s.Collects, TreasuryCall{Account: funder, Amount: amount, Reference: reference})
	return nil
}
