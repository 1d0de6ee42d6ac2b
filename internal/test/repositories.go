package test

import (
	"context"

	domainErrors "github.com/solstream/rewards/internal/domain/errors"
	"github.com/solstream/rewards/internal/domain/model"
)

// PrincipalRepositoryStub stores principals in-memory for tests.
type PrincipalRepositoryStub struct {
	Principals map[string]*model.Principal
	ByID       map[int64]*model.Principal
	Next       int64
	Err        error
}

// NewPrincipalRepositoryStub constructs stub repository with initialized maps.
func NewPrincipalRepositoryStub() *PrincipalRepositoryStub {
	return &PrincipalRepositoryStub{
		Principals: make(map[string]*model.Principal),
		ByID:       make(map[int64]*model.Principal),
		Next:       1,
	}
}

// Create registers principal unless already exists or stub has explicit error.
func (s *PrincipalRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.Principal, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Principals == nil {
		s.Principals = make(map[string]*model.Principal)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.Principal)
	}
	if _, exists := s.Principals[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	principal := &model.Principal{ID: s.Next, Login: login, PasswordHash: passwordHash}
	s.Next++
	s.Principals[login] = principal
	s.ByID[principal.ID] = principal
	return principal, nil
}

// GetByLogin fetches principal by login or returns not found.
func (s *PrincipalRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.Principal, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if principal, ok := s.Principals[login]; ok {
		return principal, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches principal by identifier or returns not found.
func (s *PrincipalRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Principal, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if principal, ok := s.ByID[id]; ok {
		return principal, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GlobalRepositoryStub lets tests control the singleton configuration.
type GlobalRepositoryStub struct {
	InitFn       func(context.Context, string, uint64) (*model.GlobalConfig, error)
	GetFn        func(context.Context) (*model.GlobalConfig, error)
	UpdateRateFn func(context.Context, uint64) error

	State       *model.GlobalConfig
	RateUpdates []uint64
}

// Init creates the configuration once; repeated calls conflict.
func (s *GlobalRepositoryStub) Init(ctx context.Context, adminIdentity string, conversionRate uint64) (*model.GlobalConfig, error) {
	if s.InitFn != nil {
		return s.InitFn(ctx, adminIdentity, conversionRate)
	}
	if s.State != nil {
		return nil, domainErrors.ErrAlreadyExists
	}
	s.State = &model.GlobalConfig{AdminIdentity: adminIdentity, ConversionRate: conversionRate}
	return s.State, nil
}

// Get returns configured state or not found.
func (s *GlobalRepositoryStub) Get(ctx context.Context) (*model.GlobalConfig, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx)
	}
	if s.State == nil {
		return nil, domainErrors.ErrNotFound
	}
	return s.State, nil
}

// UpdateRate records rate changes.
func (s *GlobalRepositoryStub) UpdateRate(ctx context.Context, conversionRate uint64) error {
	if s.UpdateRateFn != nil {
		return s.UpdateRateFn(ctx, conversionRate)
	}
	if s.State == nil {
		return domainErrors.ErrNotFound
	}
	s.State.ConversionRate = conversionRate
	s.RateUpdates = append(s.RateUpdates, conversionRate)
	return nil
}

// LedgerRepositoryStub allows tests to customize ledger behaviour.
type LedgerRepositoryStub struct {
	CreateFn func(context.Context, string, model.AccountClass) (*model.UserLedger, error)
	GetFn    func(context.Context, string) (*model.UserLedger, error)
	AccrueFn func(context.Context, string, uint64, model.ActivityType) (*model.UserLedger, error)
	RedeemFn func(context.Context, string) (*model.Payout, error)

	Ledgers  map[string]*model.UserLedger
	Accruals []AccrualCall
}

// AccrualCall stores information about Accrue invocations.
type AccrualCall struct {
	Identity string
	Points   uint64
	Activity model.ActivityType
}

// Create registers a ledger unless one already exists.
func (s *LedgerRepositoryStub) Create(ctx context.Context, identity string, class model.AccountClass) (*model.UserLedger, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, identity, class)
	}
	if s.Ledgers == nil {
		s.Ledgers = make(map[string]*model.UserLedger)
	}
	if _, exists := s.Ledgers[identity]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	ledger := &model.UserLedger{Identity: identity, AccountClass: class}
	s.Ledgers[identity] = ledger
	return ledger, nil
}

// GetByIdentity returns stored ledger or not found.
func (s *LedgerRepositoryStub) GetByIdentity(ctx context.Context, identity string) (*model.UserLedger, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, identity)
	}
	if ledger, ok := s.Ledgers[identity]; ok {
		return ledger, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Accrue tracks invocations and applies points to the stored ledger.
func (s *LedgerRepositoryStub) Accrue(ctx context.Context, identity string, points uint64, activity model.ActivityType) (*model.UserLedger, error) {
	s.Accruals = append(s.Accruals, AccrualCall{Identity: identity, Points: points, Activity: activity})
	if s.AccrueFn != nil {
		return s.AccrueFn(ctx, identity, points, activity)
	}
	ledger, ok := s.Ledgers[identity]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	ledger.Points += points
	ledger.TotalEarned += points
	return ledger, nil
}

// Redeem drains the stored ledger into a payout.
func (s *LedgerRepositoryStub) Redeem(ctx context.Context, identity string) (*model.Payout, error) {
	if s.RedeemFn != nil {
		return s.RedeemFn(ctx, identity)
	}
	ledger, ok := s.Ledgers[identity]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if ledger.Points < model.MinRedeemPoints {
		return nil, domainErrors.ErrInsufficientBalance
	}
	payout := &model.Payout{Identity: identity, Points: ledger.Points, Status: model.PayoutStatusPending}
	ledger.TotalRedeemed += ledger.Points
	ledger.Points = 0
	return payout, nil
}

// VaultRepositoryStub lets tests control the payout pool.
type VaultRepositoryStub struct {
	BalanceFn func(context.Context) (*model.VaultBalance, error)
	DepositFn func(context.Context, string, uint64) (*model.VaultBalance, error)

	Pool     model.VaultBalance
	Deposits []DepositCall
}

// DepositCall stores information about Deposit invocations.
type DepositCall struct {
	Funder string
	Amount uint64
}

// Balance returns the configured pool balance.
func (s *VaultRepositoryStub) Balance(ctx context.Context) (*model.VaultBalance, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx)
	}
	pool := s.Pool
	return &pool, nil
}

// Deposit records the funding and credits the pool.
func (s *VaultRepositoryStub) Deposit(ctx context.Context, funder string, amount uint64) (*model.VaultBalance, error) {
	s.Deposits = append(s.Deposits, DepositCall{Funder: funder, Amount: amount})
	if s.DepositFn != nil {
		return s.DepositFn(ctx, funder, amount)
	}
	s.Pool.Balance += amount
	pool := s.Pool
	return &pool, nil
}

// ActivityRepositoryStub stores accrual history for tests.
type ActivityRepositoryStub struct {
	ListFn func(context.Context, string) ([]model.Activity, error)
	Items  []model.Activity
}

// ListByIdentity returns configured activities.
func (s *ActivityRepositoryStub) ListByIdentity(ctx context.Context, identity string) ([]model.Activity, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, identity)
	}
	return s.Items, nil
}

// PayoutRepositoryStub stores payouts and their settlement queue for tests.
type PayoutRepositoryStub struct {
	ListFn    func(context.Context, string) ([]model.Payout, error)
	SelectFn  func(context.Context, int) ([]model.Payout, error)
	MarkFn    func(context.Context, int64) error
	ReleaseFn func(context.Context, int64) error

	Items    []model.Payout
	Queue    []model.Payout
	Settled  []int64
	Released []int64
}

// ListByIdentity returns configured payout history.
func (s *PayoutRepositoryStub) ListByIdentity(ctx context.Context, identity string) ([]model.Payout, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, identity)
	}
	return s.Items, nil
}

// SelectBatchForSettlement returns queued payouts.
func (s *PayoutRepositoryStub) SelectBatchForSettlement(ctx context.Context, limit int) ([]model.Payout, error) {
	if s.SelectFn != nil {
		return s.SelectFn(ctx, limit)
	}
	if limit > len(s.Queue) {
		limit = len(s.Queue)
	}
	batch := s.Queue[:limit]
	s.Queue = s.Queue[limit:]
	return batch, nil
}

// MarkSettled records settlement completions.
func (s *PayoutRepositoryStub) MarkSettled(ctx context.Context, payoutID int64) error {
	if s.MarkFn != nil {
		return s.MarkFn(ctx, payoutID)
	}
	s.Settled = append(s.Settled, payoutID)
	return nil
}

// Release records payouts returned to the queue.
func (s *PayoutRepositoryStub) Release(ctx context.Context, payoutID int64) error {
	if s.ReleaseFn != nil {
		return s.ReleaseFn(ctx, payoutID)
	}
	s.Released = append(s.Released, payoutID)
	return nil
}
