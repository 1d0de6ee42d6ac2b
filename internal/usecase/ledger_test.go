package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domainErrors "github.com/solstream/rewards/internal/domain/errors"
	"github.com/solstream/rewards/internal/domain/model"
	testhelpers "github.com/solstream/rewards/internal/test"
)

func newLedgerUseCase() (*LedgerUseCase, *testhelpers.GlobalRepositoryStub, *testhelpers.LedgerRepositoryStub, *testhelpers.PayoutRepositoryStub) {
	globals := &testhelpers.GlobalRepositoryStub{}
	ledgers := &testhelpers.LedgerRepositoryStub{Ledgers: make(map[string]*model.UserLedger)}
	activities := &testhelpers.ActivityRepositoryStub{}
	payouts := &testhelpers.PayoutRepositoryStub{}
	return NewLedgerUseCase(globals, ledgers, activities, payouts), globals, ledgers, payouts
}

func TestLedgerUseCaseInitializeGlobal(t *testing.T) {
	uc, globals, _, _ := newLedgerUseCase()
	ctx := context.Background()

	state, err := uc.InitializeGlobal(ctx, "admin", 100)
	if err != nil {
		t.Fatalf("initialize returned error: %v", err)
	}
	if state.AdminIdentity != "admin" {
		t.Fatalf("expected caller to become admin, got %q", state.AdminIdentity)
	}
	if globals.State == nil {
		t.Fatal("expected state stored")
	}

	if _, err := uc.InitializeGlobal(ctx, "intruder", 200); err != domainErrors.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists on second init, got %v", err)
	}
	if globals.State.AdminIdentity != "admin" {
		t.Fatalf("second init must not replace admin, got %q", globals.State.AdminIdentity)
	}
}

func TestLedgerUseCaseInitializeGlobalZeroRate(t *testing.T) {
	uc, _, _, _ := newLedgerUseCase()
	if _, err := uc.InitializeGlobal(context.Background(), "admin", 0); err != domainErrors.ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for zero rate, got %v", err)
	}
}

func TestLedgerUseCaseGlobalStateUninitialized(t *testing.T) {
	uc, _, _, _ := newLedgerUseCase()
	if _, err := uc.GlobalState(context.Background()); err != domainErrors.ErrNotFound {
		t.Fatalf("expected ErrNotFound before init, got %v", err)
	}
}

func TestLedgerUseCaseCreateLedger(t *testing.T) {
	uc, _, ledgers, _ := newLedgerUseCase()
	ctx := context.Background()

	ledger, err := uc.CreateLedger(ctx, "alice", model.AccountClassFan)
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if ledger.Identity != "alice" || ledger.AccountClass != model.AccountClassFan {
		t.Fatalf("unexpected ledger: %+v", ledger)
	}
	if _, ok := ledgers.Ledgers["alice"]; !ok {
		t.Fatal("ledger not stored")
	}

	if _, err := uc.CreateLedger(ctx, "alice", model.AccountClassArtist); err != domainErrors.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists for duplicate ledger, got %v", err)
	}
}

func TestLedgerUseCaseCreateLedgerInvalidClass(t *testing.T) {
	uc, _, _, _ := newLedgerUseCase()
	if _, err := uc.CreateLedger(context.Background(), "alice", model.AccountClass("moderator")); err != domainErrors.ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for unknown class, got %v", err)
	}
}

func TestLedgerUseCaseRecordActivity(t *testing.T) {
	uc, _, ledgers, _ := newLedgerUseCase()
	ctx := context.Background()

	if _, err := uc.InitializeGlobal(ctx, "admin", 100); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if _, err := uc.CreateLedger(ctx, "alice", model.AccountClassFan); err != nil {
		t.Fatalf("create ledger failed: %v", err)
	}

	ledger, err := uc.RecordActivity(ctx, "admin", "alice", 50, model.ActivityTypeStream)
	if err != nil {
		t.Fatalf("record activity returned error: %v", err)
	}
	if ledger.Points != 50 || ledger.TotalEarned != 50 {
		t.Fatalf("unexpected ledger counters: %+v", ledger)
	}
	if len(ledgers.Accruals) != 1 || ledgers.Accruals[0].Activity != model.ActivityTypeStream {
		t.Fatalf("accrual call not recorded: %+v", ledgers.Accruals)
	}
}

func TestLedgerUseCaseRecordActivityNotAdmin(t *testing.T) {
	uc, _, ledgers, _ := newLedgerUseCase()
	ctx := context.Background()

	if _, err := uc.InitializeGlobal(ctx, "admin", 100); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	if _, err := uc.RecordActivity(ctx, "mallory", "alice", 50, model.ActivityTypeLike); err != domainErrors.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(ledgers.Accruals) != 0 {
		t.Fatal("accrual must not reach repository for unauthorized caller")
	}
}

func TestLedgerUseCaseRecordActivityValidation(t *testing.T) {
	uc, _, _, _ := newLedgerUseCase()
	ctx := context.Background()

	if _, err := uc.RecordActivity(ctx, "admin", "alice", 0, model.ActivityTypeStream); err != domainErrors.ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for zero points, got %v", err)
	}
	if _, err := uc.RecordActivity(ctx, "admin", "alice", 10, model.ActivityType("skydiving")); err != domainErrors.ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for unknown activity, got %v", err)
	}
}

func TestLedgerUseCaseRecordActivityUninitialized(t *testing.T) {
	uc, _, _, _ := newLedgerUseCase()
	if _, err := uc.RecordActivity(context.Background(), "admin", "alice", 10, model.ActivityTypeUpload); err != domainErrors.ErrNotFound {
		t.Fatalf("expected ErrNotFound before init, got %v", err)
	}
}

func TestLedgerUseCaseRecordActivityOverflow(t *testing.T) {
	uc, _, ledgers, _ := newLedgerUseCase()
	ctx := context.Background()

	if _, err := uc.InitializeGlobal(ctx, "admin", 100); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	ledgers.AccrueFn = func(context.Context, string, uint64, model.ActivityType) (*model.UserLedger, error) {
		return nil, domainErrors.ErrOverflow
	}

	if _, err := uc.RecordActivity(ctx, "admin", "alice", 10, model.ActivityTypeShare); !errors.Is(err, domainErrors.ErrOverflow) {
		t.Fatalf("expected ErrOverflow passthrough, got %v", err)
	}
}

func TestLedgerUseCaseRedeem(t *testing.T) {
	uc, _, ledgers, _ := newLedgerUseCase()
	ctx := context.Background()

	ledgers.Ledgers["alice"] = &model.UserLedger{Identity: "alice", Points: 2000}
	payout, err := uc.Redeem(ctx, "alice")
	if err != nil {
		t.Fatalf("redeem returned error: %v", err)
	}
	if payout.Points != 2000 {
		t.Fatalf("expected full drain, got %d", payout.Points)
	}
	if ledgers.Ledgers["alice"].Points != 0 {
		t.Fatalf("ledger must be drained, got %d", ledgers.Ledgers["alice"].Points)
	}
}

func TestLedgerUseCaseRedeemBelowThreshold(t *testing.T) {
	uc, _, ledgers, _ := newLedgerUseCase()
	ledgers.Ledgers["alice"] = &model.UserLedger{Identity: "alice", Points: 999}
	if _, err := uc.Redeem(context.Background(), "alice"); err != domainErrors.ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance below threshold, got %v", err)
	}
}

func TestLedgerUseCaseUpdateConversionRate(t *testing.T) {
	uc, globals, _, _ := newLedgerUseCase()
	ctx := context.Background()

	if _, err := uc.InitializeGlobal(ctx, "admin", 100); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	if err := uc.UpdateConversionRate(ctx, "admin", 250); err != nil {
		t.Fatalf("update rate returned error: %v", err)
	}
	if globals.State.ConversionRate != 250 {
		t.Fatalf("rate not updated: %d", globals.State.ConversionRate)
	}

	if err := uc.UpdateConversionRate(ctx, "mallory", 300); err != domainErrors.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := uc.UpdateConversionRate(ctx, "admin", 0); err != domainErrors.ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for zero rate, got %v", err)
	}
}

func TestLedgerUseCaseHistories(t *testing.T) {
	globals := &testhelpers.GlobalRepositoryStub{}
	ledgers := &testhelpers.LedgerRepositoryStub{}
	activities := &testhelpers.ActivityRepositoryStub{Items: []model.Activity{{Identity: "alice", Type: model.ActivityTypeStream, Points: 10}}}
	payouts := &testhelpers.PayoutRepositoryStub{Items: []model.Payout{{ID: 1, Identity: "alice", Points: 1000, Amount: 10}}}
	uc := NewLedgerUseCase(globals, ledgers, activities, payouts)

	ctx := context.Background()
	history, err := uc.ActivityHistory(ctx, "alice")
	if err != nil || len(history) != 1 {
		t.Fatalf("unexpected activity history: %v, %v", history, err)
	}
	settlements, err := uc.PayoutHistory(ctx, "alice")
	if err != nil || len(settlements) != 1 {
		t.Fatalf("unexpected payout history: %v, %v", settlements, err)
	}
}

func TestLedgerUseCaseSettlementQueue(t *testing.T) {
	globals := &testhelpers.GlobalRepositoryStub{}
	ledgers := &testhelpers.LedgerRepositoryStub{}
	activities := &testhelpers.ActivityRepositoryStub{}
	payouts := &testhelpers.PayoutRepositoryStub{Queue: []model.Payout{{ID: 7}, {ID: 8}}}
	uc := NewLedgerUseCase(globals, ledgers, activities, payouts)

	ctx := context.Background()
	batch, err := uc.PayoutsForSettlement(ctx, 1)
	if err != nil {
		t.Fatalf("select batch returned error: %v", err)
	}
	if len(batch) != 1 || batch[0].ID != 7 {
		t.Fatalf("unexpected batch: %+v", batch)
	}

	if err := uc.MarkPayoutSettled(ctx, 7); err != nil {
		t.Fatalf("mark settled returned error: %v", err)
	}
	if err := uc.ReleasePayout(ctx, 8); err != nil {
		t.Fatalf("release returned error: %v", err)
	}
	if len(payouts.Settled) != 1 || payouts.Settled[0] != 7 {
		t.Fatalf("settlement not recorded: %+v", payouts.Settled)
	}
	if len(payouts.Released) != 1 || payouts.Released[0] != 8 {
		t.Fatalf("release not recorded: %+v", payouts.Released)
	}
}

func TestLedgerUseCaseErrorPropagation(t *testing.T) {
	globals := &testhelpers.GlobalRepositoryStub{GetFn: func(context.Context) (*model.GlobalConfig, error) {
		return nil, fmt.Errorf("storage down")
	}}
	uc := NewLedgerUseCase(globals, &testhelpers.LedgerRepositoryStub{}, &testhelpers.ActivityRepositoryStub{}, &testhelpers.PayoutRepositoryStub{})

	if _, err := uc.RecordActivity(context.Background(), "admin", "alice", 1, model.ActivityTypeLike); err == nil {
		t.Fatal("expected storage error")
	}
	if err := uc.UpdateConversionRate(context.Background(), "admin", 10); err == nil {
		t.Fatal("expected storage error")
	}
}
