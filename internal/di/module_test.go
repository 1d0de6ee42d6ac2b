package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/solstream/rewards/internal/adapter/treasury"
	"github.com/solstream/rewards/internal/app"
	"github.com/solstream/rewards/internal/config"
	"github.com/solstream/rewards/internal/domain/repository"
	"github.com/solstream/rewards/internal/storage/postgres"
	"github.com/solstream/rewards/internal/test"
	"go.uber.org/fx"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:      ":0",
		DatabaseURI:     "postgres://stub",
		TreasuryAddress: "http://localhost",
		TokenSecret:     "secret",
		SettleInterval:  time.Millisecond,
		WorkerPoolSize:  1,
		ShutdownTimeout: time.Millisecond,
		MaxSettleBatch:  1,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	principalRepo := test.NewPrincipalRepositoryStub()
	globalRepo := &test.GlobalRepositoryStub{}
	ledgerRepo := &test.LedgerRepositoryStub{}
	vaultRepo := &test.VaultRepositoryStub{}
	activityRepo := &test.ActivityRepositoryStub{}
	payoutRepo := &test.PayoutRepositoryStub{}
	treasuryStub := &test.TreasuryProviderStub{}

	var facade *app.RewardsFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.PrincipalRepository(principalRepo)),
			fx.Replace(repository.GlobalRepository(globalRepo)),
			fx.Replace(repository.LedgerRepository(ledgerRepo)),
			fx.Replace(repository.VaultRepository(vaultRepo)),
			fx.Replace(repository.ActivityRepository(activityRepo)),
			fx.Replace(repository.PayoutRepository(payoutRepo)),
			fx.Replace(treasury.Client(treasuryStub)),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected rewards facade instance")
	}
}
