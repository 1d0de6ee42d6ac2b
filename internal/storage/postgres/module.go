package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/solstream/rewards/internal/config"
	"github.com/solstream/rewards/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.PrincipalRepository { return s.Principals() },
		func(s *Storage) repository.GlobalRepository { return s.Globals() },
		func(s *Storage) repository.LedgerRepository { return s.Ledgers() },
		func(s *Storage) repository.VaultRepository { return s.Vault() },
		func(s *Storage) repository.ActivityRepository { return s.Activities() },
		func(s *Storage) repository.PayoutRepository { return s.Payouts() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
