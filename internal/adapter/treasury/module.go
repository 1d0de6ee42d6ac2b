package treasury

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/solstream/rewards/internal/config"
)

// Module exposes treasury client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.TreasuryAddress, p.Logger)
}
