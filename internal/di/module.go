package di

import (
	"github.com/solstream/rewards/internal/adapter/treasury"
	"github.com/solstream/rewards/internal/app"
	"github.com/solstream/rewards/internal/config"
	"github.com/solstream/rewards/internal/logger"
	"github.com/solstream/rewards/internal/pkg/auth"
	"github.com/solstream/rewards/internal/server/http/handlers"
	"github.com/solstream/rewards/internal/server/http/router"
	"github.com/solstream/rewards/internal/storage/postgres"
	"github.com/solstream/rewards/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		treasury.Module,
		usecase.Module,
		fx.Provide(func(client treasury.Client) app.TreasuryProvider { return client }),
		fx.Provide(func(facade *app.RewardsFacade) handlers.RewardsFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
