package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/solstream/rewards/internal/server/http/handlers"
	"github.com/solstream/rewards/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.RewardsFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	stateHandler := handlers.NewStateHandler(facade)
	ledgerHandler := handlers.NewLedgerHandler(facade)
	vaultHandler := handlers.NewVaultHandler(facade)

	api := engine.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/state", stateHandler.Show)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.POST("/state", stateHandler.Init)
	authed.PUT("/state/rate", stateHandler.UpdateRate)
	authed.POST("/ledger", ledgerHandler.Create)
	authed.GET("/ledger", ledgerHandler.Show)
	authed.POST("/ledgers/:identity/activities", ledgerHandler.RecordActivity)
	authed.POST("/ledger/redeem", ledgerHandler.Redeem)
	authed.GET("/ledger/activities", ledgerHandler.Activities)
	authed.GET("/ledger/payouts", ledgerHandler.Payouts)
	authed.POST("/vault/deposits", vaultHandler.Deposit)
	authed.GET("/vault", vaultHandler.Balance)

	return engine
}
