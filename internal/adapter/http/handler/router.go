package handler

import (
	"seller-wallet-service/internal/adapter/http/middleware"
	"seller-wallet-service/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	ReportingSvc   ports.ReportingService
	WithdrawalSvc  ports.WithdrawalService
	WalletRepo     ports.WalletRepository
	SaleQueue      ports.SaleQueue
	TokenSvc       ports.TokenService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// --- Seller-facing routes (JWT-authenticated) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	walletHandler := NewWalletHandler(deps.ReportingSvc, deps.WalletRepo)
	withdrawalHandler := NewWithdrawalHandler(deps.WithdrawalSvc)

	v1 := r.Group("/api/v1")

	wallet := v1.Group("/wallet", jwtAuth)
	{
		wallet.GET("/balance", walletHandler.GetBalance)
		wallet.PUT("/payout-account", walletHandler.SetPayoutAccount)
		wallet.GET("/transactions", walletHandler.ListTransactions)
		wallet.GET("/balance-history", walletHandler.GetBalanceHistory)
	}

	withdrawals := v1.Group("/withdrawals", jwtAuth)
	{
		withdrawals.POST("", withdrawalHandler.RequestWithdrawal)
	}

	// --- Internal routes (checkout subsystem, payout gateway) ---
	// No seller auth here; exposure is restricted at the network layer.
	intakeHandler := NewIntakeHandler(deps.SaleQueue, deps.WithdrawalSvc)
	internal := r.Group("/internal/v1")
	{
		internal.POST("/sales", intakeHandler.PostSale)
		internal.POST("/payouts/callback", intakeHandler.PayoutCallback)
	}

	return r
}
