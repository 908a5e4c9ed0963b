package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seller-wallet-service/config"
	"seller-wallet-service/internal/adapter/gateway"
	httpHandler "seller-wallet-service/internal/adapter/http/handler"
	pgStorage "seller-wallet-service/internal/adapter/storage/postgres"
	redisStorage "seller-wallet-service/internal/adapter/storage/redis"
	"seller-wallet-service/internal/core/ports"
	"seller-wallet-service/internal/service"
	"seller-wallet-service/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Seller Wallet Service")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	walletRepo := pgStorage.NewWalletRepo(pool)
	feeRepo := pgStorage.NewFeeAccountRepo(pool)
	accrualRepo := pgStorage.NewAccrualRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	resRepo := pgStorage.NewReservationRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)
	saleQueue, err := redisStorage.NewSaleQueue(ctx, rdb, cfg.Queue)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize sale queue")
	}

	// Initialize gateway client
	payoutGateway := gateway.NewPayoutClient(cfg.Gateway, &http.Client{Timeout: cfg.Gateway.SubmitTimeout}, log)

	// Initialize core services
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	ledgerSvc := service.NewLedgerService(walletRepo, feeRepo, accrualRepo, txRepo, resRepo, transactor, log)
	settlementSvc := service.NewSettlementService(ledgerSvc, cfg.Settlement.HoldDuration, log)
	withdrawalSvc := service.NewWithdrawalService(ledgerSvc, walletRepo, txRepo, resRepo, payoutGateway, idempotencyCache, log)
	reportingSvc := service.NewReportingService(walletRepo, txRepo, log)

	// Background workers
	sweeper := service.NewMaturationSweeper(ledgerSvc, accrualRepo, cfg.Settlement, logger.WithComponent(log, "maturation_sweeper"))
	consumer := service.NewSettlementConsumer(saleQueue, settlementSvc, logger.WithComponent(log, "settlement_consumer"))
	reconciler := service.NewReconciliationJob(txRepo, payoutGateway, withdrawalSvc, cfg.Gateway, logger.WithComponent(log, "reconciliation_job"))

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	go sweeper.Start(workerCtx)
	go consumer.Start(workerCtx)
	go reconciler.Start(workerCtx)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		ReportingSvc:   reportingSvc,
		WithdrawalSvc:  withdrawalSvc,
		WalletRepo:     walletRepo,
		SaleQueue:      saleQueue,
		TokenSvc:       tokenSvc,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	cancelWorkers()
	sweeper.Stop()
	consumer.Stop()
	reconciler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
