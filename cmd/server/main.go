package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/rentledger/internal/adapter/http"
	"github.com/iho/rentledger/internal/adapter/http/handler"
	"github.com/iho/rentledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/rentledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/rentledger/internal/adapter/repository/redis"
	"github.com/iho/rentledger/internal/infrastructure/config"
	"github.com/iho/rentledger/internal/infrastructure/eventpublisher"
	"github.com/iho/rentledger/internal/infrastructure/logger"
	"github.com/iho/rentledger/internal/infrastructure/metrics"
	"github.com/iho/rentledger/internal/infrastructure/postgres"
	"github.com/iho/rentledger/internal/infrastructure/redis"
	"github.com/iho/rentledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	depositRepo := postgresRepo.NewDepositRepository(pool)
	inspectionRepo := postgresRepo.NewInspectionRepository(pool)
	deductionRepo := postgresRepo.NewDeductionRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	tenancyRepo := postgresRepo.NewTenancyRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	rentCache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	directory := usecase.NewCachedTenantDirectory(tenancyRepo, rentCache)

	// Initialize use cases
	depositUC := usecase.NewDepositUseCase(txManager, depositRepo, inspectionRepo, directory, outboxRepo, auditRepo, idGen, m)
	inspectionUC := usecase.NewInspectionUseCase(txManager, depositRepo, inspectionRepo, idGen, m)
	deductionUC := usecase.NewDeductionUseCase(txManager, inspectionRepo, deductionRepo, auditRepo, idGen, m)
	disputeUC := usecase.NewDisputeUseCase(txManager, inspectionRepo, deductionRepo, outboxRepo, auditRepo, idGen, m)
	settlementUC := usecase.NewSettlementUseCase(txManager, depositRepo, inspectionRepo, deductionRepo, outboxRepo, auditRepo, idGen, retrier, m)
	reconciliationUC := usecase.NewReconciliationUseCase(ledgerRepo)

	// Initialize handlers
	depositHandler := handler.NewDepositHandler(depositUC)
	inspectionHandler := handler.NewInspectionHandler(inspectionUC)
	deductionHandler := handler.NewDeductionHandler(deductionUC, disputeUC)
	settlementHandler := handler.NewSettlementHandler(settlementUC)
	ledgerHandler := handler.NewLedgerHandler(reconciliationUC, auditRepo)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		DepositHandler:    depositHandler,
		InspectionHandler: inspectionHandler,
		DeductionHandler:  deductionHandler,
		SettlementHandler: settlementHandler,
		LedgerHandler:     ledgerHandler,
		HealthHandler:     healthHandler,
		IdempotencyStore:  idempotencyStore,
		RateLimiter:       middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		Logging:           middleware.NewLoggingMiddleware(log.Logger),
	})

	// Start outbox publisher
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLoggingPublisher(slog.Default()),
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})
	go func() {
		if err := publisher.Start(publisherCtx); err != nil && publisherCtx.Err() == nil {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
