package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/yieldledger/internal/adapter/http"
	"github.com/iho/yieldledger/internal/adapter/http/handler"
	"github.com/iho/yieldledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/yieldledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/yieldledger/internal/adapter/repository/redis"
	"github.com/iho/yieldledger/internal/domain"
	"github.com/iho/yieldledger/internal/infrastructure/auth"
	"github.com/iho/yieldledger/internal/infrastructure/config"
	"github.com/iho/yieldledger/internal/infrastructure/custody"
	"github.com/iho/yieldledger/internal/infrastructure/logger"
	"github.com/iho/yieldledger/internal/infrastructure/logging"
	"github.com/iho/yieldledger/internal/infrastructure/metrics"
	"github.com/iho/yieldledger/internal/infrastructure/postgres"
	"github.com/iho/yieldledger/internal/infrastructure/redis"
	"github.com/iho/yieldledger/internal/infrastructure/relay"
	"github.com/iho/yieldledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup loggers. zerolog serves the HTTP access log, slog the workers.
	zl := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = zl
	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	rateRepo := postgresRepo.NewRateRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	rateCache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	clock := usecase.SystemClock{}

	// Custody gateway
	var gateway usecase.CustodyGateway
	if cfg.CustodyURL != "" {
		gateway = custody.NewHTTPGateway(cfg.CustodyURL, cfg.CustodyToken)
	} else {
		log.Warn().Msg("CUSTODY_URL not set, acknowledging custody transfers locally")
		gateway = custody.NewNoopGateway(slogger.Logger)
	}

	// Bridge peers
	peers, err := cfg.Peers()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse BRIDGE_PEERS")
	}
	peerIDs, err := cfg.PeerIDs()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse BRIDGE_PEERS")
	}

	// Use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, rateRepo, entryRepo, transferRepo, outboxRepo, idGen, clock)
	rateUC := usecase.NewRateUseCase(txManager, rateRepo, outboxRepo, rateCache, idGen, clock)
	custodyUC := usecase.NewCustodyUseCase(ledgerUC, txManager, accountRepo, outboxRepo, gateway, idGen, clock)
	bridgeUC := usecase.NewBridgeUseCase(ledgerUC, txManager, accountRepo, outboxRepo, idempotencyStore, idGen, clock, peerIDs)
	entryUC := usecase.NewEntryUseCase(entryRepo)
	reconUC := usecase.NewReconciliationUseCase(accountRepo, entryRepo, ledgerRepo)
	userUC := usecase.NewUserUseCase(userRepo, idGen)

	// Establish the starting global rate on first boot
	startingRate, err := cfg.StartingRate()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse INITIAL_RATE")
	}
	seeded, err := rateUC.InitializeRate(ctx, startingRate)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize global rate")
	}
	if seeded {
		log.Info().Str("rate", startingRate.String()).Msg("seeded starting global rate")
	}

	// Authentication
	var jwtManager *auth.JWTManager
	var devUser *domain.User
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.LedgerID, cfg.JWTExpiration)
	} else {
		log.Warn().Msg("authentication disabled, requests run as the dev admin")
		devUser = &domain.User{
			ID:     "dev",
			Email:  "dev@localhost",
			Name:   "Dev Admin",
			Role:   domain.RoleAdmin,
			Active: true,
		}
	}

	// Relay worker delivers outbox packets to peer ledgers
	worker := relay.NewWorker(relay.Config{
		OutboxRepo:   outboxRepo,
		Messenger:    relay.NewHTTPMessenger(peers, cfg.RelayToken),
		Publisher:    relay.NewLogPublisher(slogger.Logger),
		Retrier:      postgresRepo.NewRetrier(),
		Logger:       slogger.Logger,
		BatchSize:    cfg.RelayBatchSize,
		Interval:     cfg.RelayInterval,
		RetainPeriod: cfg.RelayRetainPeriod,
	})

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	go func() {
		if err := worker.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Error().Err(err).Msg("relay worker stopped")
		}
	}()

	m := metrics.New()
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go rateLimiter.CleanupLimiters()

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(ledgerUC),
		TransferHandler:  handler.NewTransferHandler(ledgerUC),
		CustodyHandler:   handler.NewCustodyHandler(custodyUC),
		RateHandler:      handler.NewRateHandler(rateUC),
		BridgeHandler:    handler.NewBridgeHandler(bridgeUC),
		EntryHandler:     handler.NewEntryHandler(entryUC),
		LedgerHandler:    handler.NewLedgerHandler(reconUC),
		AuthHandler:      handler.NewAuthHandler(userUC, jwtManager),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		Metrics:          m,
		RateLimiter:      rateLimiter,
		Logging:          middleware.NewLoggingMiddleware(zl),
		JWTManager:       jwtManager,
		DevUser:          devUser,
	})

	server := &http.Server{
		Addr:         listenAddr(cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("ledger_id", cfg.LedgerID).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func listenAddr(port string) string {
	return fmt.Sprintf(":%s", port)
}
