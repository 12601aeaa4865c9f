package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/treasury/internal/adapter/http"
	"github.com/iho/treasury/internal/adapter/http/handler"
	"github.com/iho/treasury/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/treasury/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/treasury/internal/adapter/repository/redis"
	"github.com/iho/treasury/internal/infrastructure/auth"
	"github.com/iho/treasury/internal/infrastructure/config"
	"github.com/iho/treasury/internal/infrastructure/eventpublisher"
	"github.com/iho/treasury/internal/infrastructure/logger"
	"github.com/iho/treasury/internal/infrastructure/metrics"
	"github.com/iho/treasury/internal/infrastructure/postgres"
	"github.com/iho/treasury/internal/infrastructure/redis"
	"github.com/iho/treasury/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger
	zerolog.DefaultContextLogger = &appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		appLogger.Info().Msg("migrations applied")
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	m := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(appLogger, m)
	idGen := postgresRepo.NewULIDGenerator()
	accountRepo := postgresRepo.NewAccountRepository(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	batchRepo := postgresRepo.NewContributionRepository(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	budgetRepo := postgresRepo.NewBudgetRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)

	var outboxRepo usecase.OutboxRepository = postgresRepo.NewOutboxRepository(pool)
	if cfg.EventPublisher == config.PublisherNone {
		outboxRepo = postgresRepo.NewNullOutboxRepository()
	}

	// Use cases
	defaults := cfg.PostingDefaults()
	guard := usecase.NewIdempotencyGuard(postgresRepo.NewIdempotencyRepository(pool), cfg.IdempotencyRetention, m)

	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, expenseRepo, defaults, outboxRepo, auditRepo, idGen, m)
	balanceUC := usecase.NewBalanceUseCase(txManager, retrier, accountRepo, journalRepo, outboxRepo, auditRepo, idGen, m)
	journalUC := usecase.NewJournalUseCase(txManager, retrier, accountRepo, journalRepo, guard, outboxRepo, auditRepo, idGen, m)
	contributionUC := usecase.NewContributionUseCase(txManager, retrier, batchRepo, journalUC, guard, defaults, outboxRepo, auditRepo, idGen, m)
	expenseUC := usecase.NewExpenseUseCase(txManager, retrier, accountRepo, expenseRepo, journalUC, guard, defaults, outboxRepo, auditRepo, idGen, m)
	budgetUC := usecase.NewBudgetUseCase(txManager, accountRepo, budgetRepo, journalRepo, redisRepo.NewCache(redisClient, m), outboxRepo, auditRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(postgresRepo.NewLedgerRepository(pool))

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:      handler.NewAccountHandler(accountUC, balanceUC),
		JournalHandler:      handler.NewJournalHandler(journalUC),
		ContributionHandler: handler.NewContributionHandler(contributionUC),
		ExpenseHandler:      handler.NewExpenseHandler(expenseUC),
		BudgetHandler:       handler.NewBudgetHandler(budgetUC),
		LedgerHandler:       handler.NewLedgerHandler(ledgerUC, balanceUC),
		HealthHandler: handler.NewHealthHandler(map[string]handler.Pinger{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return redis.Ping(ctx, redisClient) },
		}),
		Logger:           appLogger,
		Metrics:          m,
		RateLimiter:      rateLimiter,
		IdempotencyStore: redisRepo.NewIdempotencyStore(redisClient, m),
		IdempotencyTTL:   cfg.IdempotencyRetention,
		RequestTimeout:   cfg.RequestTimeout,
	}
	if cfg.AuthEnabled {
		routerCfg.JWTManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		appLogger.Info().Msg("authentication enabled")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Everything that can fail is built before any goroutine starts.
	sink, closeSink, err := newSink(cfg, appLogger, redisClient)
	if err != nil {
		return err
	}
	defer closeSink()

	workers := []func(context.Context) error{
		func(ctx context.Context) error {
			return runIdempotencyPurger(ctx, guard, cfg.IdempotencyPurgeInterval, appLogger)
		},
		func(ctx context.Context) error {
			return runLimiterCleanup(ctx, rateLimiter, time.Hour)
		},
	}
	if sink != nil {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  sink,
			Logger:     appLogger,
			Metrics:    m,
			BatchSize:  cfg.EventBatchSize,
			Interval:   cfg.EventInterval,
			Retention:  cfg.EventRetention,
		})
		workers = append(workers, publisher.Start)
	}

	return serve(ctx, server, cfg.HTTPShutdownTimeout, appLogger, workers...)
}

// serve runs the HTTP server and workers until ctx is done or one of them
// fails, then shuts the server down.
func serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, logger zerolog.Logger, workers ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	for _, work := range workers {
		g.Go(func() error { return ignoreCanceled(work(gctx)) })
	}

	return g.Wait()
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
