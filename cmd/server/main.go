package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "numledger/internal/adapter/http"
	"numledger/internal/adapter/http/handler"
	postgresRepo "numledger/internal/adapter/repository/postgres"
	redisRepo "numledger/internal/adapter/repository/redis"
	"numledger/internal/infrastructure/config"
	"numledger/internal/infrastructure/logger"
	"numledger/internal/infrastructure/metrics"
	"numledger/internal/infrastructure/postgres"
	"numledger/internal/infrastructure/redis"
	"numledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

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

	m := metrics.New()

	// Repositories and engine registry
	entryCache := redisRepo.NewCache(redisClient)
	repo := postgresRepo.NewLedgerRepository(pool, entryCache, cfg.EntryCacheTTL, m, log.Logger)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	registry := usecase.NewRegistry(repo, idGen, cfg.AdminUsers, log.Logger)

	// Handlers
	entryHandler := handler.NewEntryHandler(registry, m)
	summaryHandler := handler.NewSummaryHandler(registry)
	filterHandler := handler.NewFilterHandler(registry, m)
	historyHandler := handler.NewHistoryHandler(registry, m)
	balanceHandler := handler.NewBalanceHandler(registry)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		EntryHandler:     entryHandler,
		SummaryHandler:   summaryHandler,
		FilterHandler:    filterHandler,
		HistoryHandler:   historyHandler,
		BalanceHandler:   balanceHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Metrics:          m,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	log.Info().Msg("server stopped")
}
