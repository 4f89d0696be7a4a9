package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carelink/clinic-service/internal/audit"
	"github.com/carelink/clinic-service/internal/config"
	"github.com/carelink/clinic-service/internal/domain"
	"github.com/carelink/clinic-service/internal/infrastructure/postgres"
	"github.com/carelink/clinic-service/internal/infrastructure/redis"
	"github.com/carelink/clinic-service/internal/pkg/logger"
	"github.com/carelink/clinic-service/internal/pkg/metrics"
	"github.com/carelink/clinic-service/internal/repository"
	"github.com/carelink/clinic-service/internal/security"
	"github.com/carelink/clinic-service/internal/service"
	"github.com/carelink/clinic-service/internal/transport/rest"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	if cfg.LogLevel != "" {
		_ = os.Setenv("LOG_LEVEL", cfg.LogLevel)
	}

	logger.Init()
	log := logger.Logger.With().
		Str("service", "clinic-service").
		Str("env", cfg.AppEnv).
		Logger()

	// Root ctx with signal cancellation
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Postgres ----
	dbPool, err := pgxpool.New(rootCtx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres pool create failed")
	}
	defer dbPool.Close()

	{
		pingCtx, cancel := context.WithTimeout(rootCtx, 5*time.Second)
		defer cancel()

		if err := dbPool.Ping(pingCtx); err != nil {
			log.Fatal().Err(err).Msg("postgres ping failed")
		}
		log.Info().Msg("postgres connected")
	}

	repo := postgres.New(dbPool, cfg.DBMaxConcurrency)

	{
		migCtx, cancel := context.WithTimeout(rootCtx, 30*time.Second)
		defer cancel()

		if err := repo.Migrate(migCtx); err != nil {
			log.Fatal().Err(err).Msg("schema migration failed")
		}
		log.Info().Msg("schema ready")
	}

	// ---- Redis ----
	cache := redis.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	{
		pingCtx, cancel := context.WithTimeout(rootCtx, 2*time.Second)
		defer cancel()

		// Best-effort ping; the rate limiter fails open without redis
		if err := cache.Client.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed (continuing)")
		} else {
			log.Info().Msg("redis connected")
		}
	}

	// ---- Observability ----
	m := metrics.New()
	auditLog := audit.New(log)

	// ---- Token signing ----
	tokens := security.NewTokenConfig(cfg.JWTSecret, cfg.TokenTTL)

	// ---- Application services ----
	policy := domain.CapacityUnbounded
	if cfg.CapacityEnforceLimit {
		policy = domain.CapacityBounded
	}

	identity := service.NewIdentityService(repo, tokens, auditLog)
	directory := service.NewDirectoryService(repo, policy, auditLog)
	registry := service.NewInstitutionService(repo, auditLog)

	h := rest.NewHandler(
		repository.NewAuthRepository(identity, m),
		repository.NewProviderRepository(directory, m),
		repository.NewInstitutionRepository(registry),
	)

	// ---- Router ----
	httpHandler := rest.NewRouter(rest.RouterDeps{
		Cache:            cache,
		Handler:          h,
		Verifier:         tokens,
		JWTIssuer:        security.TokenIssuer,
		Metrics:          m,
		RateLimitEnabled: cfg.RLEnabled,
		RateLimit:        cfg.RLLimit,
		RateLimitWindow:  cfg.RLWindow,
	})

	// ---- Outbox worker (outbound integration events) ----
	if cfg.OutboxEnabled {
		repo.StartOutboxWorker(rootCtx, cfg.RabbitURL, cfg.RabbitExchange)
		log.Info().Msg("outbox worker started")
	}

	// ---- HTTP server ----
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server crashed")
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info().Msg("shutdown complete")
}
