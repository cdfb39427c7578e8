// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the HallyuLatino HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire repositories, services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hallyulatino/api/internal/api"
	"github.com/hallyulatino/api/internal/platform/cache"
	"github.com/hallyulatino/api/internal/platform/config"
	"github.com/hallyulatino/api/internal/platform/constants"
	"github.com/hallyulatino/api/internal/platform/middleware"
	"github.com/hallyulatino/api/internal/platform/migration"
	pgstore "github.com/hallyulatino/api/internal/platform/postgres"
	redisstore "github.com/hallyulatino/api/internal/platform/redis"
	"github.com/hallyulatino/api/internal/platform/sec"
	"github.com/hallyulatino/api/internal/users/account"
	"github.com/hallyulatino/api/internal/users/auth"
	"github.com/hallyulatino/api/internal/users/identity"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	logger := newLogger(slog.LevelInfo)
	logger.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ───────────────────────────────────────────────────
	cfg, err := config.Load()
	must(logger, err, "load configuration")

	if cfg.Debug {
		logger = newLogger(slog.LevelDebug)
		logger.Debug("debug_logging_enabled")
	}

	logger.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. A deadline surfaces misconfiguration quickly.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ──────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, logger)
	must(logger, err, "connect to postgres")
	defer func() {
		logger.Info("postgres_pool_closing")
		pool.Close()
	}()

	// ── 4. Redis ───────────────────────────────────────────────────────────
	redisClient, err := redisstore.NewClient(startupCtx, cfg.RedisURL, logger)
	must(logger, err, "connect to redis")
	defer func() {
		logger.Info("redis_client_closing")
		if closeErr := redisClient.Close(); closeErr != nil {
			logger.Error("redis_close_failed", slog.Any("error", closeErr))
		}
	}()

	// ── 5. Migrations ──────────────────────────────────────────────────────
	must(logger, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger), "run migrations")

	// ── 6. Security ────────────────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(sec.TokenConfig{
		SecretKey:       cfg.JWTSecretKey,
		Algorithm:       cfg.JWTAlgorithm,
		AccessTokenTTL:  cfg.AccessTokenTTL(),
		RefreshTokenTTL: cfg.RefreshTokenTTL(),
	})
	must(logger, err, "initialize token service")

	// ── 7. Domain Wiring ───────────────────────────────────────────────────
	userRepository := identity.NewUserRepository(pool)
	resetTokens := auth.NewResetTokenRepository(redisClient)
	verificationTokens := auth.NewVerificationTokenRepository(redisClient)
	notifier := auth.NewLogNotifier(logger, cfg.IsDevelopment())

	profileCache := cache.New(cache.NewRedisStore(redisClient), constants.RedisNamespace, cfg.ProfileCacheTTL, logger)
	accountService := account.NewService(userRepository, profileCache, logger)

	authService := auth.NewService(userRepository, tokenService, resetTokens, verificationTokens, notifier, accountService, logger)

	// ── 8. HTTP Server & Metrics ───────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(logger,
		pgstore.Checker{Pool: pool},
		redisstore.Checker{Client: redisClient},
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	httpMetrics, err := middleware.NewHTTPMetrics(registry, constants.MetricsNamespace)
	must(logger, err, "register http metrics")

	server := api.NewServer(cfg, logger, tokenService, userRepository, api.Handlers{
		Liveness:        liveness,
		Readiness:       readiness,
		Metrics:         httpMetrics,
		MetricsEndpoint: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Auth:            auth.NewHandler(authService),
		Account:         account.NewHandler(accountService),
	})

	// ── 9. Graceful Shutdown ───────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		logger.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server_startup_failed", slog.Any("error", err))
	}

	logger.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		logger.Error("server_shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server_stopped")
}

// newLogger builds the process-wide JSON logger and installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String(constants.FieldApp, constants.AppName))
	slog.SetDefault(logger)
	return logger
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(logger *slog.Logger, err error, step string) {
	if err != nil {
		logger.Error("startup_failed",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
