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

	"github.com/irgordon/leaderboard/api/internal/api/handlers"
	"github.com/irgordon/leaderboard/api/internal/api/middleware"
	"github.com/irgordon/leaderboard/api/internal/api/router"
	"github.com/irgordon/leaderboard/api/internal/config"
	"github.com/irgordon/leaderboard/api/internal/core/services"
	"github.com/irgordon/leaderboard/api/internal/db/migrate"
	"github.com/irgordon/leaderboard/api/internal/db/postgres"
	"github.com/irgordon/leaderboard/api/internal/infrastructure/crypto"
	"github.com/irgordon/leaderboard/api/internal/telemetry"
)

func main() {
	// --- 1. Core Telemetry & Configuration ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("🚀 Booting leaderboard API...")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("FATAL: configuration invalid", "error", err)
		os.Exit(1)
	}

	// --- 2. Outbound Infrastructure ---
	if cfg.AutoMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			logger.Error("FATAL: schema migration failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Schema up to date")
	}

	dbPool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("FATAL: DB failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// --- 3. Hardened Dependency Injection ---
	codec, err := crypto.NewCodecFromHex(cfg.KeyHex, cfg.Suite)
	if err != nil {
		logger.Error("FATAL: KEY rejected", "suite", cfg.Suite.String(), "error", err)
		os.Exit(1)
	}
	if !cfg.Suite.Authenticated() {
		logger.Warn("Cipher suite provides no integrity protection", "suite", cfg.Suite.String())
	}

	repo := postgres.NewLeaderboardRepo(dbPool)
	hub := telemetry.NewHub()
	leaderboardService := services.NewLeaderboardService(repo, codec, hub, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- 4. HTTP Gateway ---
	mux := router.NewRouter(router.RouterConfig{
		AllowedOrigins:     cfg.AllowedOrigins,
		LeaderboardHandler: handlers.NewLeaderboardHandler(leaderboardService, logger),
		HealthHandler:      handlers.NewHealthHandler(repo),
		RateLimiter:        middleware.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst),
		Logger:             logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
	}

	// --- 5. Graceful Exit ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("🌐 Leaderboard API active", "port", cfg.Port, "suite", cfg.Suite.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("CRITICAL: Server crashed", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("🛑 Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("ERROR: Forced shutdown", "error", err)
	}
	logger.Info("✅ Leaderboard API shutdown complete")
}

func runMigrations(databaseURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := migrate.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	return migrate.Apply(ctx, db)
}
