package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/irgordon/leaderboard/api/internal/db/migrate"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Error("FATAL: DATABASE_URL not set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := migrate.Open(ctx, dbURL)
	if err != nil {
		logger.Error("FATAL: connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrate.Apply(ctx, db); err != nil {
		logger.Error("FATAL: migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("✅ Schema applied", "statements", len(migrate.Statements))
}
