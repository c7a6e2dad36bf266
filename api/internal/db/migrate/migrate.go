// Package migrate bootstraps the leaderboard schema.
package migrate

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
)

// Statements are applied in order and are safe to re-run.
var Statements = []string{
	`CREATE TABLE IF NOT EXISTS leaderboard (
		id         UUID PRIMARY KEY,
		level      INTEGER NOT NULL CHECK (level > 0),
		player     VARCHAR(32) NOT NULL,
		time       INTEGER NOT NULL CHECK (time > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS leaderboard_level_time_idx ON leaderboard (level, time)`,
}

// Open connects through the pgx stdlib driver.
func Open(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("migrate: connect failed: %w", err)
	}
	return db, nil
}

// Apply runs every statement inside one transaction.
func Apply(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate: begin failed: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: statement %d failed: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit failed: %w", err)
	}
	return nil
}
