package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/irgordon/leaderboard/api/internal/core/domain"
)

// LeaderboardRepo implements domain.LeaderboardRepository on pgx.
type LeaderboardRepo struct {
	pool *pgxpool.Pool
}

func NewLeaderboardRepo(pool *pgxpool.Pool) *LeaderboardRepo {
	return &LeaderboardRepo{pool: pool}
}

// Insert stores an accepted score and scans the server timestamp back.
func (r *LeaderboardRepo) Insert(ctx context.Context, score *domain.Score) error {
	const query = `
		INSERT INTO leaderboard (id, level, player, time)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		score.ID,
		score.Level,
		score.Player,
		score.Time,
	).Scan(&score.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert score: %w", err)
	}
	return nil
}

// Top ranks a level's scores by ascending time. Tied times get distinct,
// arbitrary ranks.
func (r *LeaderboardRepo) Top(ctx context.Context, level int32, limit int) ([]domain.LeaderboardEntry, error) {
	const query = `
		SELECT ROW_NUMBER() OVER (ORDER BY time) AS rank, player, time
		FROM leaderboard
		WHERE level = $1
		ORDER BY time
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, level, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer rows.Close()

	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.LeaderboardEntry])
	if err != nil {
		return nil, fmt.Errorf("failed to scan leaderboard: %w", err)
	}
	return entries, nil
}

func (r *LeaderboardRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
