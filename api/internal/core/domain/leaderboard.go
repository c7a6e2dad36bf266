package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MaxLeaderboardSize caps how many entries a level listing returns.
const MaxLeaderboardSize = 100

// LeaderboardEntry is one ranked row of a level's board.
type LeaderboardEntry struct {
	Rank   int64  `json:"rank" db:"rank"`
	Player string `json:"player" db:"player"`
	Time   int32  `json:"time" db:"time"`
}

// UploadRequest is the plaintext carried inside a sealed submission frame.
type UploadRequest struct {
	Player string `json:"player" validate:"required,min=1,max=32,printascii"`
	Time   int32  `json:"time" validate:"gt=0"`
}

// UploadResponse is returned to the client after a submission is stored.
type UploadResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
}

// Score is the persisted form of an accepted submission.
type Score struct {
	ID        uuid.UUID `json:"id"`
	Level     int32     `json:"level"`
	Player    string    `json:"player"`
	Time      int32     `json:"time"`
	CreatedAt time.Time `json:"created_at"`
}

// LeaderboardRepository defines the storage contract for scores.
type LeaderboardRepository interface {
	// Insert stores the score and fills in CreatedAt.
	Insert(ctx context.Context, score *Score) error

	// Top returns up to limit entries for level ordered by ascending time.
	Top(ctx context.Context, level int32, limit int) ([]LeaderboardEntry, error)

	Ping(ctx context.Context) error
}

// LeaderboardService is what the HTTP layer talks to.
type LeaderboardService interface {
	Submit(ctx context.Context, level int32, frame []byte) (*Score, error)
	Top(ctx context.Context, level int32) ([]LeaderboardEntry, error)
	Subscribe(level int32) (<-chan LeaderboardEntry, func())
}
