package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/irgordon/leaderboard/api/internal/core/domain"
	"github.com/irgordon/leaderboard/api/internal/telemetry"
)

// LeaderboardService opens sealed submissions, stores them and feeds the
// live watchers.
type LeaderboardService struct {
	repo     domain.LeaderboardRepository
	codec    domain.PayloadCodec
	hub      *telemetry.Hub
	validate *validator.Validate
	logger   *slog.Logger
}

func NewLeaderboardService(
	repo domain.LeaderboardRepository,
	codec domain.PayloadCodec,
	hub *telemetry.Hub,
	logger *slog.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		repo:     repo,
		codec:    codec,
		hub:      hub,
		validate: validator.New(),
		logger:   logger,
	}
}

// Submit decrypts a frame, validates the UploadRequest inside and persists it.
func (s *LeaderboardService) Submit(ctx context.Context, level int32, frame []byte) (*domain.Score, error) {
	if level < 1 {
		return nil, fmt.Errorf("%w: level must be positive, got %d", domain.ErrInvalidPayload, level)
	}

	// 1. 🛡️ Nothing past this point sees bytes that failed to open.
	plaintext, err := s.codec.Open(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUndecryptable, err)
	}

	// 2. Decode and validate the intent
	var req domain.UploadRequest
	if err := json.Unmarshal(plaintext, &req); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPayload, err)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPayload, err)
	}

	// 3. Persist
	score := &domain.Score{
		ID:     uuid.New(),
		Level:  level,
		Player: req.Player,
		Time:   req.Time,
	}
	if err := s.repo.Insert(ctx, score); err != nil {
		return nil, fmt.Errorf("failed to store score: %w", err)
	}

	s.logger.Info("Score accepted",
		slog.String("id", score.ID.String()),
		slog.Int("level", int(level)),
		slog.String("player", score.Player),
		slog.Int("time", int(score.Time)),
	)

	// 4. Notify live watchers
	s.hub.Broadcast(level, domain.LeaderboardEntry{Player: score.Player, Time: score.Time})

	return score, nil
}

// Top returns the fastest times recorded for level.
func (s *LeaderboardService) Top(ctx context.Context, level int32) ([]domain.LeaderboardEntry, error) {
	if level < 1 {
		return nil, fmt.Errorf("%w: level must be positive, got %d", domain.ErrInvalidPayload, level)
	}

	entries, err := s.repo.Top(ctx, level, domain.MaxLeaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries, nil
}

// Subscribe attaches a live watcher to level. The returned func detaches it.
func (s *LeaderboardService) Subscribe(level int32) (<-chan domain.LeaderboardEntry, func()) {
	ch := s.hub.Subscribe(level)
	return ch, func() { s.hub.Unsubscribe(level, ch) }
}
