package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/irgordon/leaderboard/api/internal/core/domain"
)

// ==============================================================================
// 1. The Handler Struct (Dependency Injection)
// ==============================================================================

type LeaderboardHandler struct {
	Service domain.LeaderboardService
	Logger  *slog.Logger
}

func NewLeaderboardHandler(service domain.LeaderboardService, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		Service: service,
		Logger:  logger,
	}
}

// ==============================================================================
// 2. HTTP Methods
// ==============================================================================

// List handles GET /leaderboard/{level}
func (h *LeaderboardHandler) List(w http.ResponseWriter, r *http.Request) {
	level, err := levelParam(r)
	if err != nil {
		HandleError(w, r, h.Logger, err)
		return
	}

	entries, err := h.Service.Top(r.Context(), level)
	if err != nil {
		HandleError(w, r, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// Upload handles POST /leaderboard/{level}
// The body is an opaque sealed frame, not JSON.
func (h *LeaderboardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	level, err := levelParam(r)
	if err != nil {
		HandleError(w, r, h.Logger, err)
		return
	}

	frame, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Message: "Payload too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Failed to read body"})
		return
	}

	score, err := h.Service.Submit(r.Context(), level, frame)
	if err != nil {
		HandleError(w, r, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, domain.UploadResponse{
		Success: true,
		Message: "Score recorded",
		ID:      score.ID,
	})
}

func levelParam(r *http.Request) (int32, error) {
	raw := chi.URLParam(r, "level")
	level, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || level < 1 {
		return 0, fmt.Errorf("%w: invalid level %q", domain.ErrInvalidPayload, raw)
	}
	return int32(level), nil
}
