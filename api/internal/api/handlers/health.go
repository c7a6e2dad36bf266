package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/irgordon/leaderboard/api/internal/core/domain"
)

type HealthHandler struct {
	repo domain.LeaderboardRepository
}

func NewHealthHandler(repo domain.LeaderboardRepository) *HealthHandler {
	return &HealthHandler{repo: repo}
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	// 🛡️ SLA: Use a tight timeout for health checks
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.repo.Ping(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("unhealthy: database unreachable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("healthy"))
}
