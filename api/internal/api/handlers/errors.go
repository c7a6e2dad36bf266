package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/irgordon/leaderboard/api/internal/core/domain"
)

type errorResponse struct {
	Message string `json:"message"`
}

// HandleError maps domain errors onto HTTP semantics.
// 🛡️ Zero-Trust: store and codec internals are logged, never echoed.
func HandleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, msg := http.StatusInternalServerError, "Internal server error"

	switch {
	case errors.Is(err, domain.ErrUndecryptable):
		status, msg = http.StatusBadRequest, "Payload could not be decrypted"
	case errors.Is(err, domain.ErrInvalidPayload):
		status, msg = http.StatusBadRequest, "Invalid payload"
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	} else {
		logger.Warn("Request rejected", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	}

	writeJSON(w, status, errorResponse{Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
