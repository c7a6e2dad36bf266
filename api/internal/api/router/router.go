// api/internal/api/router/router.go
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/irgordon/leaderboard/api/internal/api/handlers"
	lb_middleware "github.com/irgordon/leaderboard/api/internal/api/middleware"
)

// maxBodyBytes bounds sealed upload frames.
const maxBodyBytes = 1_048_576

// RouterConfig defines the strict dependencies required to build the routing tree.
type RouterConfig struct {
	AllowedOrigins     []string
	LeaderboardHandler *handlers.LeaderboardHandler
	HealthHandler      *handlers.HealthHandler
	RateLimiter        *lb_middleware.RateLimiter
	Logger             *slog.Logger
}

// NewRouter constructs the Chi multiplexer, attaches global middleware, and wires all endpoints.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// =========================================================================
	// 1. Global Gateway Middleware Pipeline
	// =========================================================================

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(lb_middleware.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)

	// 🛡️ Limit all incoming bodies to 1 Megabyte max (OOM Protection)
	r.Use(lb_middleware.MaxBytes(maxBodyBytes))

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Handler)
	}

	// Game clients run from arbitrary origins.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	// =========================================================================
	// 2. Leaderboard Routing Tree
	// =========================================================================

	r.Route("/leaderboard/{level}", func(r chi.Router) {
		// The live feed is long-lived; it must not sit behind the request timeout.
		r.Get("/live", cfg.LeaderboardHandler.Live)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			r.Get("/", cfg.LeaderboardHandler.List)
			r.Post("/", cfg.LeaderboardHandler.Upload)
		})
	})

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.Check)
	}

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	return r
}
