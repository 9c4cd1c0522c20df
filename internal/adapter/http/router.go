package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/earnledger/internal/adapter/http/handler"
	"github.com/iho/earnledger/internal/adapter/http/middleware"
	"github.com/iho/earnledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	PositionHandler     *handler.PositionHandler
	SessionHandler      *handler.SessionHandler
	NotificationHandler *handler.NotificationHandler
	StreamHandler       *handler.StreamHandler
	HealthHandler       *handler.HealthHandler
	MetricsHandler      http.Handler
	IdempotencyStore    usecase.IdempotencyStore
	IdempotencyTTL      time.Duration
	RateLimiter         *middleware.RateLimiter
	Logger              zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	limit := func(h http.HandlerFunc) http.Handler {
		if cfg.RateLimiter == nil {
			return h
		}
		return cfg.RateLimiter.Limit(h)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		// Positions
		r.Route("/positions", func(r chi.Router) {
			r.Get("/", cfg.PositionHandler.List)
			r.Get("/available", cfg.PositionHandler.Available)
			r.Method(http.MethodPost, "/deposit", limit(cfg.PositionHandler.Deposit))
			r.Method(http.MethodPost, "/withdraw", limit(cfg.PositionHandler.Withdraw))
			r.Method(http.MethodPost, "/exchange", limit(cfg.PositionHandler.Exchange))
		})

		// Sessions
		r.Route("/sessions/{accountId}", func(r chi.Router) {
			r.Put("/", cfg.SessionHandler.Bind)
			r.Post("/refresh", cfg.SessionHandler.Refresh)
			r.Get("/wallet", cfg.SessionHandler.Wallet)
			r.Get("/report", cfg.SessionHandler.Report)
		})

		// Push channel over HTTP
		r.Method(http.MethodPost, "/wallets/{walletId}/notifications", limit(cfg.NotificationHandler.Apply))

		if cfg.StreamHandler != nil {
			r.Get("/stream", cfg.StreamHandler.Stream)
		}
	})

	return r
}
