package handler

import (
	"context"
	"net/http"
	"time"
)

// Checker reports whether a dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	redis Checker
}

// NewHealthHandler creates a new HealthHandler. redis may be nil when the
// service runs without Redis.
func NewHealthHandler(redis Checker) *HealthHandler {
	return &HealthHandler{redis: redis}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.redis == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "redis": "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.redis.Check(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "redis unhealthy", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"redis":  "ok",
	})
}
