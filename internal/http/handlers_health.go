package httpx

import (
	"context"
	"io"
	"net/http"
	"time"
)

const healthResponse = `{"status":"ok"}`

// HealthChecker reports whether an optional dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandlers serves /healthz. Cache is optional.
type HealthHandlers struct {
	Cache   HealthChecker
	Timeout time.Duration
}

// Health returns 200 when every configured dependency answers and 503 otherwise.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Cache == nil {
		healthHandler(w, r)
		return
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	if err := h.Cache.Health(ctx); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = io.WriteString(w, `{"status":"degraded","cache":"unavailable"}`)
		return
	}
	healthHandler(w, r)
}

// healthHandler returns a simple 200 OK status for readiness/liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}
