package api

import (
	"context"
	"net/http"
)

// ReadyChecker reports whether the backing store answers.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

// HealthHandler handles liveness and readiness probes.
type HealthHandler struct {
	ready ReadyChecker
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(ready ReadyChecker) *HealthHandler {
	return &HealthHandler{ready: ready}
}

type healthResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// HandleHealth handles GET /health. It never touches the store, so it stays
// green while storage is down; use /readyz for that.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{OK: true})
}

// HandleReady handles GET /readyz.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	if h.ready == nil {
		writeJSON(w, http.StatusOK, healthResponse{OK: true})
		return
	}
	if err := h.ready.Ready(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{OK: false, Error: Wrap("api.readyz", err).Error()})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{OK: true})
}
