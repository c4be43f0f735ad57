// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/wask/internal/domain/submission"
	"github.com/okian/wask/pkg/logger"
	"github.com/okian/wask/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SubmitDependencies
	LeaderboardDependencies
	ReadyChecker
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	submitHandler      *SubmitHandler
	leaderboardHandler *LeaderboardHandler
}

// ServerOption configures a Server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	normalizer *submission.Normalizer
	logger     logger.Logger
}

// WithNormalizer sets how submit payloads are decoded.
func WithNormalizer(n *submission.Normalizer) ServerOption {
	return func(o *serverOptions) {
		if n != nil {
			o.normalizer = n
		}
	}
}

// WithLogger sets the logger used by the handlers.
func WithLogger(l logger.Logger) ServerOption {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	o := serverOptions{normalizer: submission.New()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:      NewHealthHandler(deps),
		statsHandler:       NewStatsHandler(statsProvider),
		submitHandler:      NewSubmitHandler(deps, o.normalizer, o.logger),
		leaderboardHandler: NewLeaderboardHandler(deps),
	}
}

// Register attaches all API routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Get("/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	r.Get("/readyz", MetricsMiddleware(s.healthHandler.HandleReady, "readyz"))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/api/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "api_leaderboard"))
	r.Post("/submit_result", MetricsMiddleware(s.submitHandler.HandleSubmit, "submit_result"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
