// Package site serves the human-facing leaderboard pages.
package site

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/wask/internal/adapters/http/api"
	"github.com/okian/wask/internal/domain/model"
	"github.com/okian/wask/pkg/logger"
	"github.com/okian/wask/pkg/metrics"
)

// Dependencies defines what the pages need from the service.
type Dependencies interface {
	Ranked(ctx context.Context) ([]model.RankedScore, error)
}

// Register attaches the page routes to r.
func Register(_ context.Context, r chi.Router, deps Dependencies, l logger.Logger) {
	if r == nil {
		panic("router is nil")
	}
	h := &PageHandler{deps: deps, logger: l}
	r.Get("/", api.MetricsMiddleware(HandleRoot, "root"))
	r.Get("/leaderboard", api.MetricsMiddleware(h.HandleLeaderboard, "leaderboard"))
}

// HandleRoot redirects visitors to the leaderboard page.
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/leaderboard", http.StatusFound)
}

// PageHandler renders the leaderboard page.
type PageHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// HandleLeaderboard handles GET /leaderboard.
func (h *PageHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.deps.Ranked(r.Context())
	if err != nil {
		h.fail(r.Context(), w, "load leaderboard", err)
		return
	}
	page, err := RenderLeaderboard(rows)
	if err != nil {
		h.fail(r.Context(), w, "render leaderboard", err)
		return
	}
	metrics.RecordPageRender()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}

func (h *PageHandler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if h.logger != nil {
		h.logger.Error(ctx, msg, logger.Error(err))
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
