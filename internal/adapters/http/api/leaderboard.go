package api

import (
	"context"
	"net/http"

	"github.com/okian/wask/internal/domain/model"
)

// LeaderboardDependencies defines the interface for leaderboard reads.
type LeaderboardDependencies interface {
	Standings(ctx context.Context) ([]model.Score, error)
}

// LeaderboardHandler handles JSON leaderboard requests.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// HandleGetLeaderboard handles GET /api/leaderboard. The full standings are
// returned fastest first; there is no paging.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	scores, err := h.deps.Standings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	if scores == nil {
		scores = []model.Score{}
	}
	writeJSON(w, http.StatusOK, scores)
}
