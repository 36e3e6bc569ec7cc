package api

import (
	"context"
	"net/http"

	"github.com/ecosort/ecosort/internal/domain/model"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context) ([]model.User, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	responder
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, rs responder) *LeaderboardHandler {
	return &LeaderboardHandler{responder: rs, deps: deps}
}

// HandleGetLeaderboard handles GET /api/leaderboard. The result is ordered by
// score descending and capped at the configured size.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	users, err := h.deps.Leaderboard(r.Context())
	if err != nil {
		h.fail(r.Context(), w, Wrap(op, err))
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}
