package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/ecosort/ecosort/internal/domain/model"
)

// UserDependencies defines the user operations the handlers need.
type UserDependencies interface {
	GetUser(ctx context.Context, id string) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	CreateUser(ctx context.Context, in model.NewUser) (model.User, error)
	UpdateUserScore(ctx context.Context, id string, upd model.ScoreUpdate) (model.User, error)
	UserStats(ctx context.Context, id string) (model.UserStats, error)
}

// UserHandler handles user requests.
type UserHandler struct {
	responder
	deps UserDependencies
}

// NewUserHandler creates a new user handler.
func NewUserHandler(deps UserDependencies, rs responder) *UserHandler {
	return &UserHandler{responder: rs, deps: deps}
}

// HandleGetUser handles GET /api/users/{id}.
func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_user"
	u, err := h.deps.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// HandleFindUser handles GET /api/users?username=NAME.
func (h *UserHandler) HandleFindUser(w http.ResponseWriter, r *http.Request) {
	const op = "api.find_user"
	name := strings.TrimSpace(r.URL.Query().Get("username"))
	if name == "" {
		h.fail(r.Context(), w, WrapKind(op, ErrBadRequest, errMissingUsername))
		return
	}
	u, err := h.deps.GetUserByUsername(r.Context(), name)
	if err != nil {
		h.fail(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// HandleCreateUser handles POST /api/users.
func (h *UserHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_user"
	var in model.NewUser
	if err := decode(w, r, &in); err != nil {
		h.fail(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	u, err := h.deps.CreateUser(r.Context(), in)
	if err != nil {
		h.fail(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// HandleUpdateScore handles PATCH /api/users/{id}/score.
func (h *UserHandler) HandleUpdateScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_score"
	var upd model.ScoreUpdate
	if err := decode(w, r, &upd); err != nil {
		h.fail(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	u, err := h.deps.UpdateUserScore(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		h.fail(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// HandleGetStats handles GET /api/users/{id}/stats.
func (h *UserHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.user_stats"
	stats, err := h.deps.UserStats(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
