package api

import (
	"context"
	"net/http"

	"github.com/ecosort/ecosort/internal/domain/model"
)

// SessionProvider resolves bearer tokens into sessions.
type SessionProvider interface {
	Session(ctx context.Context, token string) (model.Session, error)
}

// AuthDependencies defines the account operations the auth handlers need.
type AuthDependencies interface {
	SessionProvider
	Register(ctx context.Context, reg model.Registration) (model.AuthResult, error)
	Login(ctx context.Context, cred model.Credentials) (model.AuthResult, error)
}

// AuthHandler handles registration, login and session lookups.
type AuthHandler struct {
	responder
	deps AuthDependencies
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(deps AuthDependencies, rs responder) *AuthHandler {
	return &AuthHandler{responder: rs, deps: deps}
}

// HandleRegister handles POST /api/auth/register.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	const op = "api.register"
	var reg model.Registration
	if err := decode(w, r, &reg); err != nil {
		h.fail(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Register(r.Context(), reg)
	h.reply(r.Context(), w, op, res, err)
}

// HandleLogin handles POST /api/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "api.login"
	var cred model.Credentials
	if err := decode(w, r, &cred); err != nil {
		h.fail(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Login(r.Context(), cred)
	h.reply(r.Context(), w, op, res, err)
}

// HandleSession handles GET /api/auth/session.
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.session"
	token, err := bearerToken(r)
	if err != nil {
		h.fail(r.Context(), w, WrapKind(op, ErrUnauthorized, err))
		return
	}
	session, err := h.deps.Session(r.Context(), token)
	h.reply(r.Context(), w, op, session, err)
}
