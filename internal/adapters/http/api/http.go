// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ecosort/ecosort/internal/adapters/repository"
	"github.com/ecosort/ecosort/pkg/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	UserDependencies
	LeaderboardDependencies
	CategoryDependencies
	QuizDependencies
	RecyclingDependencies
	AuthDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	userHandler        *UserHandler
	leaderboardHandler *LeaderboardHandler
	categoryHandler    *CategoryHandler
	quizHandler        *QuizHandler
	recyclingHandler   *RecyclingHandler
	authHandler        *AuthHandler

	sessions     SessionProvider
	requireAdmin bool
	log          logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	requireAdmin bool
	log          logger.Logger
}

// WithAdminGuard restricts content writes to admin sessions.
func WithAdminGuard(enabled bool) ServerOption {
	return func(c *serverConfig) {
		c.requireAdmin = enabled
	}
}

// WithLogger sets the logger used to report internal errors.
func WithLogger(l logger.Logger) ServerOption {
	return func(c *serverConfig) {
		c.log = l
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	var cfg serverConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	rs := responder{log: cfg.log}

	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		userHandler:        NewUserHandler(deps, rs),
		leaderboardHandler: NewLeaderboardHandler(deps, rs),
		categoryHandler:    NewCategoryHandler(deps),
		quizHandler:        NewQuizHandler(deps, rs),
		recyclingHandler:   NewRecyclingHandler(deps, rs),
		authHandler:        NewAuthHandler(deps, rs),
		sessions:           deps,
		requireAdmin:       cfg.requireAdmin,
		log:                cfg.log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	admin := func(h http.HandlerFunc, endpoint string) http.HandlerFunc {
		return MetricsMiddleware(AdminMiddleware(auditMiddleware(h, endpoint, s.log), s.sessions, s.requireAdmin), endpoint)
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	// Users
	mux.HandleFunc("GET /api/users", MetricsMiddleware(s.userHandler.HandleFindUser, "find_user"))
	mux.HandleFunc("GET /api/users/{id}", MetricsMiddleware(s.userHandler.HandleGetUser, "get_user"))
	mux.HandleFunc("POST /api/users", MetricsMiddleware(s.userHandler.HandleCreateUser, "create_user"))
	mux.HandleFunc("PATCH /api/users/{id}/score", MetricsMiddleware(s.userHandler.HandleUpdateScore, "update_score"))
	mux.HandleFunc("GET /api/users/{id}/stats", MetricsMiddleware(s.userHandler.HandleGetStats, "user_stats"))
	mux.HandleFunc("GET /api/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /api/categories", MetricsMiddleware(s.categoryHandler.HandleListCategories, "categories"))

	// Quiz
	mux.HandleFunc("GET /api/quiz/questions", MetricsMiddleware(s.quizHandler.HandleListQuestions, "list_questions"))
	mux.HandleFunc("GET /api/quiz/questions/{id}", MetricsMiddleware(s.quizHandler.HandleGetQuestion, "get_question"))
	mux.HandleFunc("POST /api/quiz/questions", admin(s.quizHandler.HandleCreateQuestion, "create_question"))
	mux.HandleFunc("PATCH /api/quiz/questions/{id}", admin(s.quizHandler.HandleUpdateQuestion, "update_question"))
	mux.HandleFunc("DELETE /api/quiz/questions/{id}", admin(s.quizHandler.HandleDeleteQuestion, "delete_question"))
	mux.HandleFunc("POST /api/quiz/results", MetricsMiddleware(s.quizHandler.HandleSaveResult, "save_result"))
	mux.HandleFunc("GET /api/quiz/results/{userId}", MetricsMiddleware(s.quizHandler.HandleListResults, "list_results"))

	// Recycling
	mux.HandleFunc("GET /api/recycling/rules", MetricsMiddleware(s.recyclingHandler.HandleListRules, "list_rules"))
	mux.HandleFunc("GET /api/recycling/rules/{id}", MetricsMiddleware(s.recyclingHandler.HandleGetRule, "get_rule"))
	mux.HandleFunc("POST /api/recycling/rules", admin(s.recyclingHandler.HandleCreateRule, "create_rule"))
	mux.HandleFunc("PATCH /api/recycling/rules/{id}", admin(s.recyclingHandler.HandleUpdateRule, "update_rule"))
	mux.HandleFunc("DELETE /api/recycling/rules/{id}", admin(s.recyclingHandler.HandleDeleteRule, "delete_rule"))
	mux.HandleFunc("GET /api/recycling/centers", MetricsMiddleware(s.recyclingHandler.HandleListCenters, "list_centers"))
	mux.HandleFunc("GET /api/recycling/centers/{id}", MetricsMiddleware(s.recyclingHandler.HandleGetCenter, "get_center"))
	mux.HandleFunc("POST /api/recycling/centers", admin(s.recyclingHandler.HandleCreateCenter, "create_center"))
	mux.HandleFunc("PATCH /api/recycling/centers/{id}", admin(s.recyclingHandler.HandleUpdateCenter, "update_center"))
	mux.HandleFunc("DELETE /api/recycling/centers/{id}", admin(s.recyclingHandler.HandleDeleteCenter, "delete_center"))

	// Auth
	mux.HandleFunc("POST /api/auth/register", MetricsMiddleware(s.authHandler.HandleRegister, "register"))
	mux.HandleFunc("POST /api/auth/login", MetricsMiddleware(s.authHandler.HandleLogin, "login"))
	mux.HandleFunc("GET /api/auth/session", MetricsMiddleware(s.authHandler.HandleSession, "session"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
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

// responder turns handler errors into JSON error responses.
type responder struct {
	log logger.Logger
}

// fail writes the response for err. Internal errors are logged and their
// details are kept out of the body.
func (rs responder) fail(ctx context.Context, w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		if rs.log != nil {
			rs.log.Error(ctx, "request failed", logger.String("op", opOf(err)), logger.Error(err))
		}
		writeError(w, status, code, nil)
		return
	}
	writeError(w, status, code, err)
}

// decode reads a single JSON object into v, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}

// reply writes v, or the failure for err.
func (rs responder) reply(ctx context.Context, w http.ResponseWriter, op string, v any, err error) {
	if err != nil {
		rs.fail(ctx, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// removed answers a delete: 404 when nothing existed, else msg.
func (rs responder) removed(ctx context.Context, w http.ResponseWriter, op, msg string, ok bool, err error) {
	switch {
	case err != nil:
		rs.fail(ctx, w, Wrap(op, err))
	case !ok:
		rs.fail(ctx, w, NewKind(op, repository.ErrNotFound))
	default:
		writeJSON(w, http.StatusOK, messageResponse{Message: msg})
	}
}
