package api

import (
	"context"
	"net/http"

	"github.com/ecosort/ecosort/internal/domain/model"
)

// QuizDependencies defines the quiz question and result operations.
type QuizDependencies interface {
	QuizQuestions(ctx context.Context, category string) ([]model.QuizQuestion, error)
	GetQuizQuestion(ctx context.Context, id string) (model.QuizQuestion, error)
	CreateQuizQuestion(ctx context.Context, in model.NewQuizQuestion) (model.QuizQuestion, error)
	UpdateQuizQuestion(ctx context.Context, id string, patch model.QuizQuestionPatch) (model.QuizQuestion, error)
	DeleteQuizQuestion(ctx context.Context, id string) (bool, error)
	SaveQuizResult(ctx context.Context, in model.NewQuizResult) (model.QuizResult, error)
	UserQuizResults(ctx context.Context, userID string) ([]model.QuizResult, error)
}

// QuizHandler handles quiz requests.
type QuizHandler struct {
	responder
	deps QuizDependencies
}

// NewQuizHandler creates a new quiz handler.
func NewQuizHandler(deps QuizDependencies, rs responder) *QuizHandler {
	return &QuizHandler{responder: rs, deps: deps}
}

// HandleListQuestions handles GET /api/quiz/questions[?category=C].
func (h *QuizHandler) HandleListQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := h.deps.QuizQuestions(r.Context(), r.URL.Query().Get("category"))
	if err == nil && qs == nil {
		qs = []model.QuizQuestion{}
	}
	h.reply(r.Context(), w, "api.list_questions", qs, err)
}

// HandleGetQuestion handles GET /api/quiz/questions/{id}.
func (h *QuizHandler) HandleGetQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.deps.GetQuizQuestion(r.Context(), r.PathValue("id"))
	h.reply(r.Context(), w, "api.get_question", q, err)
}

// HandleCreateQuestion handles POST /api/quiz/questions.
func (h *QuizHandler) HandleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_question"
	var in model.NewQuizQuestion
	if err := decode(w, r, &in); err != nil {
		h.fail(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	q, err := h.deps.CreateQuizQuestion(r.Context(), in)
	h.reply(r.Context(), w, op, q, err)
}

// HandleUpdateQuestion handles PATCH /api/quiz/questions/{id}.
func (h *QuizHandler) HandleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_question"
	var patch model.QuizQuestionPatch
	if err := decode(w, r, &patch); err != nil {
		h.fail(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	q, err := h.deps.UpdateQuizQuestion(r.Context(), r.PathValue("id"), patch)
	h.reply(r.Context(), w, op, q, err)
}

// HandleDeleteQuestion handles DELETE /api/quiz/questions/{id}.
func (h *QuizHandler) HandleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	ok, err := h.deps.DeleteQuizQuestion(r.Context(), r.PathValue("id"))
	h.removed(r.Context(), w, "api.delete_question", "Question deleted", ok, err)
}

// HandleSaveResult handles POST /api/quiz/results.
func (h *QuizHandler) HandleSaveResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.save_result"
	var in model.NewQuizResult
	if err := decode(w, r, &in); err != nil {
		h.fail(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.SaveQuizResult(r.Context(), in)
	h.reply(r.Context(), w, op, res, err)
}

// HandleListResults handles GET /api/quiz/results/{userId}. Unknown users
// get an empty list.
func (h *QuizHandler) HandleListResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.deps.UserQuizResults(r.Context(), r.PathValue("userId"))
	if err == nil && results == nil {
		results = []model.QuizResult{}
	}
	h.reply(r.Context(), w, "api.list_results", results, err)
}
