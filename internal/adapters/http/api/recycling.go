package api

import (
	"context"
	"net/http"

	"github.com/ecosort/ecosort/internal/domain/model"
)

// RecyclingDependencies defines the recycling rule and center operations.
type RecyclingDependencies interface {
	RecyclingRules(ctx context.Context, category string) ([]model.RecyclingRule, error)
	GetRecyclingRule(ctx context.Context, id string) (model.RecyclingRule, error)
	CreateRecyclingRule(ctx context.Context, in model.NewRecyclingRule) (model.RecyclingRule, error)
	UpdateRecyclingRule(ctx context.Context, id string, patch model.RecyclingRulePatch) (model.RecyclingRule, error)
	DeleteRecyclingRule(ctx context.Context, id string) (bool, error)

	RecyclingCenters(ctx context.Context, zipCode string) ([]model.RecyclingCenter, error)
	GetRecyclingCenter(ctx context.Context, id string) (model.RecyclingCenter, error)
	CreateRecyclingCenter(ctx context.Context, in model.NewRecyclingCenter) (model.RecyclingCenter, error)
	UpdateRecyclingCenter(ctx context.Context, id string, patch model.RecyclingCenterPatch) (model.RecyclingCenter, error)
	DeleteRecyclingCenter(ctx context.Context, id string) (bool, error)
}

// RecyclingHandler handles recycling rule and center requests.
type RecyclingHandler struct {
	responder
	deps RecyclingDependencies
}

// NewRecyclingHandler creates a new recycling handler.
func NewRecyclingHandler(deps RecyclingDependencies, rs responder) *RecyclingHandler {
	return &RecyclingHandler{responder: rs, deps: deps}
}

// HandleListRules handles GET /api/recycling/rules[?category=C].
func (h *RecyclingHandler) HandleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.deps.RecyclingRules(r.Context(), r.URL.Query().Get("category"))
	if err == nil && rules == nil {
		rules = []model.RecyclingRule{}
	}
	h.reply(r.Context(), w, "api.list_rules", rules, err)
}

func (h *RecyclingHandler) HandleGetRule(w http.ResponseWriter, r *http.Request) {
	rule, err := h.deps.GetRecyclingRule(r.Context(), r.PathValue("id"))
	h.reply(r.Context(), w, "api.get_rule", rule, err)
}

func (h *RecyclingHandler) HandleCreateRule(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_rule"
	var in model.NewRecyclingRule
	if err := decode(w, r, &in); err != nil {
		h.fail(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	rule, err := h.deps.CreateRecyclingRule(r.Context(), in)
	h.reply(r.Context(), w, op, rule, err)
}

func (h *RecyclingHandler) HandleUpdateRule(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_rule"
	var patch model.RecyclingRulePatch
	if err := decode(w, r, &patch); err != nil {
		h.fail(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	rule, err := h.deps.UpdateRecyclingRule(r.Context(), r.PathValue("id"), patch)
	h.reply(r.Context(), w, op, rule, err)
}

func (h *RecyclingHandler) HandleDeleteRule(w http.ResponseWriter, r *http.Request) {
	ok, err := h.deps.DeleteRecyclingRule(r.Context(), r.PathValue("id"))
	h.removed(r.Context(), w, "api.delete_rule", "Rule deleted", ok, err)
}

// HandleListCenters handles GET /api/recycling/centers[?zipCode=Z]. Centers
// match when their zip code shares the first three characters.
func (h *RecyclingHandler) HandleListCenters(w http.ResponseWriter, r *http.Request) {
	centers, err := h.deps.RecyclingCenters(r.Context(), r.URL.Query().Get("zipCode"))
	if err == nil && centers == nil {
		centers = []model.RecyclingCenter{}
	}
	h.reply(r.Context(), w, "api.list_centers", centers, err)
}

func (h *RecyclingHandler) HandleGetCenter(w http.ResponseWriter, r *http.Request) {
	c, err := h.deps.GetRecyclingCenter(r.Context(), r.PathValue("id"))
	h.reply(r.Context(), w, "api.get_center", c, err)
}

func (h *RecyclingHandler) HandleCreateCenter(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_center"
	var in model.NewRecyclingCenter
	if err := decode(w, r, &in); err != nil {
		h.fail(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	c, err := h.deps.CreateRecyclingCenter(r.Context(), in)
	h.reply(r.Context(), w, op, c, err)
}

func (h *RecyclingHandler) HandleUpdateCenter(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_center"
	var patch model.RecyclingCenterPatch
	if err := decode(w, r, &patch); err != nil {
		h.fail(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	c, err := h.deps.UpdateRecyclingCenter(r.Context(), r.PathValue("id"), patch)
	h.reply(r.Context(), w, op, c, err)
}

func (h *RecyclingHandler) HandleDeleteCenter(w http.ResponseWriter, r *http.Request) {
	ok, err := h.deps.DeleteRecyclingCenter(r.Context(), r.PathValue("id"))
	h.removed(r.Context(), w, "api.delete_center", "Center deleted", ok, err)
}
