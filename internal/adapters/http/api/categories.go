package api

import (
	"context"
	"net/http"

	"github.com/ecosort/ecosort/internal/domain/model"
)

// CategoryDependencies lists the waste category catalogue.
type CategoryDependencies interface {
	Categories(ctx context.Context) []model.CategoryInfo
}

// CategoryHandler serves the category catalogue.
type CategoryHandler struct {
	deps CategoryDependencies
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(deps CategoryDependencies) *CategoryHandler {
	return &CategoryHandler{deps: deps}
}

// HandleListCategories handles GET /api/categories.
func (h *CategoryHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Categories(r.Context()))
}
