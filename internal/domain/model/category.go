// Package model contains domain records, their insertable projections and
// the patch variants accepted by update operations.
package model

// Waste categories recognised by quiz questions and recycling rules.
const (
	CategoryPlastic = "plastic"
	CategoryGlass   = "glass"
	CategoryOrganic = "organic"
	CategoryEWaste  = "ewaste"
)

// Question difficulties.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Categories lists the canonical categories in display order.
var Categories = []string{CategoryPlastic, CategoryGlass, CategoryOrganic, CategoryEWaste}

// CategoryInfo describes a category for the sorting guide.
type CategoryInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
