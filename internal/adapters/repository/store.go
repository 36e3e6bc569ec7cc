// Package repository defines the content store contract and its in-memory implementation.
package repository

import (
	"context"

	"github.com/ecosort/ecosort/internal/domain/model"
)

// Counts reports the number of records held in each collection.
type Counts struct {
	Users            int `json:"users"`
	QuizQuestions    int `json:"quizQuestions"`
	RecyclingRules   int `json:"recyclingRules"`
	RecyclingCenters int `json:"recyclingCenters"`
	QuizResults      int `json:"quizResults"`
	Accounts         int `json:"accounts"`
}

// UserStore covers players, their progress and the leaderboard.
type UserStore interface {
	// GetUser returns ErrNotFound if the id is unknown.
	GetUser(ctx context.Context, id string) (model.User, error)
	// GetUserByUsername returns the first user created with name.
	GetUserByUsername(ctx context.Context, name string) (model.User, error)
	CreateUser(ctx context.Context, in model.NewUser) (model.User, error)
	// UpdateUserScore replaces the progress fields and recomputes the level.
	// Returns ErrNotFound if the id is unknown.
	UpdateUserScore(ctx context.Context, id string, score, quizzesCompleted, bestStreak int) (model.User, error)
	// Leaderboard returns users by score desc; ties keep creation order.
	Leaderboard(ctx context.Context) ([]model.User, error)
}

// QuizStore covers quiz questions and results.
type QuizStore interface {
	QuizQuestions(ctx context.Context) ([]model.QuizQuestion, error)
	QuizQuestionsByCategory(ctx context.Context, category string) ([]model.QuizQuestion, error)
	GetQuizQuestion(ctx context.Context, id string) (model.QuizQuestion, error)
	CreateQuizQuestion(ctx context.Context, in model.NewQuizQuestion) (model.QuizQuestion, error)
	UpdateQuizQuestion(ctx context.Context, id string, patch model.QuizQuestionPatch) (model.QuizQuestion, error)
	DeleteQuizQuestion(ctx context.Context, id string) (bool, error)

	// SaveQuizResult appends a result; userId is not checked against users.
	SaveQuizResult(ctx context.Context, in model.NewQuizResult) (model.QuizResult, error)
	UserQuizResults(ctx context.Context, userID string) ([]model.QuizResult, error)
}

// RecyclingStore covers sorting rules and drop-off centers.
type RecyclingStore interface {
	RecyclingRules(ctx context.Context) ([]model.RecyclingRule, error)
	RecyclingRulesByCategory(ctx context.Context, category string) ([]model.RecyclingRule, error)
	GetRecyclingRule(ctx context.Context, id string) (model.RecyclingRule, error)
	CreateRecyclingRule(ctx context.Context, in model.NewRecyclingRule) (model.RecyclingRule, error)
	UpdateRecyclingRule(ctx context.Context, id string, patch model.RecyclingRulePatch) (model.RecyclingRule, error)
	DeleteRecyclingRule(ctx context.Context, id string) (bool, error)

	RecyclingCenters(ctx context.Context) ([]model.RecyclingCenter, error)
	// RecyclingCentersByZip matches the exact zip or its three character prefix.
	RecyclingCentersByZip(ctx context.Context, zip string) ([]model.RecyclingCenter, error)
	GetRecyclingCenter(ctx context.Context, id string) (model.RecyclingCenter, error)
	CreateRecyclingCenter(ctx context.Context, in model.NewRecyclingCenter) (model.RecyclingCenter, error)
	UpdateRecyclingCenter(ctx context.Context, id string, patch model.RecyclingCenterPatch) (model.RecyclingCenter, error)
	DeleteRecyclingCenter(ctx context.Context, id string) (bool, error)
}

// AccountStore covers login credentials.
type AccountStore interface {
	// CreateAccount returns ErrConflict if the email is taken.
	CreateAccount(ctx context.Context, acc model.Account) (model.Account, error)
	// RegisterPlayer creates a user and its account atomically, or neither.
	RegisterPlayer(ctx context.Context, in model.NewUser, acc model.Account) (model.User, model.Account, error)
	AccountByEmail(ctx context.Context, email string) (model.Account, error)
	HasAdmin(ctx context.Context) bool
	// RecordLogin stamps the account's last login time.
	RecordLogin(ctx context.Context, id string) (model.Account, error)
}

// Store provides read/write access to all application content.
type Store interface {
	UserStore
	QuizStore
	RecyclingStore
	AccountStore

	Counts(ctx context.Context) Counts
}
