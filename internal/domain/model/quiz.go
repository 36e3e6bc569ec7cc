package model

import (
	"slices"
	"time"
)

// QuizQuestion is a multiple choice question about waste sorting.
type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	ImageURL      *string  `json:"imageUrl"`
}

// Clone returns a copy that shares no slices with q.
func (q QuizQuestion) Clone() QuizQuestion {
	q.Options = slices.Clone(q.Options)
	q.ImageURL = cloneString(q.ImageURL)
	return q
}

// Check verifies invariants that span several fields.
func (q QuizQuestion) Check() error {
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return invalid("correctAnswer %d is not an index into %d options", q.CorrectAnswer, len(q.Options))
	}
	return nil
}

// NewQuizQuestion holds the fields a client may set when creating a question.
type NewQuizQuestion struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,len=4,dive,required"`
	CorrectAnswer *int     `json:"correctAnswer" validate:"required,min=0"`
	Category      string   `json:"category" validate:"required,oneof=plastic glass organic ewaste"`
	Difficulty    string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	ImageURL      *string  `json:"imageUrl"`
}

// Validate checks the insertable question.
func (n NewQuizQuestion) Validate() error {
	if err := check(n); err != nil {
		return err
	}
	if *n.CorrectAnswer >= len(n.Options) {
		return invalid("correctAnswer %d is not an index into %d options", *n.CorrectAnswer, len(n.Options))
	}
	return nil
}

// Build materialises the stored record, filling defaults for unset fields.
func (n NewQuizQuestion) Build(id string) QuizQuestion {
	q := QuizQuestion{
		ID:         id,
		Question:   n.Question,
		Options:    slices.Clone(n.Options),
		Category:   n.Category,
		Difficulty: n.Difficulty,
		ImageURL:   nonEmpty(n.ImageURL),
	}
	if n.CorrectAnswer != nil {
		q.CorrectAnswer = *n.CorrectAnswer
	}
	if q.Difficulty == "" {
		q.Difficulty = DifficultyEasy
	}
	return q
}

// QuizQuestionPatch lists the question fields an update may replace.
// Nil fields are left untouched.
type QuizQuestionPatch struct {
	Question      *string  `json:"question" validate:"omitempty,min=1"`
	Options       []string `json:"options" validate:"omitempty,len=4,dive,required"`
	CorrectAnswer *int     `json:"correctAnswer" validate:"omitempty,min=0"`
	Category      *string  `json:"category" validate:"omitempty,oneof=plastic glass organic ewaste"`
	Difficulty    *string  `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	ImageURL      *string  `json:"imageUrl"`
}

// Validate checks every supplied field.
func (p QuizQuestionPatch) Validate() error {
	return check(p)
}

// Apply merges the supplied fields over q.
func (p QuizQuestionPatch) Apply(q QuizQuestion) QuizQuestion {
	q = q.Clone()
	if p.Question != nil {
		q.Question = *p.Question
	}
	if p.Options != nil {
		q.Options = slices.Clone(p.Options)
	}
	if p.CorrectAnswer != nil {
		q.CorrectAnswer = *p.CorrectAnswer
	}
	if p.Category != nil {
		q.Category = *p.Category
	}
	if p.Difficulty != nil {
		q.Difficulty = *p.Difficulty
	}
	if p.ImageURL != nil {
		q.ImageURL = nonEmpty(p.ImageURL)
	}
	return q
}

// QuizResult is one completed quiz. Results are append-only.
type QuizResult struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	CorrectAnswers int       `json:"correctAnswers"`
	CompletedAt    time.Time `json:"completedAt"`
}

// NewQuizResult holds the fields a client may set when saving a result.
type NewQuizResult struct {
	UserID         string `json:"userId" validate:"required"`
	Score          *int   `json:"score" validate:"required,min=0"`
	TotalQuestions *int   `json:"totalQuestions" validate:"required,min=0"`
	CorrectAnswers *int   `json:"correctAnswers" validate:"required,min=0"`
}

// Validate checks the insertable result.
func (n NewQuizResult) Validate() error {
	if err := check(n); err != nil {
		return err
	}
	if *n.CorrectAnswers > *n.TotalQuestions {
		return invalid("correctAnswers %d exceeds totalQuestions %d", *n.CorrectAnswers, *n.TotalQuestions)
	}
	return nil
}

// Build materialises the stored record.
func (n NewQuizResult) Build(id string, completedAt time.Time) QuizResult {
	return QuizResult{
		ID:             id,
		UserID:         n.UserID,
		Score:          deref(n.Score),
		TotalQuestions: deref(n.TotalQuestions),
		CorrectAnswers: deref(n.CorrectAnswers),
		CompletedAt:    completedAt,
	}
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// nonEmpty copies s, mapping an empty string to nil.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return cloneString(s)
}
