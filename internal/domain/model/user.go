package model

import (
	"strings"
	"time"
)

// pointsPerLevel is the score span of one level.
const pointsPerLevel = 1000

// User is a quiz player as stored by the repository.
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Score            int       `json:"score"`
	QuizzesCompleted int       `json:"quizzesCompleted"`
	BestStreak       int       `json:"bestStreak"`
	Level            int       `json:"level"`
	CreatedAt        time.Time `json:"createdAt"`
}

// NewUser holds the fields a client may set when creating a user.
type NewUser struct {
	Username string `json:"username" validate:"required,max=64"`
}

// Validate normalises and checks the insertable user.
func (n *NewUser) Validate() error {
	n.Username = strings.TrimSpace(n.Username)
	return check(n)
}

// ScoreUpdate carries the progress fields replaced by a score update.
type ScoreUpdate struct {
	Score            *int `json:"score" validate:"required,min=0"`
	QuizzesCompleted *int `json:"quizzesCompleted" validate:"required,min=0"`
	BestStreak       *int `json:"bestStreak" validate:"required,min=0"`
}

// Validate checks that every progress field is present and non-negative.
func (u ScoreUpdate) Validate() error {
	return check(u)
}

// LevelForScore derives a player's level: floor(score/1000)+1.
// Negative scores are treated as zero.
func LevelForScore(score int) int {
	if score < 0 {
		score = 0
	}
	return score/pointsPerLevel + 1
}

// UserStats summarises a player's saved quiz results.
type UserStats struct {
	TotalQuizzes        int `json:"totalQuizzes"`
	AverageScore        int `json:"averageScore"`
	BestScore           int `json:"bestScore"`
	CurrentStreak       int `json:"currentStreak"`
	TotalCorrectAnswers int `json:"totalCorrectAnswers"`
}

// StatsFor computes statistics over results; it returns zeros when there are none.
func StatsFor(u User, results []QuizResult) UserStats {
	if len(results) == 0 {
		return UserStats{}
	}
	var sum, best, correct int
	for i, r := range results {
		sum += r.Score
		correct += r.CorrectAnswers
		if i == 0 || r.Score > best {
			best = r.Score
		}
	}
	// Round half away from zero like Math.round for non-negative averages.
	avg := (2*sum + len(results)) / (2 * len(results))
	return UserStats{
		TotalQuizzes:        len(results),
		AverageScore:        avg,
		BestScore:           best,
		CurrentStreak:       u.BestStreak,
		TotalCorrectAnswers: correct,
	}
}
