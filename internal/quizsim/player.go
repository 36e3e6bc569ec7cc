package quizsim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/ecosort/ecosort/internal/domain/model"
	"github.com/ecosort/ecosort/pkg/logger"
	"github.com/google/uuid"
)

// outcome is what a player ended the run with, as tracked by the simulator.
type outcome struct {
	ID         string
	Username   string
	Score      int
	Quizzes    int
	BestStreak int
}

// simulation holds the state shared by the player jobs.
type simulation struct {
	cfg       Config
	client    *client
	questions []model.QuizQuestion
	log       logger.Logger

	mu       sync.Mutex
	outcomes map[string]outcome

	resultsSaved atomic.Int64
	scoreUpdates atomic.Int64
}

func newSimulation(cfg Config, c *client, questions []model.QuizQuestion, log logger.Logger) *simulation {
	return &simulation{
		cfg:       cfg,
		client:    c,
		questions: questions,
		log:       log,
		outcomes:  make(map[string]outcome, cfg.Players),
	}
}

// play creates player n and plays every round for it. Each round answers all
// questions at random, saves the result and replaces the cumulative totals.
func (s *simulation) play(ctx context.Context, n int) error {
	rng := rand.New(rand.NewPCG(s.cfg.Seed, uint64(n)))
	username := "sim-" + uuid.NewString()[:8]

	u, err := s.client.createUser(ctx, username)
	if err != nil {
		return fmt.Errorf("player %d: %w", n, err)
	}

	o := outcome{ID: u.ID, Username: u.Username}
	streak := 0
	for round := 1; round <= s.cfg.Rounds; round++ {
		correct := 0
		for _, q := range s.questions {
			if len(q.Options) == 0 {
				continue
			}
			if rng.IntN(len(q.Options)) == q.CorrectAnswer {
				correct++
				streak++
				o.BestStreak = max(o.BestStreak, streak)
			} else {
				streak = 0
			}
		}
		score := correct * pointsPerCorrect
		total := len(s.questions)

		if err := s.client.saveResult(ctx, model.NewQuizResult{
			UserID:         u.ID,
			Score:          &score,
			TotalQuestions: &total,
			CorrectAnswers: &correct,
		}); err != nil {
			return fmt.Errorf("player %d round %d: %w", n, round, err)
		}
		s.resultsSaved.Add(1)

		o.Score += score
		o.Quizzes = round
		updated, err := s.client.updateScore(ctx, u.ID, model.ScoreUpdate{
			Score:            &o.Score,
			QuizzesCompleted: &o.Quizzes,
			BestStreak:       &o.BestStreak,
		})
		if err != nil {
			return fmt.Errorf("player %d round %d: %w", n, round, err)
		}
		s.scoreUpdates.Add(1)

		if updated.Score != o.Score || updated.Level != model.LevelForScore(o.Score) {
			return fmt.Errorf("player %d round %d: server has score %d level %d, want %d level %d",
				n, round, updated.Score, updated.Level, o.Score, model.LevelForScore(o.Score))
		}
		if s.cfg.Verbose {
			s.log.Debug(ctx, "round played",
				logger.String("player", username),
				logger.Int("round", round),
				logger.Int("correct", correct),
				logger.Int("score", o.Score),
			)
		}
	}

	s.mu.Lock()
	s.outcomes[o.ID] = o
	s.mu.Unlock()
	return nil
}

// expected returns the final score of every player that finished.
func (s *simulation) expected() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.outcomes))
	for id, o := range s.outcomes {
		out[id] = o.Score
	}
	return out
}
