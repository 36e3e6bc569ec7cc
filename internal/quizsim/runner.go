package quizsim

import (
	"context"
	"fmt"
	"time"

	"github.com/ecosort/ecosort/internal/adapters/mq/queue"
	"github.com/ecosort/ecosort/internal/adapters/mq/worker"
	"github.com/ecosort/ecosort/pkg/logger"
)

// Run executes a complete simulation against cfg.BaseURL.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	stats := Stats{StartTime: time.Now()}
	if err := cfg.Validate(); err != nil {
		return stats, err
	}
	log := logger.Named("quizsim")

	log.Info(ctx, "starting quiz simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("players", cfg.Players),
		logger.Int("rounds", cfg.Rounds),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	c := newClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := c.health(ctx); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}

	// Step 2: Fetch the question pool every player answers
	questions, err := c.questions(ctx)
	if err != nil {
		return stats, fmt.Errorf("fetch questions: %w", err)
	}
	if len(questions) == 0 {
		return stats, ErrNoQuestions
	}
	log.Info(ctx, "questions loaded", logger.Int("count", len(questions)))

	// Step 3: Play every player concurrently
	sim := newSimulation(cfg, c, questions, log)
	q := queue.NewInMemoryQueue[int](queue.WithCapacity(cfg.Workers * 2))
	pool := worker.NewPool[int](cfg.Workers, q, sim.play, worker.WithName("player"), worker.WithLogger(log))
	pool.Start(ctx)

	for n := 0; n < cfg.Players; n++ {
		if err := q.Put(ctx, n); err != nil {
			_ = q.Close()
			pool.Wait()
			return stats, fmt.Errorf("schedule players: %w", err)
		}
	}
	_ = q.Close()
	poolStats := pool.Wait()

	stats.PlayersCreated = int(poolStats.Processed)
	stats.PlayersFailed = int(poolStats.Failed)
	stats.ResultsSaved = int(sim.resultsSaved.Load())
	stats.ScoreUpdates = int(sim.scoreUpdates.Load())

	// Step 4: Verify the leaderboard
	board, err := c.leaderboard(ctx)
	if err != nil {
		return stats, fmt.Errorf("fetch leaderboard: %w", err)
	}
	stats.LeaderboardEntries = len(board)
	if len(board) > 0 {
		stats.TopScore = board[0].Score
	}
	verifyErr := verifyLeaderboard(board, cfg.LeaderboardSize, sim.expected())

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if verifyErr != nil {
		return stats, verifyErr
	}
	if stats.PlayersFailed > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrPlayersFailed, stats.PlayersFailed, cfg.Players)
	}
	log.Info(ctx, "simulation completed successfully")
	return stats, nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats Stats) {
	var roundsPerSecond float64
	if stats.Duration > 0 {
		roundsPerSecond = float64(stats.ResultsSaved) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("playersCreated", stats.PlayersCreated),
		logger.Int("playersFailed", stats.PlayersFailed),
		logger.Int("resultsSaved", stats.ResultsSaved),
		logger.Int("scoreUpdates", stats.ScoreUpdates),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.Int("topScore", stats.TopScore),
		logger.Duration("duration", stats.Duration),
		logger.Float64("roundsPerSecond", roundsPerSecond),
	)
}
