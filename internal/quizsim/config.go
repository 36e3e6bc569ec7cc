// Package quizsim drives simulated players against a running EcoSort API.
package quizsim

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// Defaults for a simulation run.
const (
	DefaultBaseURL         = "http://localhost:5000"
	DefaultPlayers         = 100
	DefaultRounds          = 5
	DefaultTimeout         = 30 * time.Second
	DefaultLeaderboardSize = 50
	defaultWorkerFactor    = 2 // multiplier for runtime.NumCPU()

	// pointsPerCorrect is what a simulated player earns per correct answer.
	pointsPerCorrect = 100
)

// Sentinel errors.
var (
	ErrInvalidConfig = errors.New("invalid simulation config")
	ErrUnhealthy     = errors.New("service unhealthy")
	ErrNoQuestions   = errors.New("no quiz questions available")
	ErrPlayersFailed = errors.New("some players failed")
	ErrVerification  = errors.New("leaderboard verification failed")
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL         string        // Base URL of the service
	Players         int           // Number of players to create
	Rounds          int           // Quiz rounds per player
	Workers         int           // Number of concurrent workers
	Timeout         time.Duration // HTTP request timeout
	LeaderboardSize int           // Expected leaderboard cap
	Seed            uint64        // Seed for the answer generator
	Verbose         bool          // Log every round
}

// DefaultConfig returns a Config with the defaults filled in.
func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		Players:         DefaultPlayers,
		Rounds:          DefaultRounds,
		Workers:         runtime.NumCPU() * defaultWorkerFactor,
		Timeout:         DefaultTimeout,
		LeaderboardSize: DefaultLeaderboardSize,
	}
}

// Validate checks that the run is well formed.
func (c Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: base url must not be empty", ErrInvalidConfig)
	case c.Players < 1:
		return fmt.Errorf("%w: players must be positive", ErrInvalidConfig)
	case c.Rounds < 1:
		return fmt.Errorf("%w: rounds must be positive", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case c.LeaderboardSize < 1:
		return fmt.Errorf("%w: leaderboard size must be positive", ErrInvalidConfig)
	}
	return nil
}

// Stats holds run statistics.
type Stats struct {
	PlayersCreated     int
	PlayersFailed      int
	ResultsSaved       int
	ScoreUpdates       int
	LeaderboardEntries int
	TopScore           int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
