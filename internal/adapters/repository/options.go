package repository

import "time"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *MemStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// WithClock overrides the time source used for createdAt/completedAt.
func WithClock(now func() time.Time) Option {
	return func(s *MemStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(next func() string) Option {
	return func(s *MemStore) {
		if next != nil {
			s.newID = next
		}
	}
}

// WithLeaderboardSize caps the number of users returned by Leaderboard.
func WithLeaderboardSize(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.leaderboardSize = n
		}
	}
}

// WithResultRetention keeps only the newest n quiz results per user.
// Zero keeps everything.
func WithResultRetention(n int) Option {
	return func(s *MemStore) {
		if n >= 0 {
			s.resultRetention = n
		}
	}
}

// WithSeed toggles loading of the default questions and rules.
func WithSeed(enabled bool) Option {
	return func(s *MemStore) {
		s.seed = enabled
	}
}
