package worker

import (
	"github.com/ecosort/ecosort/pkg/logger"
)

// Option applies a configuration option to a Pool.
type Option func(*config)

type config struct {
	name   string
	logger logger.Logger
}

// WithName sets the pool name used for worker names and logging.
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(logger logger.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
