package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ecosort/ecosort/internal/quizsim"
	"github.com/ecosort/ecosort/pkg/logger"
	"github.com/spf13/cobra"
)

// Default configuration constants.
const (
	defaultRunTimeout  = 10 * time.Minute
	logFilePermission  = 0o600
	defaultLogFormat   = logger.FormatText
	defaultLogLevelArg = "info"
)

// runFunc executes a simulation; swapped out in tests.
type runFunc func(ctx context.Context, cfg quizsim.Config) (quizsim.Stats, error)

func main() {
	if err := newRootCommand(quizsim.Run).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(run runFunc) *cobra.Command {
	cfg := quizsim.DefaultConfig()
	cfg.Seed = uint64(time.Now().UnixNano())
	var (
		runTimeout time.Duration
		logFile    string
		logFormat  string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "quiz-sim",
		Short: "Simulate players against an EcoSort server",
		Long: `quiz-sim creates players over the REST API, plays quiz rounds for each of
them concurrently, then checks that the leaderboard is sorted, capped and
consistent with the scores it produced.`,
		Example: `  quiz-sim --players 500 --rounds 3 --workers 32
  quiz-sim --url http://localhost:8080 --verbose --log sim.log`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := setupLogging(cmd.ErrOrStderr(), logFile, logFormat, logLevel); err != nil {
				return err
			}
			if cfg.Verbose && logLevel == defaultLogLevelArg {
				_ = logger.SetLevelString("debug")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
			defer cancel()

			if _, err := run(ctx, cfg); err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "Base URL of the service")
	flags.IntVar(&cfg.Players, "players", cfg.Players, "Number of players to create")
	flags.IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "Quiz rounds per player")
	flags.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of concurrent workers")
	flags.IntVar(&cfg.LeaderboardSize, "leaderboard-size", cfg.LeaderboardSize, "Leaderboard cap the server is expected to apply")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	flags.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for the random answers (default: current time)")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every round")
	flags.DurationVar(&runTimeout, "run-timeout", defaultRunTimeout, "Upper bound for the whole run")
	flags.StringVar(&logFile, "log", "", "Also write logs to this file")
	flags.StringVar(&logFormat, "log-format", defaultLogFormat, "Log format: text or json")
	flags.StringVar(&logLevel, "log-level", defaultLogLevelArg, "Log level: debug, info, warn or error")

	return cmd
}

// setupLogging configures logging to stderr and, when logFile is set, to the file too.
func setupLogging(stderr io.Writer, logFile, format, level string) error {
	out := stderr
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out = io.MultiWriter(stderr, file)
	}
	if err := logger.Init(logger.WithFormat(format), logger.WithWriter(out)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := logger.SetLevelString(level); err != nil {
		return fmt.Errorf("failed to set log level: %w", err)
	}
	return nil
}
