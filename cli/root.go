// Package cli wires configuration, logging and the pipeline stages into the
// nba-scraper command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"nba-boxscore-scraper/config"
	"nba-boxscore-scraper/utils"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// app is the state shared by every subcommand of one invocation
type app struct {
	cfg     *config.Config
	logger  *utils.Logger
	runID   string
	verbose bool
}

// NewRootCmd creates the root command with its subcommands. Flags default
// to the environment-derived configuration.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: config.Load()}

	cmd := &cobra.Command{
		Use:   "nba-scraper",
		Short: "Scrape NBA box scores and build a per-team game dataset",
		Long: `Downloads basketball-reference.com schedules and box scores through a
headless browser, caches them on disk, and turns the cached pages into a
flat CSV with one row per team per game.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := cmd.PersistentFlags()
	flags.BoolVar(&a.verbose, "verbose", false, "Enable debug logging")
	flags.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "Log level: debug, info, warn or error")
	flags.StringVar(&a.cfg.DataDir, "data-dir", a.cfg.DataDir, "Root of the page cache")
	flags.StringVar(&a.cfg.StandingsDir, "standings-dir", a.cfg.StandingsDir, "Cache directory for schedule pages")
	flags.StringVar(&a.cfg.ScoresDir, "scores-dir", a.cfg.ScoresDir, "Cache directory for box score pages")

	cmd.AddCommand(newScrapeCmd(a), newParseCmd(a))
	return cmd
}

// setup finalizes configuration and creates the run's logger
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		if !flags.Changed("standings-dir") && os.Getenv("STANDINGS_DIR") == "" {
			a.cfg.StandingsDir = filepath.Join(a.cfg.DataDir, "standings")
		}
		if !flags.Changed("scores-dir") && os.Getenv("SCORES_DIR") == "" {
			a.cfg.ScoresDir = filepath.Join(a.cfg.DataDir, "scores")
		}
	}

	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.runID = uuid.NewString()
	logger := utils.NewLogger()
	if a.verbose {
		logger.SetLevel("debug")
	} else {
		logger.SetLevel(a.cfg.LogLevel)
	}
	a.logger = logger.With("run_id", a.runID)
	return nil
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}
