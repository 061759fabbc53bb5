package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/akyker20/pga-scraper/internal/config"
	"github.com/akyker20/pga-scraper/internal/logger"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig  string
	flagVerbose bool

	// cfg is loaded once per invocation, before any subcommand runs
	cfg *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pga-stats",
		Short: "Scrape and query strokes-gained statistics of PGA TOUR players",
		Long: `A CLI tool that scrapes per-round strokes-gained statistics for the
players listed in a players file, stores one record per player and tournament,
and prints, exports or syncs the stored records.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file (default: $PGA_CONFIG)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(newPullCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newSyncCmd())

	return cmd
}

// loadConfig reads configuration and installs the default logger
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(loaded.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.NewWithFormat(level, logger.Format(loaded.LogFormat), cmd.ErrOrStderr()))

	logger.Debug("Loaded configuration", logger.Fields{
		"db_driver":    loaded.DBDriver,
		"players_file": loaded.PlayersFile,
		"concurrency":  loaded.Concurrency,
	})

	cfg = loaded
	return nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
