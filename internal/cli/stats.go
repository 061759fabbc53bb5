package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akyker20/pga-scraper/internal/logger"
	"github.com/akyker20/pga-scraper/internal/performance"
	"github.com/akyker20/pga-scraper/internal/storage"
)

var (
	flagStatsFormat  string
	flagStatsExclude string
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print stored strokes-gained stats",
		Long: `Print stored records, one table of rounds by stat per player and tournament.

Examples:
  pga-stats stats --player "Jordan Spieth" --after 2018-01-01
  pga-stats stats --sort-by "Round 1.SG:TOTAL" --sort-order -1 --limit 5
  pga-stats stats --tournament "Masters Tournament" --exclude SG:TTG,SG:ATG`,
		Args: cobra.NoArgs,
		RunE: runStats,
	}
	addFilterFlags(cmd)
	cmd.Flags().StringVar(&flagStatsFormat, "format", "text", "Output format (text, json or csv)")
	cmd.Flags().StringVar(&flagStatsExclude, "exclude", "",
		"Comma-separated stats to hide from the table (SG:OTT, SG:APPTG, SG:ATG, SG:PUTT, SG:TTG, SG:TOTAL)")
	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	format, err := ParseOutputFormat(flagStatsFormat)
	if err != nil {
		return err
	}
	exclude, err := ParseExclude(flagStatsExclude)
	if err != nil {
		return err
	}
	q, err := buildQuery()
	if err != nil {
		return err
	}

	perfs, err := queryRecords(cmd.Context(), q)
	if err != nil {
		return err
	}
	return WriteOutput(cmd.OutOrStdout(), perfs, format, exclude)
}

// queryRecords opens the configured store and runs q against it
func queryRecords(ctx context.Context, q storage.Query) ([]*performance.Performance, error) {
	store, err := storage.New(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close() // nolint:errcheck

	perfs, err := store.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	logger.Debug("Queried records", logger.Fields{
		"count":   len(perfs),
		"sort_by": q.SortBy,
		"player":  q.Player,
	})
	return perfs, nil
}
