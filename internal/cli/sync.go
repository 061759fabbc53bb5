package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/akyker20/pga-scraper/internal/config"
	"github.com/akyker20/pga-scraper/internal/logger"
	"github.com/akyker20/pga-scraper/internal/warehouse"
)

var flagSyncDryRun bool

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Stream stored stats into BigQuery and publish a Pub/Sub notification",
		Args:  cobra.NoArgs,
		RunE:  runSync,
	}
	addFilterFlags(cmd)
	cmd.Flags().BoolVar(&flagSyncDryRun, "dry-run", false, "Count the rows that would be synced without sending them")
	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if !flagSyncDryRun && cfg.BigQueryProject == "" {
		return fmt.Errorf("%w: bigquery_project is required for sync", config.ErrInvalidConfig)
	}

	q, err := buildQuery()
	if err != nil {
		return err
	}
	perfs, err := queryRecords(ctx, q)
	if err != nil {
		return err
	}

	if flagSyncDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "Dry run: %d rows would be synced\n", len(warehouse.Rows(perfs)))
		return nil
	}
	if len(perfs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), NoStatsMessage)
		return nil
	}

	wh, err := warehouse.New(ctx, cfg.BigQueryProject, cfg.BigQueryDataset)
	if err != nil {
		return err
	}
	defer wh.Close() // nolint:errcheck

	rows, err := wh.InsertPerformances(ctx, perfs)
	if err != nil {
		return err
	}
	logger.Info("Synced records", logger.Fields{
		"records": len(perfs),
		"rows":    rows,
		"dataset": cfg.BigQueryDataset,
	})

	if cfg.PubSubTopic != "" {
		n := warehouse.NewNotification(perfs, rows, time.Now())
		if err := warehouse.Publish(ctx, cfg.BigQueryProject, cfg.PubSubTopic, n); err != nil {
			return err
		}
		logger.Debug("Published sync notification", logger.Fields{"topic": cfg.PubSubTopic})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Synced %d rows from %d records\n", rows, len(perfs))
	return nil
}
