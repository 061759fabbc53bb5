package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akyker20/pga-scraper/internal/logger"
	"github.com/akyker20/pga-scraper/internal/report"
)

var flagExportOut string

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored stats as CSV, one row per round and stat",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	addFilterFlags(cmd)
	cmd.Flags().StringVarP(&flagExportOut, "out", "o", "-", "Output file (- for stdout)")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	q, err := buildQuery()
	if err != nil {
		return err
	}

	perfs, err := queryRecords(cmd.Context(), q)
	if err != nil {
		return err
	}

	if flagExportOut == "" || flagExportOut == "-" {
		return report.WriteCSV(cmd.OutOrStdout(), perfs)
	}

	if err := report.SaveCSV(flagExportOut, perfs); err != nil {
		return err
	}
	logger.Info("Exported records", logger.Fields{"count": len(perfs), "file": flagExportOut})
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(perfs), flagExportOut)
	return nil
}
