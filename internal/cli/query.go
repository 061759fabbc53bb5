package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/akyker20/pga-scraper/internal/storage"
)

var (
	flagPlayer    string
	flagTourney   string
	flagBefore    string
	flagAfter     string
	flagLimit     int
	flagSortBy    string
	flagSortOrder string
)

// dateLayouts are accepted by --before and --after
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/06",
	"01/02/2006",
}

// addFilterFlags registers the record filters shared by stats, export and sync
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagPlayer, "player", "", "Only records of this player (exact name)")
	cmd.Flags().StringVar(&flagTourney, "tournament", "", "Only records of this tournament (exact name)")
	cmd.Flags().StringVar(&flagBefore, "before", "", "Only tournaments starting on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagAfter, "after", "", "Only tournaments starting on or after this date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&flagLimit, "limit", 0, "Maximum number of records (0 for no limit)")
	cmd.Flags().StringVar(&flagSortBy, "sort-by", storage.SortStartDate,
		"startDate, playerName, tourneyName or a stat path such as \"Round 1.SG:TOTAL\"")
	cmd.Flags().StringVar(&flagSortOrder, "sort-order", "1", "1 or asc for ascending, -1 or desc for descending")
}

// buildQuery turns the filter flags into a storage query
func buildQuery() (storage.Query, error) {
	q := storage.Query{
		Player:  strings.TrimSpace(flagPlayer),
		Tourney: strings.TrimSpace(flagTourney),
		Limit:   flagLimit,
		SortBy:  resolveSortField(flagSortBy),
	}

	if flagLimit < 0 {
		return q, fmt.Errorf("invalid limit %d: must not be negative", flagLimit)
	}

	var err error
	if q.Before, err = parseDateFlag("before", flagBefore); err != nil {
		return q, err
	}
	if q.After, err = parseDateFlag("after", flagAfter); err != nil {
		return q, err
	}
	if q.Descending, err = parseSortOrder(flagSortOrder); err != nil {
		return q, err
	}
	return q, nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --%s date %q (use YYYY-MM-DD)", name, value)
}
