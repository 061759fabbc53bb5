package cli

import (
	"fmt"
	"strings"

	"github.com/akyker20/pga-scraper/internal/storage"
)

// parseSortOrder reports whether order asks for a descending sort
func parseSortOrder(order string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "1", "asc":
		return false, nil
	case "-1", "desc":
		return true, nil
	}
	return false, fmt.Errorf("invalid sort order %q (valid: 1 (asc), -1 (desc))", order)
}

// resolveSortField expands stat abbreviations in a stat path, so
// "Round 1.SG:TOTAL" sorts like "Round 1.SG: TOTAL". Record fields and
// unknown stats pass through unchanged.
func resolveSortField(field string) string {
	field = strings.TrimSpace(field)
	switch field {
	case storage.SortStartDate, storage.SortPlayerName, storage.SortTourneyName, "":
		return field
	}

	path := strings.TrimPrefix(field, "stats.")
	round, stat, ok := strings.Cut(path, ".")
	if !ok {
		return field
	}
	if name, ok := statByAbbreviation[strings.ToUpper(stat)]; ok {
		stat = name
	}
	return round + "." + stat
}
