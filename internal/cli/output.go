package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/akyker20/pga-scraper/internal/performance"
	"github.com/akyker20/pga-scraper/internal/report"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
)

// NoStatsMessage is printed when a query matches no records
const NoStatsMessage = "Could not find any stats. Check your command"

// StatAbbreviations maps each tracked stat to its short table label
var StatAbbreviations = map[string]string{
	"SG: OFF THE TEE":           "SG:OTT",
	"SG: APPROACH TO THE GREEN": "SG:APPTG",
	"SG: AROUND THE GREEN":      "SG:ATG",
	"SG: PUTTING":               "SG:PUTT",
	"SG: TEE TO GREEN":          "SG:TTG",
	"SG: TOTAL":                 "SG:TOTAL",
}

var statByAbbreviation = func() map[string]string {
	m := make(map[string]string, len(StatAbbreviations))
	for name, abbr := range StatAbbreviations {
		m[abbr] = name
	}
	return m
}()

// now is swapped in tests
var now = time.Now

// ParseOutputFormat validates a --format value
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown format: %s (valid: text, json, csv)", s)
}

// ParseExclude splits a comma-separated list of stat abbreviations and
// checks every entry against StatAbbreviations.
func ParseExclude(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var excluded []string
	var invalid []string
	for _, part := range strings.Split(s, ",") {
		abbr := strings.ToUpper(strings.TrimSpace(part))
		if abbr == "" {
			continue
		}
		if _, ok := statByAbbreviation[abbr]; !ok {
			invalid = append(invalid, part)
			continue
		}
		excluded = append(excluded, abbr)
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("invalid exclude stats %q, valid: %s",
			strings.Join(invalid, ","), strings.Join(validAbbreviations(), ", "))
	}
	return excluded, nil
}

func validAbbreviations() []string {
	abbrs := make([]string, 0, len(performance.StatNames))
	for _, name := range performance.StatNames {
		abbrs = append(abbrs, StatAbbreviations[name])
	}
	return abbrs
}

// WriteOutput writes the records in the specified format. Excluded stats
// only affect the text table.
func WriteOutput(w io.Writer, perfs []*performance.Performance, format OutputFormat, exclude []string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, perfs)
	case FormatCSV:
		return report.WriteCSV(w, perfs)
	case FormatText:
		return writeText(w, perfs, exclude)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, perfs []*performance.Performance) error {
	if perfs == nil {
		perfs = []*performance.Performance{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(perfs)
}

func writeText(w io.Writer, perfs []*performance.Performance, exclude []string) error {
	if len(perfs) == 0 {
		fmt.Fprintln(w, NoStatsMessage)
		return nil
	}

	skip := make(map[string]bool, len(exclude))
	for _, abbr := range exclude {
		skip[abbr] = true
	}

	for _, p := range perfs {
		if err := writePerformance(w, p, skip); err != nil {
			return err
		}
	}
	return nil
}

// writePerformance prints the header lines and the round-by-stat table of one record
func writePerformance(w io.Writer, p *performance.Performance, skip map[string]bool) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, p.PlayerName)
	fmt.Fprintln(w, p.TourneyName)
	fmt.Fprintf(w, "%s (%s)\n", p.StartDate.UTC().Format("01/02/06"), timeSince(p.StartDate, now()))

	rounds := p.Stats.Rounds()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(rounds, "\t"))

	for _, stat := range statRows(p.Stats) {
		label := stat
		if abbr, ok := StatAbbreviations[stat]; ok {
			if skip[abbr] {
				continue
			}
			label = abbr
		}

		cells := make([]string, 0, len(rounds))
		for _, round := range rounds {
			v, ok := p.Stats.Value(round, stat)
			cells = append(cells, formatCell(v, ok))
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", label, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// statRows lists the stats present in any round: tracked stats in display
// order, then anything else alphabetically.
func statRows(stats performance.Stats) []string {
	present := make(map[string]bool)
	for _, values := range stats {
		for name := range values {
			present[name] = true
		}
	}

	rows := make([]string, 0, len(present))
	for _, name := range performance.StatNames {
		if present[name] {
			rows = append(rows, name)
			delete(present, name)
		}
	}
	rest := make([]string, 0, len(present))
	for name := range present {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	return append(rows, rest...)
}

func formatCell(v float64, ok bool) string {
	if !ok || math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// timeSince renders how long ago t was, relative to ref
func timeSince(t, ref time.Time) string {
	d := ref.Sub(t)
	future := d < 0
	if future {
		d = -d
	}

	days := int(d.Hours() / 24)
	var s string
	switch {
	case days == 0:
		return "today"
	case days == 1:
		s = "1 day"
	case days < 45:
		s = fmt.Sprintf("%d days", days)
	case days < 345:
		months := (days + 15) / 30
		if months <= 1 {
			s = "1 month"
		} else {
			s = fmt.Sprintf("%d months", months)
		}
	default:
		years := (days + 182) / 365
		if years <= 1 {
			s = "1 year"
		} else {
			s = fmt.Sprintf("%d years", years)
		}
	}

	if future {
		return "in " + s
	}
	return s + " ago"
}
