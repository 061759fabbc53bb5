// Package report writes performances as flat CSV rows.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/akyker20/pga-scraper/internal/performance"
)

// Row is one (round, stat) value of a performance. Missing values are empty.
type Row struct {
	Player     string `csv:"player"`
	Tournament string `csv:"tournament"`
	StartDate  string `csv:"start_date"`
	Round      string `csv:"round"`
	Stat       string `csv:"stat"`
	Value      string `csv:"value"`
}

// Rows flattens perfs in order, each in display order.
func Rows(perfs []*performance.Performance) []*Row {
	rows := make([]*Row, 0)
	for _, p := range perfs {
		start := p.StartDate.UTC().Format("2006-01-02")
		for _, cell := range performance.Flatten(p) {
			rows = append(rows, &Row{
				Player:     p.PlayerName,
				Tournament: p.TourneyName,
				StartDate:  start,
				Round:      cell.Round,
				Stat:       cell.Stat,
				Value:      formatValue(cell.Value),
			})
		}
	}
	return rows
}

func formatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes the flattened rows of perfs, with a header, to w.
func WriteCSV(w io.Writer, perfs []*performance.Performance) error {
	if err := gocsv.Marshal(Rows(perfs), w); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}

// SaveCSV writes perfs to the file at path, replacing it.
func SaveCSV(path string, perfs []*performance.Performance) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(file, perfs); err != nil {
		file.Close() // nolint:errcheck
		return err
	}
	return file.Close()
}
