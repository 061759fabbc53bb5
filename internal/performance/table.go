package performance

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// Selectors for the scraped statistics table. The row labels live in a separate
// "titles" table next to the "holder" table that carries the round columns.
const (
	ColumnLabelSelector = ".holder thead tr th"
	RowLabelSelector    = ".titles .table tbody tr td"
	BodyRowSelector     = ".holder table tbody tr"
)

// StatNames is the strokes-gained whitelist, in display order
var StatNames = []string{
	"SG: OFF THE TEE",
	"SG: APPROACH TO THE GREEN",
	"SG: AROUND THE GREEN",
	"SG: PUTTING",
	"SG: TEE TO GREEN",
	"SG: TOTAL",
}

var statSet = func() map[string]bool {
	set := make(map[string]bool, len(StatNames))
	for _, name := range StatNames {
		set[name] = true
	}
	return set
}()

// IsStat reports whether name is a whitelisted statistic.
func IsStat(name string) bool {
	return statSet[name]
}

// Table maps a column label to row label -> raw cell text
type Table map[string]map[string]string

// StructureTable converts a scraped statistics table into a Table.
// Label counts must agree with the table geometry; otherwise an error wrapping
// ErrStructuralMismatch is returned and no partial table is produced.
func StructureTable(html string) (Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing HTML: %v", ErrParse, err)
	}

	var headings []string
	doc.Find(ColumnLabelSelector).Each(func(_ int, sel *goquery.Selection) {
		headings = append(headings, sel.Text())
	})

	var titles []string
	doc.Find(RowLabelSelector).Each(func(_ int, sel *goquery.Selection) {
		titles = append(titles, sel.Text())
	})

	var rows [][]string
	doc.Find(BodyRowSelector).Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cell.Text())
		})
		rows = append(rows, cells)
	})

	if len(rows) != len(titles) {
		return nil, fmt.Errorf("%w: %d row labels for %d rows", ErrStructuralMismatch, len(titles), len(rows))
	}
	for i, cells := range rows {
		if len(cells) != len(headings) {
			return nil, fmt.Errorf("%w: row %q has %d cells for %d columns",
				ErrStructuralMismatch, titles[i], len(cells), len(headings))
		}
	}

	table := make(Table, len(headings))
	for _, heading := range headings {
		table[heading] = make(map[string]string, len(titles))
	}
	for i, cells := range rows {
		for j, text := range cells {
			table[headings[j]][titles[i]] = text
		}
	}
	return table, nil
}

// FilterStats keeps only whitelisted statistics in every column.
func FilterStats(table Table) Table {
	filtered := make(Table, len(table))
	for column, values := range table {
		kept := make(map[string]string)
		for stat, text := range values {
			if IsStat(stat) {
				kept[stat] = text
			}
		}
		filtered[column] = kept
	}
	return filtered
}

// ParseNumbers converts every cell of table to a number with ParseNumber.
func ParseNumbers(table Table) Stats {
	stats := make(Stats, len(table))
	for column, values := range table {
		line := make(map[string]float64, len(values))
		for stat, text := range values {
			line[stat] = ParseNumber(text)
		}
		stats[column] = line
	}
	return stats
}

var numericPrefix = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseNumber reads the leading decimal number of s, ignoring leading whitespace
// and anything after the number. It returns NaN when s has no numeric prefix or
// the number does not fit in a float64.
func ParseNumber(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	prefix := numericPrefix.FindString(s)
	if prefix == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}
