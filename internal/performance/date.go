package performance

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// SupportedYears lists the seasons the date-range parser recognizes.
var SupportedYears = []string{"2017", "2018", "2019"}

// ISOLayout renders a start date as an ISO-8601 timestamp with milliseconds
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	yearPattern     = regexp.MustCompile(`\b(` + strings.Join(SupportedYears, "|") + `)\b`)
	monthDayPattern = regexp.MustCompile(`^(\w+) (\d{1,2})\b`)
)

// ParseStartDate extracts the first day of a tournament from its date-range text.
// Supports formats: "JANUARY 4-7, 2018" and "NOVEMBER 28 - DECEMBER 1, 2018".
// The result is midnight UTC. Errors wrap ErrParse.
func ParseStartDate(dateRange string) (time.Time, error) {
	dateRange = strings.TrimSpace(dateRange)

	yearMatch := yearPattern.FindStringSubmatch(dateRange)
	if yearMatch == nil {
		return time.Time{}, fmt.Errorf("%w: could not parse year from date range %q", ErrParse, dateRange)
	}

	monthDayMatch := monthDayPattern.FindStringSubmatch(dateRange)
	if monthDayMatch == nil {
		return time.Time{}, fmt.Errorf("%w: could not parse month and day from date range %q", ErrParse, dateRange)
	}

	day := monthDayMatch[2]
	if len(day) == 1 {
		day = "0" + day
	}

	composed := fmt.Sprintf("%s %s, %s", monthDayMatch[1], day, yearMatch[1])
	t, err := time.Parse("January 02, 2006", composed)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrParse, composed, err)
	}
	return t.UTC(), nil
}

// ISOString formats t as an ISO-8601 UTC timestamp, e.g. 2018-01-04T00:00:00.000Z.
func ISOString(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}
