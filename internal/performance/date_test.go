package performance

import (
	"errors"
	"testing"
	"time"
)

func TestParseStartDate(t *testing.T) {
	tests := []struct {
		name      string
		dateRange string
		wantYear  int
		wantMonth time.Month
		wantDay   int
		wantErr   bool
	}{
		{
			name:      "Single month range",
			dateRange: "JANUARY 4-7, 2018",
			wantYear:  2018,
			wantMonth: time.January,
			wantDay:   4,
		},
		{
			name:      "Cross month range",
			dateRange: "NOVEMBER 28 - DECEMBER 1, 2018",
			wantYear:  2018,
			wantMonth: time.November,
			wantDay:   28,
		},
		{
			name:      "Zero padded day",
			dateRange: "MARCH 08-11, 2019",
			wantYear:  2019,
			wantMonth: time.March,
			wantDay:   8,
		},
		{
			name:      "Mixed case with surrounding whitespace",
			dateRange: "  October 12-15, 2017\n",
			wantYear:  2017,
			wantMonth: time.October,
			wantDay:   12,
		},
		{
			name:      "Missing year",
			dateRange: "JANUARY 4-7",
			wantErr:   true,
		},
		{
			name:      "Unsupported year",
			dateRange: "JANUARY 4-7, 2021",
			wantErr:   true,
		},
		{
			name:      "Year inside a longer number",
			dateRange: "JANUARY 4-7, 20185",
			wantErr:   true,
		},
		{
			name:      "Missing month and day",
			dateRange: "2018",
			wantErr:   true,
		},
		{
			name:      "Not a month name",
			dateRange: "ROUND 12, 2018",
			wantErr:   true,
		},
		{
			name:      "Empty string",
			dateRange: "",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStartDate(tt.dateRange)
			if tt.wantErr {
				if !errors.Is(err, ErrParse) {
					t.Errorf("ParseStartDate(%q) error = %v, expected ErrParse", tt.dateRange, err)
				}
				if !got.IsZero() {
					t.Errorf("ParseStartDate(%q) = %v, expected zero time", tt.dateRange, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStartDate(%q) unexpected error: %v", tt.dateRange, err)
			}
			if got.Year() != tt.wantYear || got.Month() != tt.wantMonth || got.Day() != tt.wantDay {
				t.Errorf("ParseStartDate(%q) = %v, expected %d-%02d-%02d",
					tt.dateRange, got, tt.wantYear, tt.wantMonth, tt.wantDay)
			}
			if got.Location() != time.UTC {
				t.Errorf("ParseStartDate(%q) location = %v, expected UTC", tt.dateRange, got.Location())
			}
		})
	}
}

func TestISOString(t *testing.T) {
	start, err := ParseStartDate("JANUARY 4-7, 2018")
	if err != nil {
		t.Fatalf("ParseStartDate failed: %v", err)
	}
	if got := ISOString(start); got != "2018-01-04T00:00:00.000Z" {
		t.Errorf("ISOString() = %q, expected %q", got, "2018-01-04T00:00:00.000Z")
	}
}
