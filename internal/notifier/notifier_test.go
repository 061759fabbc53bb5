package notifier

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/akyker20/pga-scraper/internal/performance"
)

func TestFormatPost(t *testing.T) {
	tests := []struct {
		name        string
		perf        *performance.Performance
		contains    []string
		notContains []string
	}{
		{
			name: "complete record",
			perf: &performance.Performance{
				PlayerName:  "Jordan Spieth",
				TourneyName: "Masters Tournament",
				StartDate:   time.Date(2018, time.April, 5, 0, 0, 0, 0, time.UTC),
				Stats: performance.Stats{
					"Round 1": {"SG: TOTAL": 1.5},
					"Round 2": {"SG: TOTAL": -0.25},
					"Total":   {"SG: TOTAL": 1.25},
				},
			},
			contains: []string{
				"Jordan Spieth",
				"Masters Tournament",
				"Apr 05 2018",
				"Round 1 +1.5",
				"Round 2 -0.25",
				"Total +1.25",
				"#PGATOUR",
			},
		},
		{
			name: "missing total",
			perf: &performance.Performance{
				PlayerName:  "Jon Rahm",
				TourneyName: "The Open",
				Stats: performance.Stats{
					"Round 1": {"SG: TOTAL": math.NaN()},
					"Round 2": {"SG: PUTTING": 0.5},
				},
			},
			contains:    []string{"Jon Rahm", "The Open", "Round 1 -"},
			notContains: []string{"📅", "Round 2"},
		},
		{
			name: "no stats",
			perf: &performance.Performance{
				PlayerName:  "Tiger Woods",
				TourneyName: "Genesis Open",
			},
			contains:    []string{"Tiger Woods", "Genesis Open"},
			notContains: []string{"📊"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := FormatPost(tt.perf)
			if n := utf8.RuneCountInString(post); n > MaxPostLength {
				t.Errorf("post length = %d, want <= %d", n, MaxPostLength)
			}
			for _, want := range tt.contains {
				if !strings.Contains(post, want) {
					t.Errorf("post missing %q:\n%s", want, post)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(post, unwanted) {
					t.Errorf("post should not contain %q:\n%s", unwanted, post)
				}
			}
		})
	}
}

func TestFormatPost_Truncates(t *testing.T) {
	perf := &performance.Performance{
		PlayerName:  "Jordan Spieth",
		TourneyName: strings.Repeat("Very Long Tournament Name ", 20),
	}

	post := FormatPost(perf)
	if n := utf8.RuneCountInString(post); n != MaxPostLength {
		t.Errorf("post length = %d, want %d", n, MaxPostLength)
	}
	if !strings.HasSuffix(post, "...") {
		t.Errorf("truncated post should end with ellipsis: %q", post)
	}
}

func TestDryRunNotifier(t *testing.T) {
	var buf bytes.Buffer
	perfs := []*performance.Performance{
		{PlayerName: "Jordan Spieth", TourneyName: "Masters Tournament"},
		{PlayerName: "Jon Rahm", TourneyName: "The Open"},
	}

	if err := NewDryRunNotifier(&buf).Notify(context.Background(), perfs); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"--- Post 1/2 ---", "--- Post 2/2 ---", "Masters Tournament", "The Open", "(Length: "} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNewTwitterNotifier(t *testing.T) {
	tests := []struct {
		name    string
		creds   Credentials
		wantErr bool
	}{
		{"complete", Credentials{"key", "secret", "token", "token-secret"}, false},
		{"missing access secret", Credentials{"key", "secret", "token", ""}, true},
		{"empty", Credentials{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewTwitterNotifier(tt.creds)
			if tt.wantErr {
				if !errors.Is(err, ErrMissingCredentials) {
					t.Errorf("error = %v, want ErrMissingCredentials", err)
				}
				return
			}
			if err != nil || n == nil {
				t.Errorf("NewTwitterNotifier() = %v, %v", n, err)
			}
		})
	}
}
