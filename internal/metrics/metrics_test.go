package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_Tournament(t *testing.T) {
	r := New()

	r.Tournament(ResultStored)
	r.Tournament(ResultStored)
	r.Tournament(ResultNoData)

	tests := []struct {
		result string
		want   float64
	}{
		{ResultStored, 2},
		{ResultNoData, 1},
		{ResultFetchError, 0},
	}

	for _, tt := range tests {
		t.Run(tt.result, func(t *testing.T) {
			got := testutil.ToFloat64(r.tournaments.WithLabelValues(tt.result))
			if got != tt.want {
				t.Errorf("tournaments{result=%q} = %v, want %v", tt.result, got, tt.want)
			}
		})
	}
}

func TestRecorder_Stored(t *testing.T) {
	r := New()

	r.Stored(3)
	r.Stored(0)
	r.Stored(-2)

	if got := testutil.ToFloat64(r.stored); got != 3 {
		t.Errorf("stored = %v, want 3", got)
	}
}

func TestRecorder_ObserveFetch(t *testing.T) {
	r := New()

	r.ObserveFetch(1500 * time.Millisecond)
	r.ObserveFetch(3 * time.Second)

	if got := testutil.CollectAndCount(r.fetch); got != 1 {
		t.Errorf("CollectAndCount = %d, want 1", got)
	}
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder

	// Must not panic
	r.Tournament(ResultStored)
	r.Stored(1)
	r.ObserveFetch(time.Second)
	r.PlayerFailed()
	if err := r.WriteFile("ignored.prom"); err != nil {
		t.Errorf("WriteFile() on nil recorder = %v", err)
	}
}

func TestRecorder_WriteFile(t *testing.T) {
	r := New()
	r.Tournament(ResultParseError)
	r.Stored(2)

	path := filepath.Join(t.TempDir(), "pga.prom")
	if err := r.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	for _, want := range []string{
		`pga_tournaments_total{result="parse_error"} 1`,
		`pga_performances_stored_total 2`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics file missing %q:\n%s", want, data)
		}
	}
}
