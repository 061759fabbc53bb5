// Package metrics records Prometheus metrics for scraping runs.
//
// A Recorder owns its registry so a pull can dump exactly what it did to a
// node-exporter textfile without the default Go runtime collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Tournament outcomes used as the result label.
const (
	ResultStored     = "stored"
	ResultNoData     = "no_data"
	ResultFetchError = "fetch_error"
	ResultParseError = "parse_error"
	ResultDuplicate  = "duplicate"
)

const namespace = "pga"

// Recorder collects pull metrics. A nil *Recorder is a no-op.
type Recorder struct {
	registry *prometheus.Registry

	tournaments *prometheus.CounterVec
	stored      prometheus.Counter
	fetch       prometheus.Histogram
	players     prometheus.Counter
}

// New creates a Recorder with a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		tournaments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournaments_total",
			Help:      "Tournaments processed, by result.",
		}, []string{"result"}),
		stored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "performances_stored_total",
			Help:      "Performance records inserted into the store.",
		}),
		fetch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tournament_fetch_seconds",
			Help:      "Time spent fetching a single tournament's statistics.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
		players: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "players_failed_total",
			Help:      "Players whose pull aborted with an error.",
		}),
	}
	r.registry.MustRegister(r.tournaments, r.stored, r.fetch, r.players)
	return r
}

// Tournament counts one tournament outcome.
func (r *Recorder) Tournament(result string) {
	if r == nil {
		return
	}
	r.tournaments.WithLabelValues(result).Inc()
}

// Stored adds n inserted records.
func (r *Recorder) Stored(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.stored.Add(float64(n))
}

// ObserveFetch records how long a fetch took.
func (r *Recorder) ObserveFetch(d time.Duration) {
	if r == nil {
		return
	}
	r.fetch.Observe(d.Seconds())
}

// PlayerFailed counts a player whose pull failed.
func (r *Recorder) PlayerFailed() {
	if r == nil {
		return
	}
	r.players.Inc()
}

// StoredCounter exposes the stored-records counter.
func (r *Recorder) StoredCounter() prometheus.Counter {
	return r.stored
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteFile writes the registry in text exposition format to path.
func (r *Recorder) WriteFile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
