// Package config defines the pga-stats configuration and how it is loaded.
//
// Values are layered from low to high precedence:
//  1. defaults (New)
//  2. a YAML file, when --config or PGA_CONFIG names one
//  3. environment variables with the PGA_ prefix, e.g. PGA_DB_DSN
package config

import (
	"fmt"
	"strings"
	"time"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// Announce targets.
const (
	AnnounceNone    = ""
	AnnounceStdout  = "stdout"
	AnnounceTwitter = "twitter"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is json or text.
	LogFormat string `koanf:"log_format"`

	// PlayersFile is the JSON list of players to scrape.
	PlayersFile string `koanf:"players_file"`

	// DBDriver selects the record store: sqlite3 or pgx.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is a file path for sqlite3 or a connection URL for pgx.
	DBDSN string `koanf:"db_dsn"`

	// CacheDir enables colly's on-disk response cache when set.
	CacheDir string `koanf:"cache_dir"`

	// ChromePath overrides the browser executable; empty uses the default lookup.
	ChromePath string `koanf:"chrome_path"`

	Headless bool `koanf:"headless"`

	// UserAgent overrides the desktop browser user agent the scraper sends by default.
	UserAgent string `koanf:"user_agent"`

	// PageLoadDelay is waited after navigation, SelectDelay after switching tournaments.
	PageLoadDelay time.Duration `koanf:"page_load_delay"`
	SelectDelay   time.Duration `koanf:"select_delay"`

	// FetchTimeout bounds a single tournament fetch.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// Concurrency is the number of tournaments fetched at once per player.
	Concurrency int `koanf:"concurrency"`

	// MetricsFile receives the Prometheus text exposition after a pull.
	MetricsFile string `koanf:"metrics_file"`

	BigQueryProject string `koanf:"bigquery_project"`
	BigQueryDataset string `koanf:"bigquery_dataset"`
	PubSubTopic     string `koanf:"pubsub_topic"`

	// Announce posts newly stored records after a pull: "", "stdout" or "twitter".
	Announce string `koanf:"announce"`

	TwitterAPIKey       string `koanf:"twitter_api_key"`
	TwitterAPISecret    string `koanf:"twitter_api_secret"`
	TwitterAccessToken  string `koanf:"twitter_access_token"`
	TwitterAccessSecret string `koanf:"twitter_access_secret"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "json",
		PlayersFile:     "players.json",
		DBDriver:        DriverSQLite,
		DBDSN:           "~/.pga-stats/stats.db",
		Headless:        true,
		PageLoadDelay:   4 * time.Second,
		SelectDelay:     2 * time.Second,
		FetchTimeout:    60 * time.Second,
		Concurrency:     4,
		BigQueryDataset: "pga_stats",
		PubSubTopic:     "pga-stats",
	}
}

// Validate reports the first invalid setting. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: db_driver %q (valid: %s, %s)", ErrInvalidConfig, c.DBDriver, DriverSQLite, DriverPostgres)
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		return fmt.Errorf("%w: db_dsn must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.PlayersFile) == "" {
		return fmt.Errorf("%w: players_file must not be empty", ErrInvalidConfig)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("%w: concurrency must be positive, got %d", ErrInvalidConfig, c.Concurrency)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("%w: fetch_timeout must be positive", ErrInvalidConfig)
	}
	if c.PageLoadDelay < 0 || c.SelectDelay < 0 {
		return fmt.Errorf("%w: delays must not be negative", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("%w: log_format %q (valid: json, text)", ErrInvalidConfig, c.LogFormat)
	}
	switch c.Announce {
	case AnnounceNone, AnnounceStdout, AnnounceTwitter:
	default:
		return fmt.Errorf("%w: announce %q (valid: stdout, twitter)", ErrInvalidConfig, c.Announce)
	}
	return nil
}
