package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akyker20/pga-scraper/internal/config"
	"github.com/akyker20/pga-scraper/internal/ingest"
	"github.com/akyker20/pga-scraper/internal/logger"
	"github.com/akyker20/pga-scraper/internal/metrics"
	"github.com/akyker20/pga-scraper/internal/notifier"
	"github.com/akyker20/pga-scraper/internal/performance"
	"github.com/akyker20/pga-scraper/internal/player"
	"github.com/akyker20/pga-scraper/internal/scraper"
	"github.com/akyker20/pga-scraper/internal/storage"
)

var flagPullDryRun bool

func newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Pull new tournament stats for every player in the players file",
		Args:  cobra.NoArgs,
		RunE:  runPull,
	}
	cmd.Flags().BoolVar(&flagPullDryRun, "dry-run", false, "Dump the scraped records instead of storing them")
	return cmd
}

func runPull(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// A broken players file is fatal before any scraping starts
	players, err := player.Load(cfg.PlayersFile)
	if err != nil {
		return err
	}
	logger.Info("Read players", logger.Fields{"count": len(players), "file": cfg.PlayersFile})

	store, err := storage.New(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close() // nolint:errcheck

	lister := scraper.NewLister(listerOptions())

	browser, err := scraper.NewBrowser(browserOptions())
	if err != nil {
		return err
	}
	defer browser.Close()

	rec := metrics.New()
	puller := ingest.New(lister, browser, store, ingest.Options{
		Concurrency: cfg.Concurrency,
		DryRun:      flagPullDryRun,
		Out:         cmd.OutOrStdout(),
		Metrics:     rec,
	})

	results, pullErr := puller.PullAll(ctx, players)
	writePullSummary(cmd, results)

	if !flagPullDryRun {
		if err := announce(cmd, results); err != nil {
			logger.Error("Announcing new records failed", logger.Fields{"target": cfg.Announce}, err)
		}
	}

	if err := rec.WriteFile(cfg.MetricsFile); err != nil {
		logger.Error("Writing metrics file failed", logger.Fields{"file": cfg.MetricsFile}, err)
	}
	return pullErr
}

// userAgent is the configured user agent, or the desktop browser one the
// statistics site requires
func userAgent() string {
	if cfg.UserAgent != "" {
		return cfg.UserAgent
	}
	return scraper.UserAgent
}

func listerOptions() scraper.ListerOptions {
	return scraper.ListerOptions{
		UserAgent: userAgent(),
		CacheDir:  cfg.CacheDir,
		Timeout:   cfg.FetchTimeout,
	}
}

func browserOptions() scraper.BrowserOptions {
	return scraper.BrowserOptions{
		ExecPath:      cfg.ChromePath,
		Headless:      cfg.Headless,
		UserAgent:     userAgent(),
		PageLoadDelay: cfg.PageLoadDelay,
		SelectDelay:   cfg.SelectDelay,
		FetchTimeout:  cfg.FetchTimeout,
	}
}

func writePullSummary(cmd *cobra.Command, results []*ingest.Result) {
	w := cmd.OutOrStdout()
	for _, res := range results {
		switch {
		case len(res.Listed) == 0:
			fmt.Fprintf(w, "%s: no tournaments found\n", res.Player)
		case len(res.New) == 0:
			fmt.Fprintf(w, "%s: no new tournaments\n", res.Player)
		case flagPullDryRun:
			fmt.Fprintf(w, "%s: scraped %d of %d new tournaments (dry run, nothing stored)\n",
				res.Player, len(res.Scraped), len(res.New))
			if len(res.Skipped) > 0 {
				fmt.Fprintf(w, "  skipped: %s\n", strings.Join(res.SortedSkips(), ", "))
			}
		default:
			fmt.Fprintf(w, "%s: stored %d of %d new tournaments\n", res.Player, len(res.Stored), len(res.New))
			if len(res.Skipped) > 0 {
				fmt.Fprintf(w, "  skipped: %s\n", strings.Join(res.SortedSkips(), ", "))
			}
		}
	}
	fmt.Fprintln(w, "FINISHED")
}

// newNotifier builds the configured announcer, or nil when announcing is off
func newNotifier(cmd *cobra.Command) (notifier.Notifier, error) {
	switch cfg.Announce {
	case config.AnnounceStdout:
		return notifier.NewDryRunNotifier(cmd.OutOrStdout()), nil
	case config.AnnounceTwitter:
		return notifier.NewTwitterNotifier(notifier.Credentials{
			APIKey:       cfg.TwitterAPIKey,
			APISecret:    cfg.TwitterAPISecret,
			AccessToken:  cfg.TwitterAccessToken,
			AccessSecret: cfg.TwitterAccessSecret,
		})
	}
	return nil, nil
}

// announce posts every record stored by this pull
func announce(cmd *cobra.Command, results []*ingest.Result) error {
	n, err := newNotifier(cmd)
	if err != nil || n == nil {
		return err
	}

	var perfs []*performance.Performance
	for _, res := range results {
		perfs = append(perfs, res.Records...)
	}
	if len(perfs) == 0 {
		return nil
	}
	return n.Notify(cmd.Context(), perfs)
}
