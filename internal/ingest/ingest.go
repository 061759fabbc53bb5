// Package ingest pulls the statistics of tournaments that are not stored yet.
//
// For each player the Puller lists the tournaments on their scorecard, drops
// the ones already in the store, fetches and builds the rest concurrently and
// inserts the surviving records in one batch. A tournament that cannot be
// fetched or parsed is logged and skipped; it never aborts its siblings.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/sync/errgroup"

	"github.com/akyker20/pga-scraper/internal/logger"
	"github.com/akyker20/pga-scraper/internal/metrics"
	"github.com/akyker20/pga-scraper/internal/performance"
	"github.com/akyker20/pga-scraper/internal/player"
)

// Lister lists the tournaments a player has played in.
type Lister interface {
	ListTournaments(ctx context.Context, p player.Player) ([]string, error)
}

// Fetcher fetches the raw statistics of one tournament. A nil Raw with a nil
// error means the page has no statistics for it.
type Fetcher interface {
	FetchRaw(ctx context.Context, p player.Player, tourney string) (*performance.Raw, error)
}

// Store is the subset of the record store the Puller needs.
type Store interface {
	Tournaments(ctx context.Context, player string) ([]string, error)
	Insert(ctx context.Context, perfs []*performance.Performance) ([]*performance.Performance, error)
}

// Options configures a Puller.
type Options struct {
	// Concurrency bounds the tournaments fetched at once. Values below 1 mean 1.
	Concurrency int

	// DryRun dumps the built records to Out instead of storing them.
	DryRun bool
	Out    io.Writer

	Metrics *metrics.Recorder
}

// Puller fetches and stores missing performances
type Puller struct {
	lister  Lister
	fetcher Fetcher
	store   Store
	opts    Options
}

// New creates a Puller.
func New(lister Lister, fetcher Fetcher, store Store, opts Options) *Puller {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Puller{lister: lister, fetcher: fetcher, store: store, opts: opts}
}

// Skip records why a tournament produced no record
type Skip struct {
	Tourney string
	Result  string
	Err     error
}

// Result summarizes one player's pull
type Result struct {
	Player   string
	Listed   []string
	Existing []string
	New      []string
	Stored   []string
	Skipped  []Skip
	Inserted int

	// Records are the inserted records behind Stored
	Records []*performance.Performance

	// Scraped names the records built by a dry run; nothing is stored then
	Scraped []string
}

// outcome is what one tournament task produced: a record or a skip marker
type outcome struct {
	perf *performance.Performance
	skip *Skip
}

// PullAll pulls every player in order. A failing player is logged and the
// remaining players are still pulled; the failures are returned joined.
func (p *Puller) PullAll(ctx context.Context, players []player.Player) ([]*Result, error) {
	logger.Info("Pulling players", logger.Fields{"count": len(players)})

	var (
		results []*Result
		errs    []error
	)
	for _, pl := range players {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		res, err := p.PullPlayer(ctx, pl)
		if err != nil {
			logger.Error("Player pull failed", logger.Fields{"player": pl.Name}, err)
			p.opts.Metrics.PlayerFailed()
			errs = append(errs, fmt.Errorf("%s: %w", pl.Name, err))
			continue
		}
		results = append(results, res)
	}

	logger.Info("Finished pulling players", logger.Fields{
		"players": len(players),
		"failed":  len(errs),
	})
	return results, errors.Join(errs...)
}

// PullPlayer fetches and stores the tournaments of pl that are not stored yet.
func (p *Puller) PullPlayer(ctx context.Context, pl player.Player) (*Result, error) {
	res := &Result{Player: pl.Name}

	listed, err := p.lister.ListTournaments(ctx, pl)
	if err != nil {
		return nil, fmt.Errorf("listing tournaments: %w", err)
	}
	res.Listed = listed
	if len(listed) == 0 {
		logger.Info("No tournaments found for player", logger.Fields{"player": pl.Name})
		return res, nil
	}

	existing, err := p.store.Tournaments(ctx, pl.Name)
	if err != nil {
		return nil, fmt.Errorf("loading stored tournaments: %w", err)
	}
	res.Existing = existing
	res.New = difference(listed, existing)

	if len(res.New) == 0 {
		logger.Info("No new tournaments for player", logger.Fields{
			"player": pl.Name,
			"stored": len(existing),
		})
		return res, nil
	}
	logger.Info("Fetching new tournaments", logger.Fields{
		"player":      pl.Name,
		"tournaments": res.New,
	})

	outcomes := p.fetchAll(ctx, pl, res.New)

	var perfs []*performance.Performance
	for _, o := range outcomes {
		if o.skip != nil {
			res.Skipped = append(res.Skipped, *o.skip)
			continue
		}
		perfs = append(perfs, o.perf)
	}

	if p.opts.DryRun {
		spew.Fdump(p.opts.Out, perfs)
		for _, perf := range perfs {
			res.Scraped = append(res.Scraped, perf.TourneyName)
		}
	} else if len(perfs) > 0 {
		inserted, err := p.store.Insert(ctx, perfs)
		if err != nil {
			return nil, fmt.Errorf("storing performances: %w", err)
		}
		res.Records = inserted
		res.Inserted = len(inserted)
		p.opts.Metrics.Stored(len(inserted))

		for _, perf := range inserted {
			res.Stored = append(res.Stored, perf.TourneyName)
			p.opts.Metrics.Tournament(metrics.ResultStored)
		}
		for i := len(inserted); i < len(perfs); i++ {
			p.opts.Metrics.Tournament(metrics.ResultDuplicate)
		}
	}

	logger.Info("Stored player stats", logger.Fields{
		"player":      pl.Name,
		"tournaments": res.Stored,
		"scraped":     len(perfs),
		"inserted":    res.Inserted,
		"skipped":     len(res.Skipped),
		"dry_run":     p.opts.DryRun,
	})
	return res, nil
}

// fetchAll runs one task per tournament with bounded concurrency. Tasks never
// return errors to the group, so one failure cannot cancel the others.
func (p *Puller) fetchAll(ctx context.Context, pl player.Player, tourneys []string) []outcome {
	outcomes := make([]outcome, len(tourneys))

	var g errgroup.Group
	g.SetLimit(p.opts.Concurrency)
	for i, tourney := range tourneys {
		i, tourney := i, tourney
		g.Go(func() error {
			outcomes[i] = p.fetchOne(ctx, pl, tourney)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (p *Puller) fetchOne(ctx context.Context, pl player.Player, tourney string) outcome {
	fields := logger.Fields{"player": pl.Name, "tournament": tourney}

	start := time.Now()
	raw, err := p.fetcher.FetchRaw(ctx, pl, tourney)
	p.opts.Metrics.ObserveFetch(time.Since(start))
	if err != nil {
		logger.Error("Fetching tournament failed", fields, err)
		return p.skip(tourney, metrics.ResultFetchError, err)
	}

	perf, err := performance.Build(pl.Name, tourney, raw)
	switch {
	case errors.Is(err, performance.ErrNoData):
		fields["scorecard_url"] = pl.ScorecardURL
		logger.Info("No data exists for tournament", fields)
		return p.skip(tourney, metrics.ResultNoData, err)
	case err != nil:
		logger.Warn("Skipping tournament with unparseable stats", logger.Fields{
			"player":     pl.Name,
			"tournament": tourney,
			"error":      err.Error(),
		})
		return p.skip(tourney, metrics.ResultParseError, err)
	}

	logger.Debug("Built performance", fields)
	return outcome{perf: perf}
}

func (p *Puller) skip(tourney, result string, err error) outcome {
	p.opts.Metrics.Tournament(result)
	return outcome{skip: &Skip{Tourney: tourney, Result: result, Err: err}}
}

// difference returns the names in listed that are not in existing, keeping
// the order of listed.
func difference(listed, existing []string) []string {
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	var out []string
	for _, name := range listed {
		if !have[name] {
			out = append(out, name)
		}
	}
	return out
}

// SortedSkips returns the skipped tournament names of r, sorted.
func (r *Result) SortedSkips() []string {
	names := make([]string, len(r.Skipped))
	for i, s := range r.Skipped {
		names[i] = s.Tourney
	}
	sort.Strings(names)
	return names
}
