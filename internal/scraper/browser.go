package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/akyker20/pga-scraper/internal/performance"
	"github.com/akyker20/pga-scraper/internal/player"
)

const (
	StatsTableSelector = ".player-tournament-statistics-table"
	DateRangeSelector  = ".date"
)

// BrowserOptions configures the headless browser used to read statistics tables.
type BrowserOptions struct {
	ExecPath      string
	Headless      bool
	UserAgent     string
	PageLoadDelay time.Duration
	SelectDelay   time.Duration
	FetchTimeout  time.Duration
}

// Browser fetches the raw statistics table of a player's tournament.
// The table is only rendered after the tournament dropdown changes, so this
// needs a real browser rather than a plain HTTP fetch.
type Browser struct {
	opts          BrowserOptions
	ctx           context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
}

// NewBrowser starts a Chrome instance. Close must be called to stop it.
func NewBrowser(opts BrowserOptions) (*Browser, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = time.Minute
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.UserAgent(opts.UserAgent),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &Browser{
		opts:          opts,
		ctx:           browserCtx,
		cancelAlloc:   cancelAlloc,
		cancelBrowser: cancelBrowser,
	}, nil
}

// Close shuts the browser down.
func (b *Browser) Close() {
	b.cancelBrowser()
	b.cancelAlloc()
}

// FetchRaw opens p's scorecard in a new tab, switches the dropdown to tourney
// and returns the statistics table and date range. It returns (nil, nil) when
// the page has no statistics table for the tournament.
func (b *Browser) FetchRaw(ctx context.Context, p player.Player, tourney string) (*performance.Raw, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.ctx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.opts.FetchTimeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var (
		selected  bool
		tableHTML string
		dateRange string
	)
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(p.ScorecardURL),
		chromedp.Sleep(b.opts.PageLoadDelay),
		chromedp.Evaluate(selectTournamentJS(tourney), &selected),
	)
	if err != nil {
		return nil, fmt.Errorf("opening scorecard for %s, %s: %w", p.Name, tourney, err)
	}
	if !selected {
		return nil, fmt.Errorf("tournament option %q not found for %s", tourney, p.Name)
	}

	err = chromedp.Run(tabCtx,
		chromedp.Sleep(b.opts.SelectDelay),
		chromedp.Evaluate(outerHTMLJS(StatsTableSelector), &tableHTML),
		chromedp.Evaluate(textJS(DateRangeSelector), &dateRange),
	)
	if err != nil {
		return nil, fmt.Errorf("reading stats table for %s, %s: %w", p.Name, tourney, err)
	}

	if strings.TrimSpace(tableHTML) == "" {
		return nil, nil
	}
	return &performance.Raw{HTML: tableHTML, DateRange: dateRange}, nil
}

// jsString quotes s as a JavaScript string literal
func jsString(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

// selectTournamentJS switches the tournament dropdown to the first option whose
// text contains name and fires a change event. It evaluates to false when no
// option matches.
func selectTournamentJS(name string) string {
	return fmt.Sprintf(`(function(name) {
  const select = document.querySelector(%s);
  if (!select) { return false; }
  const option = Array.from(select.options).find(o => o.textContent.includes(name));
  if (!option) { return false; }
  select.value = option.value;
  select.dispatchEvent(new Event("change", { bubbles: true }));
  return true;
})(%s)`, jsString(TournamentSelectSelector), jsString(name))
}

// outerHTMLJS evaluates to the outer HTML of the first element matching
// selector, or "" when nothing matches.
func outerHTMLJS(selector string) string {
	return fmt.Sprintf(`(function() {
  const el = document.querySelector(%s);
  return el ? el.outerHTML : "";
})()`, jsString(selector))
}

// textJS evaluates to the concatenated text of every element matching selector.
func textJS(selector string) string {
	return fmt.Sprintf(`Array.from(document.querySelectorAll(%s)).map(el => el.textContent).join("")`,
		jsString(selector))
}
