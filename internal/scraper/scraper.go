package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/akyker20/pga-scraper/internal/player"
)

const (
	// UserAgent must look like a desktop browser; the statistics site serves
	// an empty tournament list otherwise.
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_12_6) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/63.0.3239.132 Safari/537.3"
	Timeout   = 30 * time.Second

	TournamentSelectSelector = ".tournament-select select"
	TournamentOptionSelector = TournamentSelectSelector + " option"
)

// Lister reads the tournaments a player has played in from their scorecard page
type Lister struct {
	collector *colly.Collector
}

// ListerOptions configures a Lister. Zero values fall back to defaults.
type ListerOptions struct {
	UserAgent string
	CacheDir  string
	Timeout   time.Duration
}

// NewLister creates a new Lister instance
func NewLister(opts ListerOptions) *Lister {
	ua := opts.UserAgent
	if ua == "" {
		ua = UserAgent
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = Timeout
	}

	c := colly.NewCollector(
		colly.UserAgent(ua),
		colly.AllowURLRevisit(),
	)
	if opts.CacheDir != "" {
		c.CacheDir = opts.CacheDir
	}
	c.SetRequestTimeout(timeout)

	return &Lister{collector: c}
}

// ListTournaments fetches the tournament names listed on p's scorecard page,
// in page order.
func (l *Lister) ListTournaments(ctx context.Context, p player.Player) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		names    []string
		parseErr error
	)
	c := l.collector.Clone() // same collector but without old callbacks
	c.OnResponse(func(res *colly.Response) {
		names, parseErr = parseTournaments(bytes.NewReader(res.Body))
	})

	if err := c.Visit(p.ScorecardURL); err != nil {
		return nil, fmt.Errorf("fetching scorecard for %s: %w", p.Name, err)
	}
	c.Wait()

	if parseErr != nil {
		return nil, fmt.Errorf("parsing scorecard for %s: %w", p.Name, parseErr)
	}
	return names, nil
}

// parseTournaments extracts tournament names from a scorecard page.
// Tour separators such as "----- PGA TOUR -----" and repeated names are skipped.
func parseTournaments(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	names := make([]string, 0)
	seen := make(map[string]bool)
	doc.Find(TournamentOptionSelector).Each(func(_ int, sel *goquery.Selection) {
		name := strings.TrimSpace(sel.Text())
		if name == "" || isSeparator(name) || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	})

	return names, nil
}

func isSeparator(option string) bool {
	return strings.HasPrefix(option, "---") || strings.HasSuffix(option, "---")
}
