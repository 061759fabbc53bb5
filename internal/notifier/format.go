package notifier

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/akyker20/pga-scraper/internal/performance"
)

// MaxPostLength is the character limit of a single post
const MaxPostLength = 280

// headlineStat is the stat summarized in every post
const headlineStat = "SG: TOTAL"

// FormatPost renders p as a short announcement: player, tournament, start
// date and the total strokes gained of every round.
func FormatPost(p *performance.Performance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⛳ New strokes-gained stats: %s\n\n", p.PlayerName)
	fmt.Fprintf(&b, "🏆 %s\n", p.TourneyName)
	if !p.StartDate.IsZero() {
		fmt.Fprintf(&b, "📅 %s\n", p.StartDate.UTC().Format("Jan 02 2006"))
	}

	var rounds []string
	for _, round := range p.Stats.Rounds() {
		if v, ok := p.Stats.Value(round, headlineStat); ok {
			rounds = append(rounds, fmt.Sprintf("%s %s", round, signed(v)))
		}
	}
	if len(rounds) > 0 {
		fmt.Fprintf(&b, "\n📊 %s\n%s\n", headlineStat, strings.Join(rounds, "\n"))
	}

	b.WriteString("\n#PGATOUR #StrokesGained")
	return truncate(b.String(), MaxPostLength)
}

func signed(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v > 0 {
		return "+" + s
	}
	return s
}

// truncate cuts s to at most limit runes, ending in an ellipsis when cut
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
