package performance

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrParse is returned when a date range or table cannot be parsed.
	ErrParse = errors.New("parse error")

	// ErrStructuralMismatch is returned when table labels disagree with the table geometry.
	ErrStructuralMismatch = errors.New("table structure mismatch")

	// ErrNoData is returned when the scraper found no statistics table for a tournament.
	ErrNoData = errors.New("no data")
)

// Performance is one player's statistics for one tournament
type Performance struct {
	ID          string    `json:"id"`
	PlayerName  string    `json:"playerName"`
	TourneyName string    `json:"tourneyName"`
	StartDate   time.Time `json:"startDate"`
	Stats       Stats     `json:"stats"`
}

// MarshalJSON writes StartDate in ISOString form.
func (p Performance) MarshalJSON() ([]byte, error) {
	type plain Performance
	return json.Marshal(struct {
		plain
		StartDate string `json:"startDate"`
	}{plain(p), ISOString(p.StartDate)})
}

// Raw is the scraped input for a single performance
type Raw struct {
	HTML      string
	DateRange string
}

// Stats maps a round label (e.g. "Round 1", "Total") to stat name -> value.
// Values are finite numbers or NaN.
type Stats map[string]map[string]float64

// MarshalJSON encodes NaN values as null since JSON has no NaN literal.
func (s Stats) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]*float64, len(s))
	for round, values := range s {
		line := make(map[string]*float64, len(values))
		for stat, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				line[stat] = nil
				continue
			}
			v := v
			line[stat] = &v
		}
		out[round] = line
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes null values back to NaN.
func (s *Stats) UnmarshalJSON(data []byte) error {
	var in map[string]map[string]*float64
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	out := make(Stats, len(in))
	for round, values := range in {
		line := make(map[string]float64, len(values))
		for stat, v := range values {
			if v == nil {
				line[stat] = math.NaN()
				continue
			}
			line[stat] = *v
		}
		out[round] = line
	}
	*s = out
	return nil
}

// Rounds returns the round labels of s in display order: "Round N" labels by
// number first, then the remaining labels alphabetically.
func (s Stats) Rounds() []string {
	rounds := make([]string, 0, len(s))
	for round := range s {
		rounds = append(rounds, round)
	}
	sort.Slice(rounds, func(i, j int) bool {
		ni, iok := roundNumber(rounds[i])
		nj, jok := roundNumber(rounds[j])
		switch {
		case iok && jok:
			return ni < nj
		case iok != jok:
			return iok
		default:
			return rounds[i] < rounds[j]
		}
	})
	return rounds
}

func roundNumber(label string) (int, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(label), "Round ")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Value returns the value of stat in round and whether it exists.
func (s Stats) Value(round, stat string) (float64, bool) {
	line, ok := s[round]
	if !ok {
		return 0, false
	}
	v, ok := line[stat]
	return v, ok
}

// GenerateID creates a deterministic ID for a player's tournament
func GenerateID(player, tourney string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(player+"|"+tourney)).String()
}

// Build converts scraped data into a Performance.
// A nil raw or an empty table is reported as ErrNoData without parsing anything.
func Build(player, tourney string, raw *Raw) (*Performance, error) {
	if raw == nil || strings.TrimSpace(raw.HTML) == "" {
		return nil, fmt.Errorf("%w for %s, %s", ErrNoData, player, tourney)
	}

	table, err := StructureTable(raw.HTML)
	if err != nil {
		return nil, fmt.Errorf("structuring table for %s, %s: %w", player, tourney, err)
	}
	stats := ParseNumbers(FilterStats(table))

	start, err := ParseStartDate(raw.DateRange)
	if err != nil {
		return nil, fmt.Errorf("parsing start date for %s, %s: %w", player, tourney, err)
	}

	return &Performance{
		ID:          GenerateID(player, tourney),
		PlayerName:  player,
		TourneyName: tourney,
		StartDate:   start,
		Stats:       stats,
	}, nil
}

// StatRow is a single (round, stat, value) cell of a performance
type StatRow struct {
	Round string
	Stat  string
	Value float64
}

// Flatten lists the stats of p in display order: rounds as ordered by
// Stats.Rounds, stats in whitelist order.
func Flatten(p *Performance) []StatRow {
	var rows []StatRow
	for _, round := range p.Stats.Rounds() {
		for _, stat := range StatNames {
			if v, ok := p.Stats.Value(round, stat); ok {
				rows = append(rows, StatRow{Round: round, Stat: stat, Value: v})
			}
		}
	}
	return rows
}
