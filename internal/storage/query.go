package storage

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/akyker20/pga-scraper/internal/performance"
)

// Sortable record fields. Any other SortBy is treated as a stat path.
const (
	SortStartDate   = "startDate"
	SortPlayerName  = "playerName"
	SortTourneyName = "tourneyName"
)

var sortColumns = map[string]string{
	SortStartDate:   "start_date",
	SortPlayerName:  "player_name",
	SortTourneyName: "tourney_name",
}

// Query filters and orders stored performances. Zero values mean "no constraint".
type Query struct {
	Player  string
	Tourney string

	// Before and After are inclusive bounds on the start date.
	Before time.Time
	After  time.Time

	Limit int

	// SortBy is startDate, playerName, tourneyName or a stat path
	// "<round>.<stat>", optionally prefixed with "stats.". Empty means startDate.
	SortBy     string
	Descending bool
}

// StatPath is a parsed "<round>.<stat>" sort key
type StatPath struct {
	Round string
	Stat  string
}

// ParseStatPath splits a stat sort key. The stat must be whitelisted.
func ParseStatPath(path string) (StatPath, error) {
	trimmed := strings.TrimPrefix(path, "stats.")
	round, stat, ok := strings.Cut(trimmed, ".")
	if !ok || strings.TrimSpace(round) == "" {
		return StatPath{}, fmt.Errorf("%w: %q (valid: %s, %s, %s or <round>.<stat>)",
			ErrUnknownSortField, path, SortStartDate, SortPlayerName, SortTourneyName)
	}
	if !performance.IsStat(stat) {
		return StatPath{}, fmt.Errorf("%w: %q is not a tracked statistic", ErrUnknownSortField, stat)
	}
	return StatPath{Round: round, Stat: stat}, nil
}

// Query returns the performances matching q.
func (s *Storage) Query(ctx context.Context, q Query) ([]*performance.Performance, error) {
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = SortStartDate
	}

	column, sqlSort := sortColumns[sortBy]
	var statPath StatPath
	if !sqlSort {
		var err error
		if statPath, err = ParseStatPath(sortBy); err != nil {
			return nil, err
		}
	}

	var (
		clauses []string
		args    []interface{}
	)
	bind := func(clause string, arg interface{}) {
		clauses = append(clauses, fmt.Sprintf(clause, s.dbmap.Dialect.BindVar(len(args))))
		args = append(args, arg)
	}
	if q.Player != "" {
		bind("player_name = %s", q.Player)
	}
	if q.Tourney != "" {
		bind("tourney_name = %s", q.Tourney)
	}
	if !q.After.IsZero() {
		bind("start_date >= %s", q.After.UTC())
	}
	if !q.Before.IsZero() {
		bind("start_date <= %s", q.Before.UTC())
	}

	var b strings.Builder
	b.WriteString("select * from " + tableName)
	if len(clauses) > 0 {
		b.WriteString(" where " + strings.Join(clauses, " and "))
	}
	if sqlSort {
		direction := "asc"
		if q.Descending {
			direction = "desc"
		}
		fmt.Fprintf(&b, " order by %s %s, id asc", column, direction)
		if q.Limit > 0 {
			fmt.Fprintf(&b, " limit %d", q.Limit)
		}
	}

	var rows []row
	if _, err := s.dbmap.WithContext(ctx).Select(&rows, b.String(), args...); err != nil {
		return nil, fmt.Errorf("querying performances: %w", err)
	}

	perfs := make([]*performance.Performance, len(rows))
	for i := range rows {
		perfs[i] = rows[i].performance()
	}

	if !sqlSort {
		sortByStat(perfs, statPath, q.Descending)
		if q.Limit > 0 && len(perfs) > q.Limit {
			perfs = perfs[:q.Limit]
		}
	}
	return perfs, nil
}

// sortByStat orders perfs by one stat value. Missing and NaN values sort last
// in either direction.
func sortByStat(perfs []*performance.Performance, path StatPath, descending bool) {
	value := func(p *performance.Performance) (float64, bool) {
		v, ok := p.Stats.Value(path.Round, path.Stat)
		if !ok || math.IsNaN(v) {
			return 0, false
		}
		return v, true
	}

	sort.SliceStable(perfs, func(i, j int) bool {
		vi, iok := value(perfs[i])
		vj, jok := value(perfs[j])
		if !iok || !jok {
			return iok && !jok
		}
		if descending {
			return vi > vj
		}
		return vi < vj
	})
}

// Tournaments returns the names of the tournaments stored for player.
func (s *Storage) Tournaments(ctx context.Context, player string) ([]string, error) {
	var names []string
	query := fmt.Sprintf("select tourney_name from %s where player_name = %s order by tourney_name",
		tableName, s.dbmap.Dialect.BindVar(0))
	if _, err := s.dbmap.WithContext(ctx).Select(&names, query, player); err != nil {
		return nil, fmt.Errorf("listing tournaments for %s: %w", player, err)
	}
	return names, nil
}
