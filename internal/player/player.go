// Package player loads the list of players to scrape.
package player

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidPlayers is returned when the players file fails validation.
var ErrInvalidPlayers = errors.New("invalid players file")

// Player identifies a golfer and the scorecard page their statistics live on
type Player struct {
	Name         string `json:"name"`
	ScorecardURL string `json:"scorecardUrl"`
}

// Load reads and validates a players file.
func Load(path string) ([]Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading players file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON array of players.
// Validation problems are joined into a single error wrapping ErrInvalidPlayers.
func Parse(data []byte) ([]Player, error) {
	var players []Player
	if err := json.Unmarshal(data, &players); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "" {
			return nil, fmt.Errorf("%w: players must be an array", ErrInvalidPlayers)
		}
		return nil, fmt.Errorf("%w: the JSON is invalid: %v", ErrInvalidPlayers, err)
	}

	if problems := Validate(players); len(problems) > 0 {
		return nil, fmt.Errorf("%w:\n  %s", ErrInvalidPlayers, strings.Join(problems, "\n  "))
	}
	return players, nil
}

// Validate returns one message per problem found, or nil when players is usable.
func Validate(players []Player) []string {
	var problems []string
	if len(players) == 0 {
		problems = append(problems, "players file cannot be an empty array")
	}
	for i, p := range players {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.ScorecardURL) == "" {
			problems = append(problems,
				fmt.Sprintf("player %d (%q) is invalid: each player needs 'name' and 'scorecardUrl'", i, p.Name))
		}
	}
	return problems
}
