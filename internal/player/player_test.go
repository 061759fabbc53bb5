package player

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{
			name:  "valid players",
			input: `[{"name":"Jordan Spieth","scorecardUrl":"https://example.com/jordan"},{"name":"Jon Rahm","scorecardUrl":"https://example.com/jon"}]`,
			want:  2,
		},
		{
			name:    "not an array",
			input:   `{"name":"Jordan Spieth","scorecardUrl":"https://example.com/jordan"}`,
			wantErr: true,
		},
		{
			name:    "empty array",
			input:   `[]`,
			wantErr: true,
		},
		{
			name:    "missing scorecard URL",
			input:   `[{"name":"Jordan Spieth"}]`,
			wantErr: true,
		},
		{
			name:    "missing name",
			input:   `[{"scorecardUrl":"https://example.com/jordan"}]`,
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			input:   `[{"name":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players, err := Parse([]byte(tt.input))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPlayers) {
					t.Errorf("Parse() error = %v, want ErrInvalidPlayers", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if len(players) != tt.want {
				t.Errorf("Parse() returned %d players, want %d", len(players), tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	players := []Player{
		{Name: "Jordan Spieth", ScorecardURL: "https://example.com/jordan"},
		{Name: "Jon Rahm"},
		{ScorecardURL: "https://example.com/unknown"},
	}

	problems := Validate(players)
	if len(problems) != 2 {
		t.Errorf("Validate() = %v, want 2 problems", problems)
	}

	if problems := Validate(nil); len(problems) != 1 {
		t.Errorf("Validate(nil) = %v, want 1 problem", problems)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.json")
	content := `[{"name":"Rory McIlroy","scorecardUrl":"https://example.com/rory"}]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	players, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if players[0].Name != "Rory McIlroy" || players[0].ScorecardURL != "https://example.com/rory" {
		t.Errorf("Load() = %+v", players[0])
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}
