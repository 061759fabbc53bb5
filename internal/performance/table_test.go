package performance

import (
	"errors"
	"math"
	"os"
	"testing"
)

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/stats_table.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func TestStructureTable(t *testing.T) {
	table, err := StructureTable(loadFixture(t))
	if err != nil {
		t.Fatalf("StructureTable failed: %v", err)
	}

	columns := []string{"Round 1", "Round 2", "Round 3"}
	rows := []string{"SG: OFF THE TEE", "SG: PUTTING", "Driving Distance"}

	if len(table) != len(columns) {
		t.Fatalf("expected %d columns, got %d", len(columns), len(table))
	}
	for _, column := range columns {
		values, ok := table[column]
		if !ok {
			t.Fatalf("expected column %q to be present", column)
		}
		if len(values) != len(rows) {
			t.Errorf("column %q: expected %d rows, got %d", column, len(rows), len(values))
		}
		for _, row := range rows {
			if _, ok := values[row]; !ok {
				t.Errorf("column %q: expected row %q to be present", column, row)
			}
		}
	}

	if got := table["Round 2"]["SG: OFF THE TEE"]; got != "-1.204" {
		t.Errorf("table[Round 2][SG: OFF THE TEE] = %q, expected %q", got, "-1.204")
	}
	if got := table["Round 3"]["SG: PUTTING"]; got != "N/A" {
		t.Errorf("table[Round 3][SG: PUTTING] = %q, expected %q", got, "N/A")
	}
}

func TestStructureTableMismatch(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{
			name: "extra row label",
			html: `<div class="titles"><table class="table"><tbody>
				<tr><td>SG: PUTTING</td></tr><tr><td>SG: TOTAL</td></tr>
			</tbody></table></div>
			<div class="holder"><table><thead><tr><th>Round 1</th></tr></thead>
			<tbody><tr><td>1.0</td></tr></tbody></table></div>`,
		},
		{
			name: "missing cell",
			html: `<div class="titles"><table class="table"><tbody>
				<tr><td>SG: PUTTING</td></tr>
			</tbody></table></div>
			<div class="holder"><table><thead><tr><th>Round 1</th><th>Round 2</th></tr></thead>
			<tbody><tr><td>1.0</td></tr></tbody></table></div>`,
		},
		{
			name: "extra cell",
			html: `<div class="titles"><table class="table"><tbody>
				<tr><td>SG: PUTTING</td></tr>
			</tbody></table></div>
			<div class="holder"><table><thead><tr><th>Round 1</th></tr></thead>
			<tbody><tr><td>1.0</td><td>2.0</td></tr></tbody></table></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := StructureTable(tt.html)
			if !errors.Is(err, ErrStructuralMismatch) {
				t.Fatalf("StructureTable() error = %v, expected ErrStructuralMismatch", err)
			}
			if table != nil {
				t.Errorf("StructureTable() = %v, expected nil table", table)
			}
		})
	}
}

func TestFilterStats(t *testing.T) {
	table := Table{
		"Round 1": {
			"SG: OFF THE TEE":  "0.5",
			"SG: TOTAL":        "1.5",
			"Driving Distance": "300",
			"Putts per Round":  "28",
		},
		"Total": {
			"Scrambling": "60%",
		},
	}

	filtered := FilterStats(table)

	if len(filtered) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(filtered))
	}
	for column, values := range filtered {
		for stat := range values {
			if !IsStat(stat) {
				t.Errorf("column %q: stat %q is not whitelisted", column, stat)
			}
		}
	}
	if len(filtered["Round 1"]) != 2 {
		t.Errorf("expected 2 stats in Round 1, got %d", len(filtered["Round 1"]))
	}
	if len(filtered["Total"]) != 0 {
		t.Errorf("expected no stats in Total, got %v", filtered["Total"])
	}
	if _, ok := filtered["Round 1"]["SG: PUTTING"]; ok {
		t.Error("absent stat SG: PUTTING should stay absent")
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		nan      bool
	}{
		{input: "3.5", expected: 3.5},
		{input: "-1.2", expected: -1.2},
		{input: "+0.75", expected: 0.75},
		{input: "  2", expected: 2},
		{input: "1.5%", expected: 1.5},
		{input: ".25", expected: 0.25},
		{input: "1e3", expected: 1000},
		{input: "12abc", expected: 12},
		{input: "", nan: true},
		{input: "N/A", nan: true},
		{input: "-", nan: true},
		{input: "Infinity", nan: true},
		{input: "1e999", nan: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseNumber(tt.input)
			if tt.nan {
				if !math.IsNaN(got) {
					t.Errorf("ParseNumber(%q) = %v, expected NaN", tt.input, got)
				}
				return
			}
			if got != tt.expected {
				t.Errorf("ParseNumber(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseNumbersKeepsShape(t *testing.T) {
	table := Table{
		"Round 1": {"SG: PUTTING": "0.4", "SG: TOTAL": "--"},
		"Round 2": {},
	}

	stats := ParseNumbers(table)

	if len(stats) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(stats))
	}
	if stats["Round 1"]["SG: PUTTING"] != 0.4 {
		t.Errorf("expected 0.4, got %v", stats["Round 1"]["SG: PUTTING"])
	}
	if !math.IsNaN(stats["Round 1"]["SG: TOTAL"]) {
		t.Errorf("expected NaN, got %v", stats["Round 1"]["SG: TOTAL"])
	}
	if stats["Round 2"] == nil || len(stats["Round 2"]) != 0 {
		t.Errorf("expected empty Round 2, got %v", stats["Round 2"])
	}
}
