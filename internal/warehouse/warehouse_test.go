package warehouse

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"

	"github.com/akyker20/pga-scraper/internal/performance"
)

func TestRows(t *testing.T) {
	start := time.Date(2018, time.April, 5, 0, 0, 0, 0, time.UTC)
	perfs := []*performance.Performance{{
		PlayerName:  "Jordan Spieth",
		TourneyName: "The Masters",
		StartDate:   start,
		Stats: performance.Stats{
			"Round 1": {"SG: PUTTING": 1.5, "SG: TOTAL": math.NaN()},
		},
	}}

	rows := Rows(perfs)
	if len(rows) != 2 {
		t.Fatalf("Rows() returned %d rows, want 2", len(rows))
	}

	putting, total := rows[0], rows[1]
	if putting.Stat != "SG: PUTTING" || !putting.Value.Valid || putting.Value.Float64 != 1.5 {
		t.Errorf("putting row = %+v", putting)
	}
	if total.Stat != "SG: TOTAL" || total.Value.Valid {
		t.Errorf("NaN should become NULL, got %+v", total)
	}
	if putting.ID != performance.GenerateID("Jordan Spieth", "The Masters") {
		t.Errorf("ID = %q, want generated ID", putting.ID)
	}
	if !putting.StartDate.Equal(start) {
		t.Errorf("StartDate = %v, want %v", putting.StartDate, start)
	}
}

func TestRowSave(t *testing.T) {
	row := &Row{ID: "abc", Round: "Round 1", Stat: "SG: TOTAL"}

	values, insertID, err := row.Save()
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if insertID != "abc|Round 1|SG: TOTAL" {
		t.Errorf("insertID = %q", insertID)
	}
	if values["value"] != nil {
		t.Errorf("invalid value should be saved as nil, got %v", values["value"])
	}

	row.Value = bigquery.NullFloat64{Float64: -0.25, Valid: true}
	values, _, _ = row.Save()
	if values["value"] != -0.25 {
		t.Errorf("value = %v, want -0.25", values["value"])
	}
}

func TestInferSchema(t *testing.T) {
	schema, err := bigquery.InferSchema(Row{})
	if err != nil {
		t.Fatalf("InferSchema() error = %v", err)
	}

	fields := make(map[string]*bigquery.FieldSchema)
	for _, f := range schema {
		fields[f.Name] = f
	}
	if len(fields) != 7 {
		t.Errorf("schema has %d fields, want 7", len(fields))
	}
	if f := fields["value"]; f == nil || f.Type != bigquery.FloatFieldType || f.Required {
		t.Errorf("value field = %+v, want nullable FLOAT", f)
	}
	if f := fields["start_date"]; f == nil || f.Type != bigquery.TimestampFieldType {
		t.Errorf("start_date field = %+v, want TIMESTAMP", f)
	}
}

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"conflict", &googleapi.Error{Code: 409}, true},
		{"wrapped conflict", fmt.Errorf("creating table: %w", &googleapi.Error{Code: 409}), true},
		{"not found", &googleapi.Error{Code: 404}, false},
		{"other error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateError(tt.err); got != tt.want {
				t.Errorf("isDuplicateError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewNotification(t *testing.T) {
	perfs := []*performance.Performance{
		{PlayerName: "Jordan Spieth", TourneyName: "The Masters"},
		{PlayerName: "Jon Rahm", TourneyName: "The Masters"},
		{PlayerName: "Jordan Spieth", TourneyName: "The Open"},
	}
	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	n := NewNotification(perfs, 12, now)

	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"players":["Jordan Spieth","Jon Rahm"],"performances":3,"rows":12,"syncedAt":"2024-05-01T12:00:00Z"}`
	if string(data) != want {
		t.Errorf("notification = %s, want %s", data, want)
	}
}
