// Package warehouse pushes performances to BigQuery and announces syncs on Pub/Sub.
package warehouse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/pubsub"
	"google.golang.org/api/googleapi"

	"github.com/akyker20/pga-scraper/internal/performance"
)

// TableName is the BigQuery table performances are streamed into.
const TableName = "performances"

// Row is the flattened BigQuery form of one (round, stat) value
type Row struct {
	ID         string               `bigquery:"id"`
	Player     string               `bigquery:"player"`
	Tournament string               `bigquery:"tournament"`
	StartDate  time.Time            `bigquery:"start_date"`
	Round      string               `bigquery:"round"`
	Stat       string               `bigquery:"stat"`
	Value      bigquery.NullFloat64 `bigquery:"value"`
}

// Save implements bigquery.ValueSaver. The insert ID makes retried streams
// deduplicate on the BigQuery side.
func (r *Row) Save() (map[string]bigquery.Value, string, error) {
	var value bigquery.Value
	if r.Value.Valid {
		value = r.Value.Float64
	}
	return map[string]bigquery.Value{
		"id":         r.ID,
		"player":     r.Player,
		"tournament": r.Tournament,
		"start_date": r.StartDate,
		"round":      r.Round,
		"stat":       r.Stat,
		"value":      value,
	}, r.ID + "|" + r.Round + "|" + r.Stat, nil
}

// Rows flattens perfs into warehouse rows. NaN values become NULL.
func Rows(perfs []*performance.Performance) []*Row {
	var rows []*Row
	for _, p := range perfs {
		id := p.ID
		if id == "" {
			id = performance.GenerateID(p.PlayerName, p.TourneyName)
		}
		for _, cell := range performance.Flatten(p) {
			rows = append(rows, &Row{
				ID:         id,
				Player:     p.PlayerName,
				Tournament: p.TourneyName,
				StartDate:  p.StartDate.UTC(),
				Round:      cell.Round,
				Stat:       cell.Stat,
				Value: bigquery.NullFloat64{
					Float64: cell.Value,
					Valid:   !math.IsNaN(cell.Value) && !math.IsInf(cell.Value, 0),
				},
			})
		}
	}
	return rows
}

// Warehouse writes to one BigQuery dataset
type Warehouse struct {
	client  *bigquery.Client
	dataset *bigquery.Dataset
}

// New connects to BigQuery and creates the dataset if it does not exist.
func New(ctx context.Context, projectID, datasetID string) (*Warehouse, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating bigquery client: %w", err)
	}

	dataset := client.Dataset(datasetID)
	if err := dataset.Create(ctx, nil); err != nil && !isDuplicateError(err) {
		client.Close() // nolint:errcheck
		return nil, fmt.Errorf("creating dataset: %w", err)
	}

	return &Warehouse{client: client, dataset: dataset}, nil
}

// Close releases the BigQuery client.
func (w *Warehouse) Close() error {
	return w.client.Close()
}

// InsertPerformances streams perfs into the performances table, creating it
// from the inferred Row schema on first use. It returns the number of rows sent.
func (w *Warehouse) InsertPerformances(ctx context.Context, perfs []*performance.Performance) (int, error) {
	rows := Rows(perfs)
	if len(rows) == 0 {
		return 0, nil
	}

	schema, err := bigquery.InferSchema(Row{})
	if err != nil {
		return 0, fmt.Errorf("inferring schema: %w", err)
	}

	table := w.dataset.Table(TableName)
	if err := table.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil && !isDuplicateError(err) {
		return 0, fmt.Errorf("creating table: %w", err)
	}

	if err := table.Inserter().Put(ctx, rows); err != nil {
		return 0, fmt.Errorf("inserting rows: %w", err)
	}
	return len(rows), nil
}

// Notification is published after a sync
type Notification struct {
	Players      []string  `json:"players"`
	Performances int       `json:"performances"`
	Rows         int       `json:"rows"`
	SyncedAt     time.Time `json:"syncedAt"`
}

// NewNotification summarizes a sync of perfs.
func NewNotification(perfs []*performance.Performance, rows int, now time.Time) Notification {
	seen := make(map[string]bool)
	players := make([]string, 0)
	for _, p := range perfs {
		if !seen[p.PlayerName] {
			seen[p.PlayerName] = true
			players = append(players, p.PlayerName)
		}
	}
	return Notification{
		Players:      players,
		Performances: len(perfs),
		Rows:         rows,
		SyncedAt:     now.UTC(),
	}
}

// Publish sends n to topicID and waits for the server to acknowledge it.
func Publish(ctx context.Context, projectID, topicID string, n Notification) error {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("creating pubsub client: %w", err)
	}
	defer client.Close() // nolint:errcheck

	msg, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	topic := client.Topic(topicID)
	defer topic.Stop()

	res := topic.Publish(ctx, &pubsub.Message{Data: msg})
	if _, err := res.Get(ctx); err != nil {
		return fmt.Errorf("publishing notification: %w", err)
	}
	return nil
}

func isDuplicateError(err error) bool {
	var e *googleapi.Error
	if errors.As(err, &e) {
		return e.Code == 409
	}
	return false
}
