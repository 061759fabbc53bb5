package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gorp/gorp/v3"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/mattn/go-sqlite3"

	"github.com/akyker20/pga-scraper/internal/performance"
)

const tableName = "performances"

var (
	// ErrUnknownDriver is returned by New for drivers other than sqlite3 and pgx.
	ErrUnknownDriver = errors.New("unknown storage driver")

	// ErrUnknownSortField is returned by Query for an unsupported SortBy value.
	ErrUnknownSortField = errors.New("unknown sort field")
)

// row is the table mapping of a performance record
type row struct {
	ID          string            `db:"id"`
	PlayerName  string            `db:"player_name"`
	TourneyName string            `db:"tourney_name"`
	StartDate   time.Time         `db:"start_date"`
	Stats       performance.Stats `db:"stats"`
	CreatedAt   time.Time         `db:"created_at"`
}

func toRow(p *performance.Performance, now time.Time) *row {
	id := p.ID
	if id == "" {
		id = performance.GenerateID(p.PlayerName, p.TourneyName)
	}
	return &row{
		ID:          id,
		PlayerName:  p.PlayerName,
		TourneyName: p.TourneyName,
		StartDate:   p.StartDate.UTC(),
		Stats:       p.Stats,
		CreatedAt:   now,
	}
}

func (r *row) performance() *performance.Performance {
	return &performance.Performance{
		ID:          r.ID,
		PlayerName:  r.PlayerName,
		TourneyName: r.TourneyName,
		StartDate:   r.StartDate.UTC(),
		Stats:       r.Stats,
	}
}

// statsConverter stores performance.Stats as a JSON text column
type statsConverter struct{}

func (statsConverter) ToDb(val interface{}) (interface{}, error) {
	if stats, ok := val.(performance.Stats); ok {
		data, err := json.Marshal(stats)
		if err != nil {
			return nil, fmt.Errorf("encoding stats: %w", err)
		}
		return string(data), nil
	}
	return val, nil
}

func (statsConverter) FromDb(target interface{}) (gorp.CustomScanner, bool) {
	if _, ok := target.(*performance.Stats); !ok {
		return gorp.CustomScanner{}, false
	}
	binder := func(holder, target interface{}) error {
		text, ok := holder.(*string)
		if !ok {
			return errors.New("stats column: unexpected holder type")
		}
		return json.Unmarshal([]byte(*text), target.(*performance.Stats))
	}
	return gorp.CustomScanner{Holder: new(string), Target: target, Binder: binder}, true
}

// Storage persists performance records in a SQL database
type Storage struct {
	db    *sql.DB
	dbmap *gorp.DbMap
	now   func() time.Time
}

// New opens the record store and creates the performances table if it is missing.
// driver is "sqlite3" (dsn is a file path, ~ expanded) or "pgx" (dsn is a connection URL).
func New(driver, dsn string) (*Storage, error) {
	var dialect gorp.Dialect
	switch driver {
	case "sqlite3":
		path, err := prepareSQLitePath(dsn)
		if err != nil {
			return nil, err
		}
		dsn = path
		dialect = gorp.SqliteDialect{}
	case "pgx":
		dialect = gorp.PostgresDialect{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	dbmap := &gorp.DbMap{Db: db, Dialect: dialect, TypeConverter: statsConverter{}}
	table := dbmap.AddTableWithName(row{}, tableName).SetKeys(false, "ID")
	table.SetUniqueTogether("player_name", "tourney_name")
	table.ColMap("Stats").SetMaxSize(8192)
	table.ColMap("PlayerName").SetNotNull(true)
	table.ColMap("TourneyName").SetNotNull(true)

	if err := dbmap.CreateTablesIfNotExists(); err != nil {
		db.Close() // nolint:errcheck
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Storage{db: db, dbmap: dbmap, now: time.Now}, nil
}

// prepareSQLitePath expands ~ and creates the parent directory of a database file
func prepareSQLitePath(path string) (string, error) {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path, nil
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	return path, nil
}

// Close releases the database handle.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Insert stores perfs in a single transaction and returns the records that
// were new. Records whose (player, tournament) already exists are skipped.
func (s *Storage) Insert(ctx context.Context, perfs []*performance.Performance) ([]*performance.Performance, error) {
	if len(perfs) == 0 {
		return nil, nil
	}

	tx, err := s.dbmap.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	exec := tx.WithContext(ctx)

	now := s.now().UTC()
	var inserted []*performance.Performance
	for _, p := range perfs {
		if err := tx.Savepoint("perf"); err != nil {
			tx.Rollback() // nolint:errcheck
			return nil, fmt.Errorf("creating savepoint: %w", err)
		}

		err := exec.Insert(toRow(p, now))
		if isUniqueViolation(err) {
			// silently ignore duplicates
			if err := tx.RollbackToSavepoint("perf"); err != nil {
				tx.Rollback() // nolint:errcheck
				return nil, fmt.Errorf("rolling back duplicate: %w", err)
			}
			continue
		}
		if err != nil {
			tx.Rollback() // nolint:errcheck
			return nil, fmt.Errorf("inserting %s, %s: %w", p.PlayerName, p.TourneyName, err)
		}

		if err := tx.ReleaseSavepoint("perf"); err != nil {
			tx.Rollback() // nolint:errcheck
			return nil, fmt.Errorf("releasing savepoint: %w", err)
		}
		inserted = append(inserted, p)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing: %w", err)
	}
	return inserted, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteError sqlite3.Error
	if errors.As(err, &sqliteError) {
		return errors.Is(sqliteError.ExtendedCode, sqlite3.ErrConstraintUnique) ||
			errors.Is(sqliteError.ExtendedCode, sqlite3.ErrConstraintPrimaryKey)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
