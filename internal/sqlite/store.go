package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/pursuit-labs/pursuit/pkg/types"
)

// DatabaseFileName is the store's file name inside the data directory.
const DatabaseFileName = "pursuit.db"

// busyRetries is how many times a transiently locked operation is retried
// before the busy error surfaces to the caller.
const busyRetries = 3

// Store is the SQLite-backed Pursuit store. It follows the embedded-database
// threading model: WAL allows concurrent readers while writes serialize on the
// database's single writer. No Go-level lock is held across store access; the
// busy_timeout pragma plus retry-on-busy handle contention.
type Store struct {
	db  *sql.DB
	log zerolog.Logger

	Units       *UnitRepo
	Goals       *GoalRepo
	Actions     *ActionRepo
	Values      *ValueRepo
	Periods     *PeriodRepo
	Checkpoints *CheckpointRepo
	Commitments *CommitmentRepo
}

// Open opens (or creates) the store database in dataDir and initializes the
// schema on first use.
func Open(dataDir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return open(filepath.Join(dataDir, DatabaseFileName), log)
}

// OpenPath opens the store at an explicit database path. Tests use this with
// a throwaway file.
func OpenPath(path string, log zerolog.Logger) (*Store, error) {
	return open(path, log)
}

func open(path string, log zerolog.Logger) (*Store, error) {
	dsn := path + "?" + url.Values{
		"_pragma": []string{
			"journal_mode(WAL)",
			"foreign_keys(1)",
			"busy_timeout(5000)",
		},
	}.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	s.Units = &UnitRepo{store: s}
	s.Goals = &GoalRepo{store: s}
	s.Actions = &ActionRepo{store: s}
	s.Values = &ValueRepo{store: s}
	s.Periods = &PeriodRepo{store: s}
	s.Checkpoints = &CheckpointRepo{store: s}
	s.Commitments = &CommitmentRepo{store: s}

	log.Debug().Str("path", path).Msg("store opened")
	return s, nil
}

// initSchema creates tables and indexes if the database is empty.
func (s *Store) initSchema() error {
	var n int
	err := s.db.QueryRow(
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'expectations'",
	).Scan(&n)
	if err != nil {
		return fmt.Errorf("inspecting schema: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, ddl := range schemaDDL {
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database. Idempotent.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.log.Debug().Msg("store closed")
	return err
}

// query runs a read statement, retrying transparently while the store is
// transiently busy. Errors come back already classified.
func (s *Store) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	var rows *sql.Rows
	err := s.retry(ctx, func() error {
		var err error
		rows, err = s.db.QueryContext(ctx, q, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// queryRow runs a single-row read statement with the same retry behavior.
// The returned scan function classifies scan errors.
func (s *Store) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, q, args...)
}

// begin opens a write transaction, retrying while the store is busy.
func (s *Store) begin(ctx context.Context) (*sql.Tx, error) {
	var tx *sql.Tx
	err := s.retry(ctx, func() error {
		var err error
		tx, err = s.db.BeginTx(ctx, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// InTx runs fn inside one write transaction, committing when it succeeds and
// rolling back when it fails. The returned string is the identifier fn
// produced, typically from an insert helper.
func (s *Store) InTx(ctx context.Context, fn func(tx *sql.Tx) (string, error)) (string, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	id, err := fn(tx)
	if err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", classify(err)
	}
	return id, nil
}

// retry runs fn, retrying a bounded number of times while the underlying
// error classifies as transient. Non-transient errors return classified on
// the first attempt.
func (s *Store) retry(ctx context.Context, fn func() error) error {
	var last error
	for attempt := 0; attempt <= busyRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn()
		if err == nil {
			return nil
		}
		last = classify(err)
		if !types.IsTransient(last) {
			return last
		}
		s.log.Debug().Int("attempt", attempt+1).Msg("store busy, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 10 * time.Millisecond):
		}
	}
	return last
}

// newID generates a UUID v7 string, falling back to v4 if v7 generation
// fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// timeLayout is RFC3339 with fixed nanosecond precision. Date columns are
// TEXT and range predicates compare them lexically, so every stored value and
// every bound must render to the same width. time.RFC3339Nano trims trailing
// zeros, which puts a fractional stamp before its own whole second ('.' sorts
// below 'Z') and breaks range boundaries.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime renders a time the way every date column stores it.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// nowRFC3339 formats the current UTC time for a date column.
func nowRFC3339() string {
	return formatTime(time.Now())
}
