package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository is the base read contract implemented by every entity family.
// FetchForExport with two nil bounds is equivalent to FetchAll; an inverted
// range returns an empty set rather than an error. Fetch pushes pagination to
// the store. FetchRecent returns the most recently created records first.
type Repository[T any] interface {
	FetchAll(ctx context.Context) ([]T, error)
	FetchForExport(ctx context.Context, from, to *time.Time) ([]T, error)
	Fetch(ctx context.Context, limit, offset int) ([]T, error)
	FetchRecent(ctx context.Context, limit int) ([]T, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// exists is the shared Exists implementation.
func (s *Store) exists(ctx context.Context, table, idColumn, id string) (bool, error) {
	var one int
	err := s.queryRow(ctx,
		"SELECT 1 FROM "+table+" WHERE "+idColumn+" = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, classify(err)
	}
	return true, nil
}

// dateRange builds the export predicate for one date column. Both bounds nil
// means no predicate. A from bound after the to bound can match nothing; the
// caller short-circuits to an empty result via the empty flag. Bounds use the
// same fixed-precision layout as the stored values so the text comparison is
// chronological.
func dateRange(column string, from, to *time.Time) (clause string, args []any, empty bool) {
	if from != nil && to != nil && from.After(*to) {
		return "", nil, true
	}
	if from != nil {
		clause += " AND " + column + " >= ?"
		args = append(args, formatTime(*from))
	}
	if to != nil {
		clause += " AND " + column + " <= ?"
		args = append(args, formatTime(*to))
	}
	return clause, args, false
}

// limitOffset renders LIMIT/OFFSET. A non-positive limit means no limit.
func limitOffset(limit, offset int) string {
	var s string
	if limit > 0 {
		s += fmt.Sprintf(" LIMIT %d", limit)
		if offset > 0 {
			s += fmt.Sprintf(" OFFSET %d", offset)
		}
	}
	return s
}

// decodeArray decodes one JSON aggregation column into typed child rows.
// A NULL or empty aggregate decodes to no rows. Malformed JSON is a hard
// assembly failure.
func decodeArray[T any](raw sql.NullString, what string) ([]T, error) {
	if !raw.Valid || raw.String == "" || raw.String == "[]" {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return nil, assemblyError(what, err)
	}
	return out, nil
}

// decodeObject decodes one JSON object column into a typed row, or nil when
// the column is NULL (the at-most-one relation has no row).
func decodeObject[T any](raw sql.NullString, what string) (*T, error) {
	if !raw.Valid || raw.String == "" || raw.String == "null" {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return nil, assemblyError(what, err)
	}
	return &out, nil
}

// parseID validates an identifier read back from the store. A malformed
// identifier indicates a previously undetected integrity problem and must
// surface, never be dropped.
func parseID(id, what string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", assemblyError(what, fmt.Errorf("identifier %q: %w", id, err))
	}
	return id, nil
}

// parseTime parses a stored RFC3339 date column.
func parseTime(s, what string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, assemblyError(what, err)
	}
	return t, nil
}

// parseOptTime parses a nullable date column.
func parseOptTime(ns sql.NullString, what string) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := parseTime(ns.String, what)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// optString converts a nullable text column.
func optString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// optInt converts a nullable integer column.
func optInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	n := int(ni.Int64)
	return &n
}

// optFloat converts a nullable real column.
func optFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

// toNullString converts an optional string for binding.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// toNullTime converts an optional time for binding.
func toNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

// toNullInt converts an optional int for binding.
func toNullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

// toNullFloat converts an optional float for binding.
func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
