package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pursuit-labs/pursuit/pkg/types"
)

// codedError stands in for the driver's error type in classification tests.
type codedError struct {
	code int
	msg  string
}

func (e *codedError) Error() string { return e.msg }
func (e *codedError) Code() int     { return e.code }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{
			name: "nil stays nil",
			in:   nil,
			want: nil,
		},
		{
			name: "busy classifies as store busy",
			in:   &codedError{code: codeBusy, msg: "database is locked"},
			want: types.ErrStoreBusy,
		},
		{
			name: "locked classifies as store busy",
			in:   &codedError{code: codeLocked, msg: "database table is locked"},
			want: types.ErrStoreBusy,
		},
		{
			name: "foreign key naming a unit column is an invalid unit reference",
			in:   &codedError{code: codeConstraintForeignKey, msg: "FOREIGN KEY constraint failed: unit_id"},
			want: types.ErrInvalidUnitReference,
		},
		{
			name: "generic foreign key message falls back to related reference",
			in:   &codedError{code: codeConstraintForeignKey, msg: "FOREIGN KEY constraint failed"},
			want: types.ErrInvalidRelatedReference,
		},
		{
			name: "not null classifies as missing required field",
			in:   &codedError{code: codeConstraintNotNull, msg: "NOT NULL constraint failed: actions.title"},
			want: types.ErrMissingRequiredField,
		},
		{
			name: "primary key classifies as duplicate",
			in:   &codedError{code: codeConstraintPrimaryKey, msg: "UNIQUE constraint failed: units.unit_id"},
			want: types.ErrDuplicateRecord,
		},
		{
			name: "unique classifies as duplicate",
			in:   &codedError{code: codeConstraintUnique, msg: "UNIQUE constraint failed"},
			want: types.ErrDuplicateRecord,
		},
		{
			name: "other constraint code classifies as constraint violation",
			in:   &codedError{code: 275, msg: "CHECK constraint failed"},
			want: types.ErrConstraintViolation,
		},
		{
			name: "no rows classifies as not found",
			in:   sql.ErrNoRows,
			want: types.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestClassifyPassthrough(t *testing.T) {
	t.Run("context cancellation is not reclassified", func(t *testing.T) {
		err := fmt.Errorf("query: %w", context.Canceled)
		assert.ErrorIs(t, classify(err), context.Canceled)
		assert.False(t, errors.Is(classify(err), types.ErrStoreBusy))
	})

	t.Run("uncoded errors pass through unchanged", func(t *testing.T) {
		plain := errors.New("disk I/O error")
		assert.Equal(t, plain, classify(plain))
	})

	t.Run("wrapped errors keep the original underneath", func(t *testing.T) {
		in := &codedError{code: codeConstraintForeignKey, msg: "FOREIGN KEY constraint failed"}
		got := classifyFK(in, types.ErrInvalidUnitReference)
		assert.ErrorIs(t, got, types.ErrInvalidUnitReference)
		var rc resultCoder
		assert.True(t, errors.As(got, &rc), "driver error should stay wrapped for debugging")
	})
}

func TestClassifyFKFallback(t *testing.T) {
	generic := &codedError{code: codeConstraintForeignKey, msg: "FOREIGN KEY constraint failed"}

	t.Run("caller-picked kind wins on a generic message", func(t *testing.T) {
		assert.ErrorIs(t, classifyFK(generic, types.ErrInvalidUnitReference), types.ErrInvalidUnitReference)
		assert.ErrorIs(t, classifyFK(generic, types.ErrInvalidRelatedReference), types.ErrInvalidRelatedReference)
	})

	t.Run("column match overrides the fallback", func(t *testing.T) {
		named := &codedError{code: codeConstraintForeignKey, msg: "foreign key failed on measure_targets.unit_id"}
		assert.ErrorIs(t, classifyFK(named, types.ErrInvalidRelatedReference), types.ErrInvalidUnitReference)
	})
}

func TestClassificationAgainstRealStore(t *testing.T) {
	ctx := context.Background()

	t.Run("real foreign key violation classifies deterministically", func(t *testing.T) {
		s := newTestStore(t)
		tx, err := s.begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback()

		// Same bad write, classified twice: the result must not vary.
		for i := 0; i < 2; i++ {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO measurements (measurement_id, action_id, unit_id, value) VALUES (?, ?, ?, ?)`,
				newID(), newID(), newID(), 1.0)
			require.Error(t, err)
			classified := classifyFK(err, types.ErrInvalidUnitReference)
			assert.ErrorIs(t, classified, types.ErrInvalidUnitReference)
		}
	})

	t.Run("real not null violation classifies as missing field", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.db.Exec(
			`INSERT INTO actions (action_id, title, started_at, created_at) VALUES (?, NULL, ?, ?)`,
			newID(), nowRFC3339(), nowRFC3339())
		require.Error(t, err)
		assert.ErrorIs(t, classify(err), types.ErrMissingRequiredField)
	})

	t.Run("real primary key collision classifies as duplicate", func(t *testing.T) {
		s := newTestStore(t)
		id := newID()
		for i := 0; i < 2; i++ {
			_, err := s.db.Exec(
				`INSERT INTO units (unit_id, unit, unit_type, title, created_at) VALUES (?, 'km', 'distance', 'Km', ?)`,
				id, nowRFC3339())
			if i == 0 {
				require.NoError(t, err)
				continue
			}
			require.Error(t, err)
			assert.ErrorIs(t, classify(err), types.ErrDuplicateRecord)
		}
	})
}
