package sqlite

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pursuit-labs/pursuit/pkg/types"
)

func TestPeriodRoundTrip(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0)

	tests := []struct {
		name  string
		check func(t *testing.T, s *Store)
	}{
		{
			name: "plain period assembles without a term",
			check: func(t *testing.T, s *Store) {
				title := "Winter"
				id := insertPeriod(t, s, PeriodWrite{StartDate: start, EndDate: end, Title: &title})

				p, err := s.Periods.Get(ctx, id)
				require.NoError(t, err)
				assert.True(t, p.StartDate.Equal(start))
				assert.True(t, p.EndDate.Equal(end))
				require.NotNil(t, p.Title)
				assert.Equal(t, "Winter", *p.Title)
				assert.Nil(t, p.Term)
			},
		},
		{
			name: "term period assembles with status defaulted to planned",
			check: func(t *testing.T, s *Store) {
				id := insertPeriod(t, s, PeriodWrite{
					StartDate: start, EndDate: end,
					Term: &TermWrite{Sequence: 1, Theme: "Foundations"},
				})

				p, err := s.Periods.Get(ctx, id)
				require.NoError(t, err)
				require.NotNil(t, p.Term)
				assert.Equal(t, 1, p.Term.Sequence)
				assert.Equal(t, "Foundations", p.Term.Theme)
				assert.Equal(t, types.TermStatusPlanned, p.Term.Status)
				assert.NotNil(t, p.Term.AssignedGoalIDs)
				assert.Empty(t, p.Term.AssignedGoalIDs)
			},
		},
		{
			name: "assigned goal identifiers come back sorted lexically",
			check: func(t *testing.T, s *Store) {
				g1 := insertGoal(t, s, GoalWrite{Title: "One", Importance: 5, Urgency: 5})
				g2 := insertGoal(t, s, GoalWrite{Title: "Two", Importance: 5, Urgency: 5})
				g3 := insertGoal(t, s, GoalWrite{Title: "Three", Importance: 5, Urgency: 5})

				id := insertPeriod(t, s, PeriodWrite{
					StartDate: start, EndDate: end,
					Term: &TermWrite{Sequence: 1, GoalIDs: []string{g3, g1, g2}},
				})

				p, err := s.Periods.Get(ctx, id)
				require.NoError(t, err)
				require.NotNil(t, p.Term)
				require.Len(t, p.Term.AssignedGoalIDs, 3)
				assert.True(t, sort.StringsAreSorted(p.Term.AssignedGoalIDs))
				assert.ElementsMatch(t, []string{g1, g2, g3}, p.Term.AssignedGoalIDs)
			},
		},
		{
			name: "insert with unknown goal reference fails classified",
			check: func(t *testing.T, s *Store) {
				tx, err := s.begin(ctx)
				require.NoError(t, err)
				defer tx.Rollback()

				_, err = s.Periods.Insert(ctx, tx, PeriodWrite{
					StartDate: start, EndDate: end,
					Term: &TermWrite{Sequence: 1, GoalIDs: []string{newID()}},
				})
				assert.ErrorIs(t, err, types.ErrInvalidRelatedReference)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			tt.check(t, s)
		})
	}
}

func TestAssignGoal(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		check func(t *testing.T, s *Store)
	}{
		{
			name: "assignment appears on the period",
			check: func(t *testing.T, s *Store) {
				goalID := insertGoal(t, s, GoalWrite{Title: "Run", Importance: 5, Urgency: 5})
				termID := insertPeriod(t, s, PeriodWrite{
					StartDate: start, EndDate: start.AddDate(0, 3, 0),
					Term: &TermWrite{Sequence: 1},
				})

				require.NoError(t, s.Periods.AssignGoal(ctx, termID, goalID))

				p, err := s.Periods.Get(ctx, termID)
				require.NoError(t, err)
				require.NotNil(t, p.Term)
				assert.Equal(t, []string{goalID}, p.Term.AssignedGoalIDs)
			},
		},
		{
			name: "assignment to an unknown term fails classified",
			check: func(t *testing.T, s *Store) {
				goalID := insertGoal(t, s, GoalWrite{Title: "Run", Importance: 5, Urgency: 5})
				err := s.Periods.AssignGoal(ctx, newID(), goalID)
				assert.ErrorIs(t, err, types.ErrInvalidRelatedReference)
			},
		},
		{
			name: "empty identifiers are rejected",
			check: func(t *testing.T, s *Store) {
				assert.ErrorIs(t, s.Periods.AssignGoal(ctx, "", newID()), types.ErrInvalidID)
				assert.ErrorIs(t, s.Periods.AssignGoal(ctx, newID(), ""), types.ErrInvalidID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			tt.check(t, s)
		})
	}
}

func TestSetTermOutcome(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		check func(t *testing.T, s *Store)
	}{
		{
			name: "outcome updates status and reflection",
			check: func(t *testing.T, s *Store) {
				termID := insertPeriod(t, s, PeriodWrite{
					StartDate: start, EndDate: start.AddDate(0, 3, 0),
					Term: &TermWrite{Sequence: 1, Status: types.TermStatusActive},
				})

				err := s.Periods.SetTermOutcome(ctx, termID, types.TermStatusCompleted, "shipped the garden")
				require.NoError(t, err)

				p, err := s.Periods.Get(ctx, termID)
				require.NoError(t, err)
				require.NotNil(t, p.Term)
				assert.Equal(t, types.TermStatusCompleted, p.Term.Status)
				assert.Equal(t, "shipped the garden", p.Term.Reflection)
			},
		},
		{
			name: "unrecognized status returns ErrConstraintViolation",
			check: func(t *testing.T, s *Store) {
				termID := insertPeriod(t, s, PeriodWrite{
					StartDate: start, EndDate: start.AddDate(0, 3, 0),
					Term: &TermWrite{Sequence: 1},
				})
				err := s.Periods.SetTermOutcome(ctx, termID, "done-ish", "")
				assert.ErrorIs(t, err, types.ErrConstraintViolation)
			},
		},
		{
			name: "unknown term returns ErrNotFound",
			check: func(t *testing.T, s *Store) {
				err := s.Periods.SetTermOutcome(ctx, newID(), types.TermStatusCompleted, "")
				assert.ErrorIs(t, err, types.ErrNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			tt.check(t, s)
		})
	}
}

func TestPeriodFetchAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	older := insertPeriod(t, s, PeriodWrite{StartDate: start, EndDate: start.AddDate(0, 3, 0)})
	newer := insertPeriod(t, s, PeriodWrite{
		StartDate: start.AddDate(0, 3, 0), EndDate: start.AddDate(0, 6, 0),
		Term: &TermWrite{Sequence: 2},
	})

	t.Run("fetch all orders most recent first", func(t *testing.T) {
		periods, err := s.Periods.FetchAll(ctx)
		require.NoError(t, err)
		require.Len(t, periods, 2)
		assert.Equal(t, newer, periods[0].ID)
		assert.Equal(t, older, periods[1].ID)
	})

	t.Run("export window filters on start_date", func(t *testing.T) {
		from := start.AddDate(0, 1, 0)
		periods, err := s.Periods.FetchForExport(ctx, &from, nil)
		require.NoError(t, err)
		require.Len(t, periods, 1)
		assert.Equal(t, newer, periods[0].ID)
	})

	t.Run("delete cascades the term and its assignments", func(t *testing.T) {
		goalID := insertGoal(t, s, GoalWrite{Title: "Run", Importance: 5, Urgency: 5})
		require.NoError(t, s.Periods.AssignGoal(ctx, newer, goalID))

		require.NoError(t, s.Periods.Delete(ctx, newer))

		_, err := s.Periods.Get(ctx, newer)
		assert.ErrorIs(t, err, types.ErrNotFound)

		var n int
		require.NoError(t, s.db.QueryRow(
			"SELECT count(*) FROM term_goals WHERE term_id = ?", newer).Scan(&n))
		assert.Zero(t, n)

		// The goal itself is untouched; only its assignment disappears.
		g, err := s.Goals.Get(ctx, goalID)
		require.NoError(t, err)
		assert.Nil(t, g.TermAssignment)
	})
}
