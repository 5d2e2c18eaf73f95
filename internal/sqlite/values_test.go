package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pursuit-labs/pursuit/pkg/types"
)

func TestValueCreate(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		check func(t *testing.T, s *Store)
	}{
		{
			name: "create returns the assembled record",
			check: func(t *testing.T, s *Store) {
				domain := "wellbeing"
				v, err := s.Values.Create(ctx, ValueWrite{
					Title: "Health", Priority: 1, Level: types.ValueLevelCore,
					LifeDomain: &domain,
				})
				require.NoError(t, err)
				assert.NotEmpty(t, v.ID)
				assert.Equal(t, "Health", v.Title)
				assert.Equal(t, 1, v.Priority)
				assert.Equal(t, types.ValueLevelCore, v.Level)
				require.NotNil(t, v.LifeDomain)
				assert.Equal(t, "wellbeing", *v.LifeDomain)
				assert.NotNil(t, v.Alignments)
				assert.Empty(t, v.Alignments)
			},
		},
		{
			name: "duplicate title returns ErrDuplicateRecord",
			check: func(t *testing.T, s *Store) {
				_, err := s.Values.Create(ctx, ValueWrite{
					Title: "Health", Priority: 1, Level: types.ValueLevelCore,
				})
				require.NoError(t, err)

				_, err = s.Values.Create(ctx, ValueWrite{
					Title: "Health", Priority: 2, Level: types.ValueLevelSupporting,
				})
				assert.ErrorIs(t, err, types.ErrDuplicateRecord)
			},
		},
		{
			name: "title uniqueness is case-insensitive",
			check: func(t *testing.T, s *Store) {
				_, err := s.Values.Create(ctx, ValueWrite{
					Title: "Health", Priority: 1, Level: types.ValueLevelCore,
				})
				require.NoError(t, err)

				_, err = s.Values.Create(ctx, ValueWrite{
					Title: "HEALTH", Priority: 2, Level: types.ValueLevelCore,
				})
				assert.ErrorIs(t, err, types.ErrDuplicateRecord)
			},
		},
		{
			name: "empty title returns ErrTitleEmpty",
			check: func(t *testing.T, s *Store) {
				_, err := s.Values.Create(ctx, ValueWrite{
					Title: "", Priority: 1, Level: types.ValueLevelCore,
				})
				assert.ErrorIs(t, err, types.ErrTitleEmpty)
			},
		},
		{
			name: "unrecognized level returns ErrConstraintViolation",
			check: func(t *testing.T, s *Store) {
				_, err := s.Values.Create(ctx, ValueWrite{
					Title: "Health", Priority: 1, Level: "fundamental",
				})
				assert.ErrorIs(t, err, types.ErrConstraintViolation)
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

func TestValueAlignmentAssembly(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	health, err := s.Values.Create(ctx, ValueWrite{
		Title: "Health", Priority: 1, Level: types.ValueLevelCore,
	})
	require.NoError(t, err)

	goalID := insertGoal(t, s, GoalWrite{
		Title: "Run a marathon", Importance: 8, Urgency: 4,
		Alignments: []AlignmentWrite{{ValueID: health.ID, Strength: 9}},
	})

	t.Run("goal alignments appear on the value side", func(t *testing.T) {
		v, err := s.Values.Get(ctx, health.ID)
		require.NoError(t, err)
		require.Len(t, v.Alignments, 1)
		assert.Equal(t, goalID, v.Alignments[0].GoalID)
		assert.Equal(t, "Run a marathon", v.Alignments[0].GoalTitle)
		assert.Equal(t, 9, v.Alignments[0].Strength)
	})

	t.Run("by value returns aligned goals", func(t *testing.T) {
		goals, err := s.Goals.ByValue(ctx, health.ID)
		require.NoError(t, err)
		require.Len(t, goals, 1)
		assert.Equal(t, goalID, goals[0].ID)
	})

	t.Run("deleting the goal removes the alignment", func(t *testing.T) {
		require.NoError(t, s.Goals.Delete(ctx, goalID))
		v, err := s.Values.Get(ctx, health.ID)
		require.NoError(t, err)
		assert.Empty(t, v.Alignments)
	})
}

func TestValueUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	health, err := s.Values.Create(ctx, ValueWrite{
		Title: "Health", Priority: 1, Level: types.ValueLevelCore,
	})
	require.NoError(t, err)
	_, err = s.Values.Create(ctx, ValueWrite{
		Title: "Learning", Priority: 2, Level: types.ValueLevelSupporting,
	})
	require.NoError(t, err)

	t.Run("update keeps the record's own title available", func(t *testing.T) {
		v, err := s.Values.Update(ctx, health.ID, ValueWrite{
			Title: "health", Priority: 3, Level: types.ValueLevelCore,
		})
		require.NoError(t, err)
		assert.Equal(t, "health", v.Title)
		assert.Equal(t, 3, v.Priority)
	})

	t.Run("update onto another record's title is a duplicate", func(t *testing.T) {
		_, err := s.Values.Update(ctx, health.ID, ValueWrite{
			Title: "Learning", Priority: 1, Level: types.ValueLevelCore,
		})
		assert.ErrorIs(t, err, types.ErrDuplicateRecord)
	})

	t.Run("update of unknown value returns ErrNotFound", func(t *testing.T) {
		_, err := s.Values.Update(ctx, newID(), ValueWrite{
			Title: "Solitude", Priority: 1, Level: types.ValueLevelCore,
		})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestValueFetchAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Values.Create(ctx, ValueWrite{
		Title: "Learning", Priority: 2, Level: types.ValueLevelSupporting,
	})
	require.NoError(t, err)
	health, err := s.Values.Create(ctx, ValueWrite{
		Title: "Health", Priority: 1, Level: types.ValueLevelCore,
	})
	require.NoError(t, err)

	t.Run("fetch all orders by priority", func(t *testing.T) {
		values, err := s.Values.FetchAll(ctx)
		require.NoError(t, err)
		require.Len(t, values, 2)
		assert.Equal(t, "Health", values[0].Title)
		assert.Equal(t, "Learning", values[1].Title)
	})

	t.Run("delete cascades alignments", func(t *testing.T) {
		goalID := insertGoal(t, s, GoalWrite{
			Title: "Run", Importance: 5, Urgency: 5,
			Alignments: []AlignmentWrite{{ValueID: health.ID, Strength: 7}},
		})

		require.NoError(t, s.Values.Delete(ctx, health.ID))

		_, err := s.Values.Get(ctx, health.ID)
		assert.ErrorIs(t, err, types.ErrNotFound)

		// The goal survives with the alignment gone.
		g, err := s.Goals.Get(ctx, goalID)
		require.NoError(t, err)
		assert.Empty(t, g.ValueAlignments)
	})
}
