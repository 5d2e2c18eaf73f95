package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pursuit-labs/pursuit/pkg/types"
)

func insertCheckpoint(t *testing.T, s *Store, w CheckpointWrite) string {
	t.Helper()
	ctx := context.Background()
	tx, err := s.begin(ctx)
	require.NoError(t, err)
	id, err := s.Checkpoints.Insert(ctx, tx, w)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	return id
}

func insertCommitment(t *testing.T, s *Store, w CommitmentWrite) string {
	t.Helper()
	ctx := context.Background()
	tx, err := s.begin(ctx)
	require.NoError(t, err)
	id, err := s.Commitments.Insert(ctx, tx, w)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	return id
}

func TestCheckpointRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	target := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	id := insertCheckpoint(t, s, CheckpointWrite{
		Title: "Halfway review", Importance: 6, Urgency: 3, TargetDate: &target,
	})

	t.Run("get returns the assembled record", func(t *testing.T) {
		c, err := s.Checkpoints.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Halfway review", c.Title)
		require.NotNil(t, c.TargetDate)
		assert.True(t, c.TargetDate.Equal(target))
	})

	t.Run("update rewrites both rows", func(t *testing.T) {
		c, err := s.Checkpoints.Update(ctx, id, CheckpointWrite{
			Title: "Mid-year review", Importance: 7, Urgency: 4,
		})
		require.NoError(t, err)
		assert.Equal(t, "Mid-year review", c.Title)
		assert.Nil(t, c.TargetDate)
	})

	t.Run("kinds do not bleed across repositories", func(t *testing.T) {
		_, err := s.Goals.Get(ctx, id)
		assert.ErrorIs(t, err, types.ErrNotFound)

		goals, err := s.Goals.FetchAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, goals)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		require.NoError(t, s.Checkpoints.Delete(ctx, id))
		_, err := s.Checkpoints.Get(ctx, id)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestCommitmentRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	deadline := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	consequence := "the launch slips a quarter"
	id := insertCommitment(t, s, CommitmentWrite{
		Title: "Deliver the report", Importance: 9, Urgency: 8,
		Deadline: &deadline, RequestedBy: "Dana", Consequence: &consequence,
	})

	t.Run("get returns the assembled record", func(t *testing.T) {
		c, err := s.Commitments.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Deliver the report", c.Title)
		assert.Equal(t, "Dana", c.RequestedBy)
		require.NotNil(t, c.Deadline)
		assert.True(t, c.Deadline.Equal(deadline))
		require.NotNil(t, c.Consequence)
		assert.Equal(t, consequence, *c.Consequence)
	})

	t.Run("fetch all orders by nearest deadline", func(t *testing.T) {
		later := deadline.AddDate(0, 1, 0)
		second := insertCommitment(t, s, CommitmentWrite{
			Title: "Second", Importance: 5, Urgency: 5, Deadline: &later,
		})
		undated := insertCommitment(t, s, CommitmentWrite{
			Title: "Undated", Importance: 5, Urgency: 5,
		})

		commitments, err := s.Commitments.FetchAll(ctx)
		require.NoError(t, err)
		require.Len(t, commitments, 3)
		assert.Equal(t, id, commitments[0].ID)
		assert.Equal(t, second, commitments[1].ID)
		assert.Equal(t, undated, commitments[2].ID, "undated commitments sort last")
	})

	t.Run("delete removes only the targeted kind", func(t *testing.T) {
		require.NoError(t, s.Commitments.Delete(ctx, id))
		_, err := s.Commitments.Get(ctx, id)
		assert.ErrorIs(t, err, types.ErrNotFound)

		assert.ErrorIs(t, s.Checkpoints.Delete(ctx, id), types.ErrNotFound)
	})
}
