package export

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pursuit-labs/pursuit/internal/planner"
	"github.com/pursuit-labs/pursuit/internal/sqlite"
)

func newTestExporter(t *testing.T) (*Exporter, *planner.Planner) {
	t.Helper()
	s, err := sqlite.OpenPath(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s, zerolog.Nop()), planner.New(s, zerolog.Nop())
}

func readLines(t *testing.T, path string) []json.RawMessage {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		require.True(t, json.Valid(line), "every line must be a standalone JSON document")
		cp := make([]byte, len(line))
		copy(cp, line)
		lines = append(lines, cp)
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestExport(t *testing.T) {
	ctx := context.Background()

	t.Run("exports one file per entity family", func(t *testing.T) {
		e, p := newTestExporter(t)
		_, err := p.CreateGoal(ctx, planner.GoalForm{
			Title: "Run", Importance: 5, Urgency: 5,
			Targets: []planner.TargetForm{
				{UnitRef: planner.UnitRef{Unit: "km", UnitType: "distance"}, Target: 100},
			},
		})
		require.NoError(t, err)
		_, err = p.CreateAction(ctx, planner.ActionForm{Title: "Morning run"})
		require.NoError(t, err)

		dir := t.TempDir()
		counts, err := e.Export(ctx, dir, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, counts[GoalsFile])
		assert.Equal(t, 1, counts[ActionsFile])
		assert.Equal(t, 1, counts[UnitsFile])
		assert.Equal(t, 0, counts[ValuesFile])

		goals := readLines(t, filepath.Join(dir, GoalsFile))
		require.Len(t, goals, 1)

		var goal struct {
			Title          string `json:"title"`
			MeasureTargets []struct {
				Unit string `json:"unit"`
			} `json:"measure_targets"`
		}
		require.NoError(t, json.Unmarshal(goals[0], &goal))
		assert.Equal(t, "Run", goal.Title)
		require.Len(t, goal.MeasureTargets, 1)
		assert.Equal(t, "km", goal.MeasureTargets[0].Unit)
	})

	t.Run("empty families produce empty files", func(t *testing.T) {
		e, _ := newTestExporter(t)
		dir := t.TempDir()
		counts, err := e.Export(ctx, dir, nil, nil)
		require.NoError(t, err)
		assert.Zero(t, counts[GoalsFile])

		for _, name := range FileNames {
			info, err := os.Stat(filepath.Join(dir, name))
			require.NoError(t, err, "file %s must exist", name)
			assert.Zero(t, info.Size())
		}
	})

	t.Run("date window filters records", func(t *testing.T) {
		e, p := newTestExporter(t)
		_, err := p.CreateAction(ctx, planner.ActionForm{
			Title: "Old", StartedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		_, err = p.CreateAction(ctx, planner.ActionForm{
			Title: "Recent", StartedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		dir := t.TempDir()
		counts, err := e.Export(ctx, dir, &from, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, counts[ActionsFile])
	})

	t.Run("export overwrites atomically with no temp files left", func(t *testing.T) {
		e, p := newTestExporter(t)
		_, err := p.CreateAction(ctx, planner.ActionForm{Title: "One"})
		require.NoError(t, err)

		dir := t.TempDir()
		_, err = e.Export(ctx, dir, nil, nil)
		require.NoError(t, err)
		_, err = e.Export(ctx, dir, nil, nil)
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, entry := range entries {
			assert.NotContains(t, entry.Name(), ".tmp")
		}
	})
}
