// Package export writes canonical records to JSONL files, one entity family
// per file, using atomic temp-file/fsync/rename persistence so a crashed
// export never leaves a half-written file behind.
package export

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/pursuit-labs/pursuit/internal/sqlite"
)

// File names inside the export directory.
const (
	GoalsFile       = "goals.jsonl"
	ActionsFile     = "actions.jsonl"
	ValuesFile      = "values.jsonl"
	PeriodsFile     = "periods.jsonl"
	CheckpointsFile = "checkpoints.jsonl"
	CommitmentsFile = "commitments.jsonl"
	UnitsFile       = "units.jsonl"
)

// FileNames lists every export file in the order the families are written.
// Callers rendering per-file summaries iterate this instead of the returned
// count map so output order is stable.
var FileNames = []string{
	GoalsFile, ActionsFile, ValuesFile, PeriodsFile,
	CheckpointsFile, CommitmentsFile, UnitsFile,
}

// Exporter writes a store's canonical records to a directory.
type Exporter struct {
	store *sqlite.Store
	log   zerolog.Logger
}

// New returns an exporter over the given store.
func New(store *sqlite.Store, log zerolog.Logger) *Exporter {
	return &Exporter{store: store, log: log}
}

// Export writes every entity family to dir, filtered to [from, to] when
// bounds are given. Nil bounds export everything. It returns the number of
// records written per file name.
func (e *Exporter) Export(ctx context.Context, dir string, from, to *time.Time) (map[string]int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}

	counts := map[string]int{}
	write := func(name string, fetch func() (any, int, error)) error {
		records, n, err := fetch()
		if err != nil {
			return err
		}
		if err := writeJSONL(filepath.Join(dir, name), records); err != nil {
			return err
		}
		counts[name] = n
		return nil
	}

	steps := []struct {
		name  string
		fetch func() (any, int, error)
	}{
		{GoalsFile, func() (any, int, error) {
			v, err := e.store.Goals.FetchForExport(ctx, from, to)
			return v, len(v), err
		}},
		{ActionsFile, func() (any, int, error) {
			v, err := e.store.Actions.FetchForExport(ctx, from, to)
			return v, len(v), err
		}},
		{ValuesFile, func() (any, int, error) {
			v, err := e.store.Values.FetchForExport(ctx, from, to)
			return v, len(v), err
		}},
		{PeriodsFile, func() (any, int, error) {
			v, err := e.store.Periods.FetchForExport(ctx, from, to)
			return v, len(v), err
		}},
		{CheckpointsFile, func() (any, int, error) {
			v, err := e.store.Checkpoints.FetchForExport(ctx, from, to)
			return v, len(v), err
		}},
		{CommitmentsFile, func() (any, int, error) {
			v, err := e.store.Commitments.FetchForExport(ctx, from, to)
			return v, len(v), err
		}},
		{UnitsFile, func() (any, int, error) {
			v, err := e.store.Units.FetchForExport(ctx, from, to)
			return v, len(v), err
		}},
	}
	for _, step := range steps {
		if err := write(step.name, step.fetch); err != nil {
			return nil, fmt.Errorf("exporting %s: %w", step.name, err)
		}
	}

	e.log.Info().Str("dir", dir).Interface("counts", counts).Msg("export complete")
	return counts, nil
}

// writeJSONL marshals a slice of records one per line and writes the file
// atomically with the temp-file, fsync, rename pattern.
func writeJSONL(path string, records any) error {
	lines, err := marshalLines(records)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(what string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", what, err)
	}

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.Write(line); err != nil {
			return fail("writing record", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// marshalLines flattens a typed record slice into one JSON document per line.
func marshalLines(records any) ([][]byte, error) {
	// The record slices are typed per entity family; marshaling through an
	// intermediate array keeps this function generic over all of them.
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshaling records: %w", err)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("splitting records: %w", err)
	}
	lines := make([][]byte, 0, len(items))
	for _, item := range items {
		lines = append(lines, item)
	}
	return lines, nil
}
