package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pursuit-labs/pursuit/pkg/types"
)

// CheckpointRepo assembles canonical Checkpoint records. Checkpoints have no
// child relations, so the statement is a plain join of the expectation header
// and the specialization row.
type CheckpointRepo struct {
	store *Store
}

var _ Repository[types.Checkpoint] = (*CheckpointRepo)(nil)

const checkpointSelect = `
SELECT e.expectation_id, e.title, e.details, e.notes, e.importance, e.urgency, e.created_at,
       c.target_date
  FROM expectations e
  JOIN checkpoints c ON c.checkpoint_id = e.expectation_id
 WHERE 1=1`

const checkpointDefaultOrder = ` ORDER BY (c.target_date IS NULL), c.target_date, e.created_at DESC`

// Get returns one assembled checkpoint.
func (r *CheckpointRepo) Get(ctx context.Context, id string) (*types.Checkpoint, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	checkpoints, err := r.fetch(ctx, " AND e.expectation_id = ?", []any{id}, "")
	if err != nil {
		return nil, err
	}
	if len(checkpoints) == 0 {
		return nil, types.ErrNotFound
	}
	return &checkpoints[0], nil
}

// FetchAll returns every checkpoint, dated ones first.
func (r *CheckpointRepo) FetchAll(ctx context.Context) ([]types.Checkpoint, error) {
	return r.fetch(ctx, "", nil, checkpointDefaultOrder)
}

// FetchForExport returns checkpoints created within [from, to].
func (r *CheckpointRepo) FetchForExport(ctx context.Context, from, to *time.Time) ([]types.Checkpoint, error) {
	clause, args, empty := dateRange("e.created_at", from, to)
	if empty {
		return []types.Checkpoint{}, nil
	}
	return r.fetch(ctx, clause, args, checkpointDefaultOrder)
}

// Fetch returns one page of checkpoints.
func (r *CheckpointRepo) Fetch(ctx context.Context, limit, offset int) ([]types.Checkpoint, error) {
	return r.fetch(ctx, "", nil, checkpointDefaultOrder+limitOffset(limit, offset))
}

// FetchRecent returns the most recently created checkpoints first.
func (r *CheckpointRepo) FetchRecent(ctx context.Context, limit int) ([]types.Checkpoint, error) {
	return r.fetch(ctx, "", nil,
		" ORDER BY e.created_at DESC, e.expectation_id DESC"+limitOffset(limit, 0))
}

// Exists reports whether a checkpoint with the given identifier exists.
func (r *CheckpointRepo) Exists(ctx context.Context, id string) (bool, error) {
	return r.store.exists(ctx, "checkpoints", "checkpoint_id", id)
}

func (r *CheckpointRepo) fetch(ctx context.Context, clause string, args []any, tail string) ([]types.Checkpoint, error) {
	rows, err := r.store.query(ctx, checkpointSelect+clause+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checkpoints := []types.Checkpoint{}
	for rows.Next() {
		c, err := scanCheckpoint(rows)
		if err != nil {
			return nil, err
		}
		checkpoints = append(checkpoints, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return checkpoints, nil
}

func scanCheckpoint(rows *sql.Rows) (*types.Checkpoint, error) {
	var c types.Checkpoint
	var createdAt string
	var targetDate sql.NullString

	if err := rows.Scan(
		&c.ID, &c.Title, &c.Details, &c.Notes, &c.Importance, &c.Urgency, &createdAt,
		&targetDate,
	); err != nil {
		return nil, classify(err)
	}

	var err error
	if _, err = parseID(c.ID, "checkpoint"); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime(createdAt, "checkpoint created_at"); err != nil {
		return nil, err
	}
	if c.TargetDate, err = parseOptTime(targetDate, "checkpoint target_date"); err != nil {
		return nil, err
	}
	return &c, nil
}

// CheckpointWrite carries one checkpoint for insertion or update.
type CheckpointWrite struct {
	Title      string
	Details    string
	Notes      string
	Importance int
	Urgency    int
	TargetDate *time.Time
}

// Insert writes the expectation and checkpoint rows inside the caller's
// transaction and returns the new identifier.
func (r *CheckpointRepo) Insert(ctx context.Context, tx *sql.Tx, w CheckpointWrite) (string, error) {
	id := newID()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO expectations (expectation_id, kind, title, details, notes, importance, urgency, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, types.KindCheckpoint, w.Title, w.Details, w.Notes, w.Importance, w.Urgency, nowRFC3339(),
	); err != nil {
		return "", classify(err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO checkpoints (checkpoint_id, target_date) VALUES (?, ?)`,
		id, toNullTime(w.TargetDate),
	); err != nil {
		return "", classify(err)
	}
	return id, nil
}

// Update rewrites the checkpoint's rows inside one transaction.
func (r *CheckpointRepo) Update(ctx context.Context, id string, w CheckpointWrite) (*types.Checkpoint, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	tx, err := r.store.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expectations SET title = ?, details = ?, notes = ?, importance = ?, urgency = ?
		  WHERE expectation_id = ? AND kind = ?`,
		w.Title, w.Details, w.Notes, w.Importance, w.Urgency, id, types.KindCheckpoint)
	if err != nil {
		return nil, classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, types.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE checkpoints SET target_date = ? WHERE checkpoint_id = ?`,
		toNullTime(w.TargetDate), id,
	); err != nil {
		return nil, classify(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, classify(err)
	}
	return r.Get(ctx, id)
}

// Delete removes the checkpoint via its expectation row.
func (r *CheckpointRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	var res sql.Result
	err := r.store.retry(ctx, func() error {
		var err error
		res, err = r.store.db.ExecContext(ctx,
			`DELETE FROM expectations WHERE expectation_id = ? AND kind = ?`, id, types.KindCheckpoint)
		return err
	})
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}
