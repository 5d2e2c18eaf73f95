package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pursuit-labs/pursuit/pkg/types"
)

// CommitmentRepo assembles canonical Commitment records: the expectation
// header joined with the deadline, requester, and consequence.
type CommitmentRepo struct {
	store *Store
}

var _ Repository[types.Commitment] = (*CommitmentRepo)(nil)

const commitmentSelect = `
SELECT e.expectation_id, e.title, e.details, e.notes, e.importance, e.urgency, e.created_at,
       c.deadline, c.requested_by, c.consequence
  FROM expectations e
  JOIN commitments c ON c.commitment_id = e.expectation_id
 WHERE 1=1`

const commitmentDefaultOrder = ` ORDER BY (c.deadline IS NULL), c.deadline, e.created_at DESC`

// Get returns one assembled commitment.
func (r *CommitmentRepo) Get(ctx context.Context, id string) (*types.Commitment, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	commitments, err := r.fetch(ctx, " AND e.expectation_id = ?", []any{id}, "")
	if err != nil {
		return nil, err
	}
	if len(commitments) == 0 {
		return nil, types.ErrNotFound
	}
	return &commitments[0], nil
}

// FetchAll returns every commitment, nearest deadline first.
func (r *CommitmentRepo) FetchAll(ctx context.Context) ([]types.Commitment, error) {
	return r.fetch(ctx, "", nil, commitmentDefaultOrder)
}

// FetchForExport returns commitments created within [from, to].
func (r *CommitmentRepo) FetchForExport(ctx context.Context, from, to *time.Time) ([]types.Commitment, error) {
	clause, args, empty := dateRange("e.created_at", from, to)
	if empty {
		return []types.Commitment{}, nil
	}
	return r.fetch(ctx, clause, args, commitmentDefaultOrder)
}

// Fetch returns one page of commitments.
func (r *CommitmentRepo) Fetch(ctx context.Context, limit, offset int) ([]types.Commitment, error) {
	return r.fetch(ctx, "", nil, commitmentDefaultOrder+limitOffset(limit, offset))
}

// FetchRecent returns the most recently created commitments first.
func (r *CommitmentRepo) FetchRecent(ctx context.Context, limit int) ([]types.Commitment, error) {
	return r.fetch(ctx, "", nil,
		" ORDER BY e.created_at DESC, e.expectation_id DESC"+limitOffset(limit, 0))
}

// Exists reports whether a commitment with the given identifier exists.
func (r *CommitmentRepo) Exists(ctx context.Context, id string) (bool, error) {
	return r.store.exists(ctx, "commitments", "commitment_id", id)
}

func (r *CommitmentRepo) fetch(ctx context.Context, clause string, args []any, tail string) ([]types.Commitment, error) {
	rows, err := r.store.query(ctx, commitmentSelect+clause+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	commitments := []types.Commitment{}
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, err
		}
		commitments = append(commitments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return commitments, nil
}

func scanCommitment(rows *sql.Rows) (*types.Commitment, error) {
	var c types.Commitment
	var createdAt string
	var deadline, consequence sql.NullString

	if err := rows.Scan(
		&c.ID, &c.Title, &c.Details, &c.Notes, &c.Importance, &c.Urgency, &createdAt,
		&deadline, &c.RequestedBy, &consequence,
	); err != nil {
		return nil, classify(err)
	}

	var err error
	if _, err = parseID(c.ID, "commitment"); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime(createdAt, "commitment created_at"); err != nil {
		return nil, err
	}
	if c.Deadline, err = parseOptTime(deadline, "commitment deadline"); err != nil {
		return nil, err
	}
	c.Consequence = optString(consequence)
	return &c, nil
}

// CommitmentWrite carries one commitment for insertion or update.
type CommitmentWrite struct {
	Title       string
	Details     string
	Notes       string
	Importance  int
	Urgency     int
	Deadline    *time.Time
	RequestedBy string
	Consequence *string
}

// Insert writes the expectation and commitment rows inside the caller's
// transaction and returns the new identifier.
func (r *CommitmentRepo) Insert(ctx context.Context, tx *sql.Tx, w CommitmentWrite) (string, error) {
	id := newID()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO expectations (expectation_id, kind, title, details, notes, importance, urgency, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, types.KindCommitment, w.Title, w.Details, w.Notes, w.Importance, w.Urgency, nowRFC3339(),
	); err != nil {
		return "", classify(err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO commitments (commitment_id, deadline, requested_by, consequence) VALUES (?, ?, ?, ?)`,
		id, toNullTime(w.Deadline), w.RequestedBy, toNullString(w.Consequence),
	); err != nil {
		return "", classify(err)
	}
	return id, nil
}

// Update rewrites the commitment's rows inside one transaction.
func (r *CommitmentRepo) Update(ctx context.Context, id string, w CommitmentWrite) (*types.Commitment, error) {
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
		w.Title, w.Details, w.Notes, w.Importance, w.Urgency, id, types.KindCommitment)
	if err != nil {
		return nil, classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, types.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE commitments SET deadline = ?, requested_by = ?, consequence = ? WHERE commitment_id = ?`,
		toNullTime(w.Deadline), w.RequestedBy, toNullString(w.Consequence), id,
	); err != nil {
		return nil, classify(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, classify(err)
	}
	return r.Get(ctx, id)
}

// Delete removes the commitment via its expectation row.
func (r *CommitmentRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	var res sql.Result
	err := r.store.retry(ctx, func() error {
		var err error
		res, err = r.store.db.ExecContext(ctx,
			`DELETE FROM expectations WHERE expectation_id = ? AND kind = ?`, id, types.KindCommitment)
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
