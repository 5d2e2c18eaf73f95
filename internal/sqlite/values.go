package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pursuit-labs/pursuit/pkg/types"
)

// ValueRepo assembles canonical Value records with their goal alignments
// embedded. Value titles are kept unique here, at the application layer;
// the schema carries no constraint for them.
type ValueRepo struct {
	store *Store
}

var _ Repository[types.Value] = (*ValueRepo)(nil)

const valueSelect = `
SELECT v.value_id, v.title, v.priority, v.level, v.life_domain, v.guidance, v.created_at,
       (SELECT json_group_array(json_object(
                'id', va.alignment_id,
                'goal_id', va.goal_id,
                'goal_title', e.title,
                'strength', va.strength,
                'notes', va.notes) ORDER BY va.alignment_id)
          FROM value_alignments va
          JOIN expectations e ON e.expectation_id = va.goal_id
         WHERE va.value_id = v.value_id) AS alignments
  FROM personal_values v
 WHERE 1=1`

const valueDefaultOrder = ` ORDER BY v.priority, v.title`

type goalAlignmentRow struct {
	ID        string  `json:"id"`
	GoalID    string  `json:"goal_id"`
	GoalTitle string  `json:"goal_title"`
	Strength  int     `json:"strength"`
	Notes     *string `json:"notes"`
}

// Get returns one assembled value.
func (r *ValueRepo) Get(ctx context.Context, id string) (*types.Value, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	values, err := r.fetch(ctx, " AND v.value_id = ?", []any{id}, "")
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, types.ErrNotFound
	}
	return &values[0], nil
}

// FetchAll returns every value ordered by priority.
func (r *ValueRepo) FetchAll(ctx context.Context) ([]types.Value, error) {
	return r.fetch(ctx, "", nil, valueDefaultOrder)
}

// FetchForExport returns values created within [from, to].
func (r *ValueRepo) FetchForExport(ctx context.Context, from, to *time.Time) ([]types.Value, error) {
	clause, args, empty := dateRange("v.created_at", from, to)
	if empty {
		return []types.Value{}, nil
	}
	return r.fetch(ctx, clause, args, valueDefaultOrder)
}

// Fetch returns one page of values.
func (r *ValueRepo) Fetch(ctx context.Context, limit, offset int) ([]types.Value, error) {
	return r.fetch(ctx, "", nil, valueDefaultOrder+limitOffset(limit, offset))
}

// FetchRecent returns the most recently created values first.
func (r *ValueRepo) FetchRecent(ctx context.Context, limit int) ([]types.Value, error) {
	return r.fetch(ctx, "", nil,
		" ORDER BY v.created_at DESC, v.value_id DESC"+limitOffset(limit, 0))
}

// Exists reports whether a value with the given identifier exists.
func (r *ValueRepo) Exists(ctx context.Context, id string) (bool, error) {
	return r.store.exists(ctx, "personal_values", "value_id", id)
}

func (r *ValueRepo) fetch(ctx context.Context, clause string, args []any, tail string) ([]types.Value, error) {
	rows, err := r.store.query(ctx, valueSelect+clause+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []types.Value{}
	for rows.Next() {
		v, err := scanValue(rows)
		if err != nil {
			return nil, err
		}
		values = append(values, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return values, nil
}

func scanValue(rows *sql.Rows) (*types.Value, error) {
	var v types.Value
	var createdAt string
	var lifeDomain, guidance, alignmentsJSON sql.NullString

	if err := rows.Scan(
		&v.ID, &v.Title, &v.Priority, &v.Level, &lifeDomain, &guidance, &createdAt,
		&alignmentsJSON,
	); err != nil {
		return nil, classify(err)
	}

	var err error
	if _, err = parseID(v.ID, "value"); err != nil {
		return nil, err
	}
	if v.CreatedAt, err = parseTime(createdAt, "value created_at"); err != nil {
		return nil, err
	}
	v.LifeDomain = optString(lifeDomain)
	v.Guidance = optString(guidance)

	alignmentRows, err := decodeArray[goalAlignmentRow](alignmentsJSON, "value alignments")
	if err != nil {
		return nil, err
	}
	v.Alignments = make([]types.GoalAlignment, 0, len(alignmentRows))
	for _, ar := range alignmentRows {
		if _, err := parseID(ar.ID, "value alignment"); err != nil {
			return nil, err
		}
		if _, err := parseID(ar.GoalID, "aligned goal"); err != nil {
			return nil, err
		}
		v.Alignments = append(v.Alignments, types.GoalAlignment{
			ID: ar.ID, GoalID: ar.GoalID, GoalTitle: ar.GoalTitle,
			Strength: ar.Strength, Notes: ar.Notes,
		})
	}

	return &v, nil
}

// ValueWrite carries one personal value for insertion or update.
type ValueWrite struct {
	Title      string
	Priority   int
	Level      string
	LifeDomain *string
	Guidance   *string
}

// Create inserts a new value. Titles are unique case-insensitively at the
// application layer; an existing equal title is a duplicate-record error.
func (r *ValueRepo) Create(ctx context.Context, w ValueWrite) (*types.Value, error) {
	if w.Title == "" {
		return nil, types.ErrTitleEmpty
	}
	if !types.IsValidValueLevel(w.Level) {
		return nil, types.ErrConstraintViolation
	}

	taken, err := r.titleTaken(ctx, w.Title, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, types.ErrDuplicateRecord
	}

	id := newID()
	err = r.store.retry(ctx, func() error {
		_, err := r.store.db.ExecContext(ctx,
			`INSERT INTO personal_values (value_id, title, priority, level, life_domain, guidance, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, w.Title, w.Priority, w.Level,
			toNullString(w.LifeDomain), toNullString(w.Guidance), nowRFC3339())
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Update rewrites a value's own row. Alignments belong to goals and are not
// touched here.
func (r *ValueRepo) Update(ctx context.Context, id string, w ValueWrite) (*types.Value, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	if w.Title == "" {
		return nil, types.ErrTitleEmpty
	}
	if !types.IsValidValueLevel(w.Level) {
		return nil, types.ErrConstraintViolation
	}

	taken, err := r.titleTaken(ctx, w.Title, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, types.ErrDuplicateRecord
	}

	var res sql.Result
	err = r.store.retry(ctx, func() error {
		var err error
		res, err = r.store.db.ExecContext(ctx,
			`UPDATE personal_values SET title = ?, priority = ?, level = ?, life_domain = ?, guidance = ?
			  WHERE value_id = ?`,
			w.Title, w.Priority, w.Level, toNullString(w.LifeDomain), toNullString(w.Guidance), id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, types.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes the value; its alignments cascade.
func (r *ValueRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	var res sql.Result
	err := r.store.retry(ctx, func() error {
		var err error
		res, err = r.store.db.ExecContext(ctx, `DELETE FROM personal_values WHERE value_id = ?`, id)
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

// titleTaken reports whether another value already uses the title,
// case-insensitively.
func (r *ValueRepo) titleTaken(ctx context.Context, title, excludeID string) (bool, error) {
	var one int
	err := r.store.queryRow(ctx,
		`SELECT 1 FROM personal_values WHERE title = ? COLLATE NOCASE AND value_id != ? LIMIT 1`,
		title, excludeID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, classify(err)
	}
	return true, nil
}
