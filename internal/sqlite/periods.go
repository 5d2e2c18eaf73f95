package sqlite

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/pursuit-labs/pursuit/pkg/types"
)

// PeriodRepo assembles canonical Period records. The optional term
// specialization joins in the same statement, and the term's assigned goal
// identifiers aggregate as a JSON array scoped to that term. Assigned IDs
// sort lexically so two reads of the same period always compare equal.
type PeriodRepo struct {
	store *Store
}

var _ Repository[types.Period] = (*PeriodRepo)(nil)

const periodSelect = `
SELECT p.period_id, p.start_date, p.end_date, p.title, p.created_at,
       t.term_id, t.sequence, t.theme, t.reflection, t.status,
       (SELECT json_group_array(tg.goal_id)
          FROM term_goals tg
         WHERE tg.term_id = t.term_id) AS assigned_goals
  FROM periods p
  LEFT JOIN terms t ON t.term_id = p.period_id
 WHERE 1=1`

const periodDefaultOrder = ` ORDER BY p.start_date DESC, p.period_id DESC`

// Get returns one assembled period.
func (r *PeriodRepo) Get(ctx context.Context, id string) (*types.Period, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	periods, err := r.fetch(ctx, " AND p.period_id = ?", []any{id}, "")
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, types.ErrNotFound
	}
	return &periods[0], nil
}

// FetchAll returns every period, most recent first.
func (r *PeriodRepo) FetchAll(ctx context.Context) ([]types.Period, error) {
	return r.fetch(ctx, "", nil, periodDefaultOrder)
}

// FetchForExport returns periods starting within [from, to].
func (r *PeriodRepo) FetchForExport(ctx context.Context, from, to *time.Time) ([]types.Period, error) {
	clause, args, empty := dateRange("p.start_date", from, to)
	if empty {
		return []types.Period{}, nil
	}
	return r.fetch(ctx, clause, args, periodDefaultOrder)
}

// Fetch returns one page of periods.
func (r *PeriodRepo) Fetch(ctx context.Context, limit, offset int) ([]types.Period, error) {
	return r.fetch(ctx, "", nil, periodDefaultOrder+limitOffset(limit, offset))
}

// FetchRecent returns the most recently created periods first.
func (r *PeriodRepo) FetchRecent(ctx context.Context, limit int) ([]types.Period, error) {
	return r.fetch(ctx, "", nil,
		" ORDER BY p.created_at DESC, p.period_id DESC"+limitOffset(limit, 0))
}

// Exists reports whether a period with the given identifier exists.
func (r *PeriodRepo) Exists(ctx context.Context, id string) (bool, error) {
	return r.store.exists(ctx, "periods", "period_id", id)
}

func (r *PeriodRepo) fetch(ctx context.Context, clause string, args []any, tail string) ([]types.Period, error) {
	rows, err := r.store.query(ctx, periodSelect+clause+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	periods := []types.Period{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return periods, nil
}

func scanPeriod(rows *sql.Rows) (*types.Period, error) {
	var p types.Period
	var startDate, endDate, createdAt string
	var title, termID, theme, reflection, status, goalsJSON sql.NullString
	var sequence sql.NullInt64

	if err := rows.Scan(
		&p.ID, &startDate, &endDate, &title, &createdAt,
		&termID, &sequence, &theme, &reflection, &status, &goalsJSON,
	); err != nil {
		return nil, classify(err)
	}

	var err error
	if _, err = parseID(p.ID, "period"); err != nil {
		return nil, err
	}
	if p.StartDate, err = parseTime(startDate, "period start_date"); err != nil {
		return nil, err
	}
	if p.EndDate, err = parseTime(endDate, "period end_date"); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt, "period created_at"); err != nil {
		return nil, err
	}
	p.Title = optString(title)

	if termID.Valid {
		goalIDs, err := decodeArray[string](goalsJSON, "term assigned goals")
		if err != nil {
			return nil, err
		}
		for _, gid := range goalIDs {
			if _, err := parseID(gid, "assigned goal"); err != nil {
				return nil, err
			}
		}
		sort.Strings(goalIDs)
		if goalIDs == nil {
			goalIDs = []string{}
		}
		p.Term = &types.Term{
			Sequence:        int(sequence.Int64),
			Theme:           theme.String,
			Reflection:      reflection.String,
			Status:          status.String,
			AssignedGoalIDs: goalIDs,
		}
	}

	return &p, nil
}

// TermWrite is the optional term specialization of a new period.
type TermWrite struct {
	Sequence int
	Theme    string
	Status   string
	GoalIDs  []string
}

// PeriodWrite carries one period (and optional term) for insertion.
type PeriodWrite struct {
	StartDate time.Time
	EndDate   time.Time
	Title     *string
	Term      *TermWrite
}

// Insert writes the period row, the optional term row, and any goal
// assignments inside the caller's transaction.
func (r *PeriodRepo) Insert(ctx context.Context, tx *sql.Tx, w PeriodWrite) (string, error) {
	id := newID()
	now := nowRFC3339()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO periods (period_id, start_date, end_date, title, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, formatTime(w.StartDate), formatTime(w.EndDate),
		toNullString(w.Title), now,
	); err != nil {
		return "", classify(err)
	}
	if w.Term != nil {
		status := w.Term.Status
		if status == "" {
			status = types.TermStatusPlanned
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO terms (term_id, sequence, theme, reflection, status) VALUES (?, ?, ?, '', ?)`,
			id, w.Term.Sequence, w.Term.Theme, status,
		); err != nil {
			return "", classify(err)
		}
		for _, gid := range w.Term.GoalIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO term_goals (assignment_id, term_id, goal_id, created_at) VALUES (?, ?, ?, ?)`,
				newID(), id, gid, now,
			); err != nil {
				return "", classifyFK(err, types.ErrInvalidRelatedReference)
			}
		}
	}
	return id, nil
}

// AssignGoal adds a goal to a term. Assignment rows accumulate as history;
// on the goal side the most recently created assignment wins.
func (r *PeriodRepo) AssignGoal(ctx context.Context, termID, goalID string) error {
	if termID == "" || goalID == "" {
		return types.ErrInvalidID
	}
	return r.store.retry(ctx, func() error {
		_, err := r.store.db.ExecContext(ctx,
			`INSERT INTO term_goals (assignment_id, term_id, goal_id, created_at) VALUES (?, ?, ?, ?)`,
			newID(), termID, goalID, nowRFC3339())
		if err != nil {
			return classifyFK(err, types.ErrInvalidRelatedReference)
		}
		return nil
	})
}

// SetTermOutcome updates a term's status and reflection at period close.
func (r *PeriodRepo) SetTermOutcome(ctx context.Context, termID, status, reflection string) error {
	if termID == "" {
		return types.ErrInvalidID
	}
	if !types.IsValidTermStatus(status) {
		return types.ErrConstraintViolation
	}
	var res sql.Result
	err := r.store.retry(ctx, func() error {
		var err error
		res, err = r.store.db.ExecContext(ctx,
			`UPDATE terms SET status = ?, reflection = ? WHERE term_id = ?`,
			status, reflection, termID)
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

// Delete removes the period; the term and its assignments cascade.
func (r *PeriodRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	var res sql.Result
	err := r.store.retry(ctx, func() error {
		var err error
		res, err = r.store.db.ExecContext(ctx, `DELETE FROM periods WHERE period_id = ?`, id)
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
