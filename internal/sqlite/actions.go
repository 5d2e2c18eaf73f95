package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pursuit-labs/pursuit/pkg/types"
)

// ActionRepo assembles canonical Action records: the action row plus JSON
// aggregates for measurements and goal contributions, all from one statement.
type ActionRepo struct {
	store *Store
}

var _ Repository[types.Action] = (*ActionRepo)(nil)

const actionSelect = `
SELECT a.action_id, a.title, a.notes, a.started_at, a.duration_minutes, a.created_at,
       (SELECT json_group_array(json_object(
                'id', m.measurement_id,
                'unit_id', u.unit_id,
                'unit', u.unit,
                'unit_type', u.unit_type,
                'value', m.value) ORDER BY m.measurement_id)
          FROM measurements m
          JOIN units u ON u.unit_id = m.unit_id
         WHERE m.action_id = a.action_id) AS measurements,
       (SELECT json_group_array(json_object(
                'id', c.contribution_id,
                'goal_id', c.goal_id,
                'goal_title', e.title,
                'unit_id', c.unit_id,
                'unit', cu.unit,
                'amount', c.amount) ORDER BY c.contribution_id)
          FROM contributions c
          JOIN expectations e ON e.expectation_id = c.goal_id
          LEFT JOIN units cu ON cu.unit_id = c.unit_id
         WHERE c.action_id = a.action_id) AS contributions
  FROM actions a
 WHERE 1=1`

const actionDefaultOrder = ` ORDER BY a.started_at DESC, a.action_id DESC`

type measurementRow struct {
	ID       string  `json:"id"`
	UnitID   string  `json:"unit_id"`
	Unit     string  `json:"unit"`
	UnitType string  `json:"unit_type"`
	Value    float64 `json:"value"`
}

type contributionRow struct {
	ID        string  `json:"id"`
	GoalID    string  `json:"goal_id"`
	GoalTitle string  `json:"goal_title"`
	UnitID    *string `json:"unit_id"`
	Unit      *string `json:"unit"`
	Amount    float64 `json:"amount"`
}

// Get returns one assembled action.
func (r *ActionRepo) Get(ctx context.Context, id string) (*types.Action, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	actions, err := r.fetch(ctx, " AND a.action_id = ?", []any{id}, "")
	if err != nil {
		return nil, err
	}
	if len(actions) == 0 {
		return nil, types.ErrNotFound
	}
	return &actions[0], nil
}

// FetchAll returns every action, most recently started first.
func (r *ActionRepo) FetchAll(ctx context.Context) ([]types.Action, error) {
	return r.fetch(ctx, "", nil, actionDefaultOrder)
}

// FetchForExport returns actions started within [from, to]. Both bounds nil
// is equivalent to FetchAll.
func (r *ActionRepo) FetchForExport(ctx context.Context, from, to *time.Time) ([]types.Action, error) {
	clause, args, empty := dateRange("a.started_at", from, to)
	if empty {
		return []types.Action{}, nil
	}
	return r.fetch(ctx, clause, args, actionDefaultOrder)
}

// Fetch returns one page of actions.
func (r *ActionRepo) Fetch(ctx context.Context, limit, offset int) ([]types.Action, error) {
	return r.fetch(ctx, "", nil, actionDefaultOrder+limitOffset(limit, offset))
}

// FetchRecent returns the most recently started actions.
func (r *ActionRepo) FetchRecent(ctx context.Context, limit int) ([]types.Action, error) {
	return r.fetch(ctx, "", nil, actionDefaultOrder+limitOffset(limit, 0))
}

// ByGoal returns the actions that contributed to a goal.
func (r *ActionRepo) ByGoal(ctx context.Context, goalID string) ([]types.Action, error) {
	return r.fetch(ctx,
		" AND a.action_id IN (SELECT action_id FROM contributions WHERE goal_id = ?)",
		[]any{goalID}, actionDefaultOrder)
}

// Exists reports whether an action with the given identifier exists.
func (r *ActionRepo) Exists(ctx context.Context, id string) (bool, error) {
	return r.store.exists(ctx, "actions", "action_id", id)
}

func (r *ActionRepo) fetch(ctx context.Context, clause string, args []any, tail string) ([]types.Action, error) {
	rows, err := r.store.query(ctx, actionSelect+clause+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	actions := []types.Action{}
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return actions, nil
}

func scanAction(rows *sql.Rows) (*types.Action, error) {
	var a types.Action
	var startedAt, createdAt string
	var duration sql.NullInt64
	var measurementsJSON, contributionsJSON sql.NullString

	if err := rows.Scan(
		&a.ID, &a.Title, &a.Notes, &startedAt, &duration, &createdAt,
		&measurementsJSON, &contributionsJSON,
	); err != nil {
		return nil, classify(err)
	}

	var err error
	if _, err = parseID(a.ID, "action"); err != nil {
		return nil, err
	}
	if a.StartedAt, err = parseTime(startedAt, "action started_at"); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTime(createdAt, "action created_at"); err != nil {
		return nil, err
	}
	a.DurationMinutes = optInt(duration)

	measurementRows, err := decodeArray[measurementRow](measurementsJSON, "action measurements")
	if err != nil {
		return nil, err
	}
	a.Measurements = make([]types.Measurement, 0, len(measurementRows))
	for _, mr := range measurementRows {
		if _, err := parseID(mr.ID, "measurement"); err != nil {
			return nil, err
		}
		if _, err := parseID(mr.UnitID, "measurement unit"); err != nil {
			return nil, err
		}
		a.Measurements = append(a.Measurements, types.Measurement{
			ID: mr.ID, UnitID: mr.UnitID, Unit: mr.Unit, UnitType: mr.UnitType, Value: mr.Value,
		})
	}

	contributionRows, err := decodeArray[contributionRow](contributionsJSON, "action contributions")
	if err != nil {
		return nil, err
	}
	a.Contributions = make([]types.Contribution, 0, len(contributionRows))
	for _, cr := range contributionRows {
		if _, err := parseID(cr.ID, "contribution"); err != nil {
			return nil, err
		}
		if _, err := parseID(cr.GoalID, "contribution goal"); err != nil {
			return nil, err
		}
		a.Contributions = append(a.Contributions, types.Contribution{
			ID: cr.ID, GoalID: cr.GoalID, GoalTitle: cr.GoalTitle,
			UnitID: cr.UnitID, Unit: cr.Unit, Amount: cr.Amount,
		})
	}

	return &a, nil
}

// MeasurementWrite is a measurement with its catalog reference resolved.
type MeasurementWrite struct {
	UnitID string
	Value  float64
}

// ContributionWrite attributes an amount to an existing goal, optionally
// against a resolved unit.
type ContributionWrite struct {
	GoalID string
	UnitID *string
	Amount float64
}

// ActionWrite carries one action's rows for insertion, references resolved.
type ActionWrite struct {
	Title           string
	Notes           string
	StartedAt       time.Time
	DurationMinutes *int
	Measurements    []MeasurementWrite
	Contributions   []ContributionWrite
}

// Insert writes the action row and its children inside the caller's
// transaction and returns the new action's identifier.
func (r *ActionRepo) Insert(ctx context.Context, tx *sql.Tx, w ActionWrite) (string, error) {
	id := newID()
	now := nowRFC3339()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO actions (action_id, title, notes, started_at, duration_minutes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, w.Title, w.Notes, formatTime(w.StartedAt),
		toNullInt(w.DurationMinutes), now,
	); err != nil {
		return "", classify(err)
	}
	for _, m := range w.Measurements {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO measurements (measurement_id, action_id, unit_id, value) VALUES (?, ?, ?, ?)`,
			newID(), id, m.UnitID, m.Value,
		); err != nil {
			return "", classifyFK(err, types.ErrInvalidUnitReference)
		}
	}
	for _, c := range w.Contributions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO contributions (contribution_id, action_id, goal_id, unit_id, amount)
			 VALUES (?, ?, ?, ?, ?)`,
			newID(), id, c.GoalID, toNullString(c.UnitID), c.Amount,
		); err != nil {
			return "", classifyFK(err, types.ErrInvalidRelatedReference)
		}
	}
	return id, nil
}

// Delete removes the action; measurements and contributions cascade.
func (r *ActionRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	var res sql.Result
	err := r.store.retry(ctx, func() error {
		var err error
		res, err = r.store.db.ExecContext(ctx, `DELETE FROM actions WHERE action_id = ?`, id)
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
