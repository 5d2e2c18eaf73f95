package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pursuit-labs/pursuit/pkg/types"
)

// GoalRepo assembles canonical Goal records. One query returns the
// expectation header, the goal specialization, and every child relation: two
// JSON array aggregates (measure targets, value alignments) and one
// recency-resolved JSON object (the at-most-one term assignment). Each
// subquery is scoped to the current root row; parent and children therefore
// always come from the same statement and form a consistent snapshot.
type GoalRepo struct {
	store *Store
}

var _ Repository[types.Goal] = (*GoalRepo)(nil)

// goalSelect is the shared column list and aggregation subqueries. Every
// fetch variant appends only predicates and ordering to it.
const goalSelect = `
SELECT e.expectation_id, e.title, e.details, e.notes, e.importance, e.urgency, e.created_at,
       g.start_date, g.target_date, g.action_plan, g.expected_minutes,
       (SELECT json_group_array(json_object(
                'id', mt.target_id,
                'unit_id', u.unit_id,
                'unit', u.unit,
                'unit_type', u.unit_type,
                'target', mt.target_value) ORDER BY mt.target_id)
          FROM measure_targets mt
          JOIN units u ON u.unit_id = mt.unit_id
         WHERE mt.goal_id = g.goal_id) AS measure_targets,
       (SELECT json_group_array(json_object(
                'id', va.alignment_id,
                'value_id', v.value_id,
                'value_title', v.title,
                'strength', va.strength,
                'notes', va.notes) ORDER BY va.alignment_id)
          FROM value_alignments va
          JOIN personal_values v ON v.value_id = va.value_id
         WHERE va.goal_id = g.goal_id) AS value_alignments,
       (SELECT json_object(
                'term_id', t.term_id,
                'sequence', t.sequence,
                'theme', t.theme,
                'status', t.status,
                'assigned_at', tg.created_at)
          FROM term_goals tg
          JOIN terms t ON t.term_id = tg.term_id
         WHERE tg.goal_id = g.goal_id
         ORDER BY tg.created_at DESC, tg.assignment_id DESC
         LIMIT 1) AS term_assignment
  FROM expectations e
  JOIN goals g ON g.goal_id = e.expectation_id
 WHERE 1=1`

// goalDefaultOrder lists goals by target date ascending with undated goals
// last, newest created first among equals.
const goalDefaultOrder = ` ORDER BY (g.target_date IS NULL), g.target_date, e.created_at DESC`

// Intermediate rows decoded from the JSON aggregates. The loosely-typed JSON
// never leaves this boundary.
type measureTargetRow struct {
	ID       string  `json:"id"`
	UnitID   string  `json:"unit_id"`
	Unit     string  `json:"unit"`
	UnitType string  `json:"unit_type"`
	Target   float64 `json:"target"`
}

type valueAlignmentRow struct {
	ID         string  `json:"id"`
	ValueID    string  `json:"value_id"`
	ValueTitle string  `json:"value_title"`
	Strength   int     `json:"strength"`
	Notes      *string `json:"notes"`
}

type termAssignmentRow struct {
	TermID     string `json:"term_id"`
	Sequence   int    `json:"sequence"`
	Theme      string `json:"theme"`
	Status     string `json:"status"`
	AssignedAt string `json:"assigned_at"`
}

// Get returns one assembled goal.
func (r *GoalRepo) Get(ctx context.Context, id string) (*types.Goal, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	goals, err := r.fetch(ctx, " AND e.expectation_id = ?", []any{id}, "")
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return nil, types.ErrNotFound
	}
	return &goals[0], nil
}

// FetchAll returns every goal in the default order.
func (r *GoalRepo) FetchAll(ctx context.Context) ([]types.Goal, error) {
	return r.fetch(ctx, "", nil, goalDefaultOrder)
}

// FetchForExport returns goals created within [from, to]. Both bounds nil is
// equivalent to FetchAll.
func (r *GoalRepo) FetchForExport(ctx context.Context, from, to *time.Time) ([]types.Goal, error) {
	clause, args, empty := dateRange("e.created_at", from, to)
	if empty {
		return []types.Goal{}, nil
	}
	return r.fetch(ctx, clause, args, goalDefaultOrder)
}

// Fetch returns one page of goals in the default order.
func (r *GoalRepo) Fetch(ctx context.Context, limit, offset int) ([]types.Goal, error) {
	return r.fetch(ctx, "", nil, goalDefaultOrder+limitOffset(limit, offset))
}

// FetchRecent returns the most recently created goals first.
func (r *GoalRepo) FetchRecent(ctx context.Context, limit int) ([]types.Goal, error) {
	return r.fetch(ctx, "", nil,
		" ORDER BY e.created_at DESC, e.expectation_id DESC"+limitOffset(limit, 0))
}

// ByTerm returns the goals assigned to a term.
func (r *GoalRepo) ByTerm(ctx context.Context, termID string) ([]types.Goal, error) {
	return r.fetch(ctx,
		" AND g.goal_id IN (SELECT goal_id FROM term_goals WHERE term_id = ?)",
		[]any{termID}, goalDefaultOrder)
}

// ByValue returns the goals aligned to a personal value.
func (r *GoalRepo) ByValue(ctx context.Context, valueID string) ([]types.Goal, error) {
	return r.fetch(ctx,
		" AND g.goal_id IN (SELECT goal_id FROM value_alignments WHERE value_id = ?)",
		[]any{valueID}, goalDefaultOrder)
}

// Exists reports whether a goal with the given identifier exists.
func (r *GoalRepo) Exists(ctx context.Context, id string) (bool, error) {
	return r.store.exists(ctx, "goals", "goal_id", id)
}

func (r *GoalRepo) fetch(ctx context.Context, clause string, args []any, tail string) ([]types.Goal, error) {
	rows, err := r.store.query(ctx, goalSelect+clause+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []types.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return goals, nil
}

// scanGoal converts one root row plus its JSON aggregates into a canonical
// record. Decode failures surface; they are never skipped.
func scanGoal(rows *sql.Rows) (*types.Goal, error) {
	var g types.Goal
	var createdAt, actionPlan string
	var startDate, targetDate, targetsJSON, alignmentsJSON, termJSON sql.NullString
	var expectedMinutes sql.NullInt64

	if err := rows.Scan(
		&g.ID, &g.Title, &g.Details, &g.Notes, &g.Importance, &g.Urgency, &createdAt,
		&startDate, &targetDate, &actionPlan, &expectedMinutes,
		&targetsJSON, &alignmentsJSON, &termJSON,
	); err != nil {
		return nil, classify(err)
	}

	var err error
	if _, err = parseID(g.ID, "goal"); err != nil {
		return nil, err
	}
	if g.CreatedAt, err = parseTime(createdAt, "goal created_at"); err != nil {
		return nil, err
	}
	if g.StartDate, err = parseOptTime(startDate, "goal start_date"); err != nil {
		return nil, err
	}
	if g.TargetDate, err = parseOptTime(targetDate, "goal target_date"); err != nil {
		return nil, err
	}
	g.ActionPlan = actionPlan
	g.ExpectedMinutes = optInt(expectedMinutes)

	targetRows, err := decodeArray[measureTargetRow](targetsJSON, "goal measure targets")
	if err != nil {
		return nil, err
	}
	g.MeasureTargets = make([]types.MeasureTarget, 0, len(targetRows))
	for _, tr := range targetRows {
		if _, err := parseID(tr.ID, "measure target"); err != nil {
			return nil, err
		}
		if _, err := parseID(tr.UnitID, "measure target unit"); err != nil {
			return nil, err
		}
		g.MeasureTargets = append(g.MeasureTargets, types.MeasureTarget{
			ID: tr.ID, UnitID: tr.UnitID, Unit: tr.Unit, UnitType: tr.UnitType, Target: tr.Target,
		})
	}

	alignmentRows, err := decodeArray[valueAlignmentRow](alignmentsJSON, "goal value alignments")
	if err != nil {
		return nil, err
	}
	g.ValueAlignments = make([]types.ValueAlignment, 0, len(alignmentRows))
	for _, ar := range alignmentRows {
		if _, err := parseID(ar.ID, "value alignment"); err != nil {
			return nil, err
		}
		if _, err := parseID(ar.ValueID, "value alignment value"); err != nil {
			return nil, err
		}
		g.ValueAlignments = append(g.ValueAlignments, types.ValueAlignment{
			ID: ar.ID, ValueID: ar.ValueID, ValueTitle: ar.ValueTitle,
			Strength: ar.Strength, Notes: ar.Notes,
		})
	}

	termRow, err := decodeObject[termAssignmentRow](termJSON, "goal term assignment")
	if err != nil {
		return nil, err
	}
	if termRow != nil {
		if _, err := parseID(termRow.TermID, "term assignment"); err != nil {
			return nil, err
		}
		assignedAt, err := parseTime(termRow.AssignedAt, "term assignment date")
		if err != nil {
			return nil, err
		}
		g.TermAssignment = &types.TermAssignment{
			TermID: termRow.TermID, Sequence: termRow.Sequence,
			Theme: termRow.Theme, Status: termRow.Status, AssignedAt: assignedAt,
		}
	}

	return &g, nil
}

// TargetWrite is a measure target with its catalog reference already
// resolved to an identifier.
type TargetWrite struct {
	UnitID string
	Target float64
}

// AlignmentWrite is a value alignment ready for insertion.
type AlignmentWrite struct {
	ValueID  string
	Strength int
	Notes    *string
}

// GoalWrite carries one goal's rows for insertion. Every reference is an
// existing identifier; symbolic (unit, type) pairs must have been resolved
// through the catalog before a GoalWrite is built.
type GoalWrite struct {
	Title           string
	Details         string
	Notes           string
	Importance      int
	Urgency         int
	StartDate       *time.Time
	TargetDate      *time.Time
	ActionPlan      string
	ExpectedMinutes *int
	Targets         []TargetWrite
	Alignments      []AlignmentWrite
}

// Insert writes the expectation row, the goal row, and every child row
// inside the caller's transaction, and returns the new goal's identifier.
func (r *GoalRepo) Insert(ctx context.Context, tx *sql.Tx, w GoalWrite) (string, error) {
	id := newID()
	now := nowRFC3339()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO expectations (expectation_id, kind, title, details, notes, importance, urgency, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, types.KindGoal, w.Title, w.Details, w.Notes, w.Importance, w.Urgency, now,
	); err != nil {
		return "", classify(err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO goals (goal_id, start_date, target_date, action_plan, expected_minutes)
		 VALUES (?, ?, ?, ?, ?)`,
		id, toNullTime(w.StartDate), toNullTime(w.TargetDate), w.ActionPlan, toNullInt(w.ExpectedMinutes),
	); err != nil {
		return "", classify(err)
	}
	if err := r.insertChildren(ctx, tx, id, w); err != nil {
		return "", err
	}
	return id, nil
}

// Update rewrites the goal's own rows and replaces its dependent child rows
// wholesale inside one transaction.
func (r *GoalRepo) Update(ctx context.Context, id string, w GoalWrite) (*types.Goal, error) {
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
		w.Title, w.Details, w.Notes, w.Importance, w.Urgency, id, types.KindGoal)
	if err != nil {
		return nil, classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, types.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE goals SET start_date = ?, target_date = ?, action_plan = ?, expected_minutes = ?
		  WHERE goal_id = ?`,
		toNullTime(w.StartDate), toNullTime(w.TargetDate), w.ActionPlan, toNullInt(w.ExpectedMinutes), id,
	); err != nil {
		return nil, classify(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM measure_targets WHERE goal_id = ?`, id); err != nil {
		return nil, classify(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM value_alignments WHERE goal_id = ?`, id); err != nil {
		return nil, classify(err)
	}
	if err := r.insertChildren(ctx, tx, id, w); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, classify(err)
	}
	return r.Get(ctx, id)
}

// Delete removes the goal by deleting its expectation row; child rows cascade.
func (r *GoalRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	var res sql.Result
	err := r.store.retry(ctx, func() error {
		var err error
		res, err = r.store.db.ExecContext(ctx,
			`DELETE FROM expectations WHERE expectation_id = ? AND kind = ?`, id, types.KindGoal)
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

func (r *GoalRepo) insertChildren(ctx context.Context, tx *sql.Tx, goalID string, w GoalWrite) error {
	now := nowRFC3339()
	for _, t := range w.Targets {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO measure_targets (target_id, goal_id, unit_id, target_value, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			newID(), goalID, t.UnitID, t.Target, now,
		); err != nil {
			return classifyFK(err, types.ErrInvalidUnitReference)
		}
	}
	for _, a := range w.Alignments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO value_alignments (alignment_id, value_id, goal_id, strength, notes, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			newID(), a.ValueID, goalID, a.Strength, toNullString(a.Notes), now,
		); err != nil {
			return classifyFK(err, types.ErrInvalidRelatedReference)
		}
	}
	return nil
}
