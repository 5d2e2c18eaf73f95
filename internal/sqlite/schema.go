// Package sqlite implements the Pursuit store on an embedded SQLite database.
//
// Reads assemble canonical records in a single round trip per entity family:
// the root query selects every root column plus one JSON aggregation subquery
// per child relation, so parent and children come from the same statement and
// form a consistent snapshot. Writes go through per-entity insert helpers that
// run inside a caller-owned transaction with all catalog references resolved
// up front.
package sqlite

// Schema DDL. Dates are RFC3339 text, identifiers are UUID v7 text.
//
// There is deliberately no UNIQUE constraint on units(unit, unit_type) or
// personal_values(title): those identities are enforced at the application
// layer only, because a storage constraint would break offline multi-writer
// merges. Foreign keys from child tables cascade so deleting an expectation,
// action, value, or period removes its dependents.
const (
	createExpectations = `CREATE TABLE expectations (
    expectation_id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    title TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    importance INTEGER NOT NULL,
    urgency INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`

	createGoals = `CREATE TABLE goals (
    goal_id TEXT PRIMARY KEY,
    start_date TEXT,
    target_date TEXT,
    action_plan TEXT NOT NULL DEFAULT '',
    expected_minutes INTEGER,
    FOREIGN KEY (goal_id) REFERENCES expectations(expectation_id) ON DELETE CASCADE
);`

	createCheckpoints = `CREATE TABLE checkpoints (
    checkpoint_id TEXT PRIMARY KEY,
    target_date TEXT,
    FOREIGN KEY (checkpoint_id) REFERENCES expectations(expectation_id) ON DELETE CASCADE
);`

	createCommitments = `CREATE TABLE commitments (
    commitment_id TEXT PRIMARY KEY,
    deadline TEXT,
    requested_by TEXT NOT NULL DEFAULT '',
    consequence TEXT,
    FOREIGN KEY (commitment_id) REFERENCES expectations(expectation_id) ON DELETE CASCADE
);`

	createMeasureTargets = `CREATE TABLE measure_targets (
    target_id TEXT PRIMARY KEY,
    goal_id TEXT NOT NULL,
    unit_id TEXT NOT NULL,
    target_value REAL NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (goal_id) REFERENCES goals(goal_id) ON DELETE CASCADE,
    FOREIGN KEY (unit_id) REFERENCES units(unit_id)
);`

	createActions = `CREATE TABLE actions (
    action_id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    started_at TEXT NOT NULL,
    duration_minutes INTEGER,
    created_at TEXT NOT NULL
);`

	createMeasurements = `CREATE TABLE measurements (
    measurement_id TEXT PRIMARY KEY,
    action_id TEXT NOT NULL,
    unit_id TEXT NOT NULL,
    value REAL NOT NULL,
    FOREIGN KEY (action_id) REFERENCES actions(action_id) ON DELETE CASCADE,
    FOREIGN KEY (unit_id) REFERENCES units(unit_id)
);`

	createContributions = `CREATE TABLE contributions (
    contribution_id TEXT PRIMARY KEY,
    action_id TEXT NOT NULL,
    goal_id TEXT NOT NULL,
    unit_id TEXT,
    amount REAL NOT NULL,
    FOREIGN KEY (action_id) REFERENCES actions(action_id) ON DELETE CASCADE,
    FOREIGN KEY (goal_id) REFERENCES goals(goal_id) ON DELETE CASCADE,
    FOREIGN KEY (unit_id) REFERENCES units(unit_id)
);`

	createPersonalValues = `CREATE TABLE personal_values (
    value_id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    priority INTEGER NOT NULL,
    level TEXT NOT NULL,
    life_domain TEXT,
    guidance TEXT,
    created_at TEXT NOT NULL
);`

	createValueAlignments = `CREATE TABLE value_alignments (
    alignment_id TEXT PRIMARY KEY,
    value_id TEXT NOT NULL,
    goal_id TEXT NOT NULL,
    strength INTEGER NOT NULL,
    notes TEXT,
    created_at TEXT NOT NULL,
    FOREIGN KEY (value_id) REFERENCES personal_values(value_id) ON DELETE CASCADE,
    FOREIGN KEY (goal_id) REFERENCES goals(goal_id) ON DELETE CASCADE
);`

	createPeriods = `CREATE TABLE periods (
    period_id TEXT PRIMARY KEY,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    title TEXT,
    created_at TEXT NOT NULL
);`

	createTerms = `CREATE TABLE terms (
    term_id TEXT PRIMARY KEY,
    sequence INTEGER NOT NULL,
    theme TEXT NOT NULL DEFAULT '',
    reflection TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    FOREIGN KEY (term_id) REFERENCES periods(period_id) ON DELETE CASCADE
);`

	createTermGoals = `CREATE TABLE term_goals (
    assignment_id TEXT PRIMARY KEY,
    term_id TEXT NOT NULL,
    goal_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (term_id) REFERENCES terms(term_id) ON DELETE CASCADE,
    FOREIGN KEY (goal_id) REFERENCES goals(goal_id) ON DELETE CASCADE
);`

	createUnits = `CREATE TABLE units (
    unit_id TEXT PRIMARY KEY,
    unit TEXT NOT NULL,
    unit_type TEXT NOT NULL,
    title TEXT NOT NULL,
    canonical_unit TEXT,
    conversion_factor REAL,
    created_at TEXT NOT NULL
);`
)

// Index DDL for common lookups.
const (
	idxExpectationsKind     = `CREATE INDEX idx_expectations_kind ON expectations(kind);`
	idxMeasureTargetsGoal   = `CREATE INDEX idx_measure_targets_goal ON measure_targets(goal_id);`
	idxMeasurementsAction   = `CREATE INDEX idx_measurements_action ON measurements(action_id);`
	idxContributionsAction  = `CREATE INDEX idx_contributions_action ON contributions(action_id);`
	idxContributionsGoal    = `CREATE INDEX idx_contributions_goal ON contributions(goal_id);`
	idxValueAlignmentsGoal  = `CREATE INDEX idx_value_alignments_goal ON value_alignments(goal_id);`
	idxValueAlignmentsValue = `CREATE INDEX idx_value_alignments_value ON value_alignments(value_id);`
	idxTermGoalsTerm        = `CREATE INDEX idx_term_goals_term ON term_goals(term_id);`
	idxTermGoalsGoal        = `CREATE INDEX idx_term_goals_goal ON term_goals(goal_id);`
	idxUnitsIdentity        = `CREATE INDEX idx_units_identity ON units(unit, unit_type);`
	idxActionsStarted       = `CREATE INDEX idx_actions_started ON actions(started_at);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createUnits,
	createExpectations,
	createGoals,
	createCheckpoints,
	createCommitments,
	createMeasureTargets,
	createActions,
	createMeasurements,
	createContributions,
	createPersonalValues,
	createValueAlignments,
	createPeriods,
	createTerms,
	createTermGoals,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxExpectationsKind,
	idxMeasureTargetsGoal,
	idxMeasurementsAction,
	idxContributionsAction,
	idxContributionsGoal,
	idxValueAlignmentsGoal,
	idxValueAlignmentsValue,
	idxTermGoalsTerm,
	idxTermGoalsGoal,
	idxUnitsIdentity,
	idxActionsStarted,
}
