package types

import "time"

// MeasureTarget is a target value against a unit of measure, embedded in a
// canonical Goal record. Unit and UnitType are denormalized from the catalog
// so the record is self-contained.
type MeasureTarget struct {
	ID       string  `json:"id"`
	UnitID   string  `json:"unit_id"`
	Unit     string  `json:"unit"`
	UnitType string  `json:"unit_type"`
	Target   float64 `json:"target"`
}

// ValueAlignment links a goal to a personal value with a strength score.
type ValueAlignment struct {
	ID         string  `json:"id"`
	ValueID    string  `json:"value_id"`
	ValueTitle string  `json:"value_title"`
	Strength   int     `json:"strength"` // 1..10
	Notes      *string `json:"notes,omitempty"`
}

// TermAssignment is the at-most-one current term a goal is assigned to.
// When a goal carries multiple historical assignment rows, the most recently
// created one wins.
type TermAssignment struct {
	TermID     string    `json:"term_id"`
	Sequence   int       `json:"sequence"`
	Theme      string    `json:"theme"`
	Status     string    `json:"status"`
	AssignedAt time.Time `json:"assigned_at"`
}

// Goal is the canonical record for a plan item: the expectation header
// flattened with the goal specialization and every child relation embedded.
type Goal struct {
	Expectation
	StartDate       *time.Time       `json:"start_date,omitempty"`
	TargetDate      *time.Time       `json:"target_date,omitempty"`
	ActionPlan      string           `json:"action_plan,omitempty"`
	ExpectedMinutes *int             `json:"expected_minutes,omitempty"`
	MeasureTargets  []MeasureTarget  `json:"measure_targets"`
	ValueAlignments []ValueAlignment `json:"value_alignments"`
	TermAssignment  *TermAssignment  `json:"term_assignment,omitempty"`
}
