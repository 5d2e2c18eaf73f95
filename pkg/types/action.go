package types

import "time"

// Measurement is a value logged against a unit of measure on an action.
type Measurement struct {
	ID       string  `json:"id"`
	UnitID   string  `json:"unit_id"`
	Unit     string  `json:"unit"`
	UnitType string  `json:"unit_type"`
	Value    float64 `json:"value"`
}

// Contribution attributes part of an action to a specific goal, optionally
// against a unit of measure.
type Contribution struct {
	ID        string  `json:"id"`
	GoalID    string  `json:"goal_id"`
	GoalTitle string  `json:"goal_title"`
	UnitID    *string `json:"unit_id,omitempty"`
	Unit      *string `json:"unit,omitempty"`
	Amount    float64 `json:"amount"`
}

// Action is the canonical record for a logged occurrence with its
// measurements and goal contributions embedded.
type Action struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Notes           string         `json:"notes,omitempty"`
	StartedAt       time.Time      `json:"started_at"`
	DurationMinutes *int           `json:"duration_minutes,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	Measurements    []Measurement  `json:"measurements"`
	Contributions   []Contribution `json:"contributions"`
}
