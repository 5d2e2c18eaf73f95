package types

import "time"

// Value levels, from identity-defining to exploratory.
const (
	ValueLevelCore         = "core"
	ValueLevelSupporting   = "supporting"
	ValueLevelAspirational = "aspirational"
)

// validValueLevels is the set of recognized value levels.
var validValueLevels = map[string]bool{
	ValueLevelCore:         true,
	ValueLevelSupporting:   true,
	ValueLevelAspirational: true,
}

// IsValidValueLevel reports whether level is a recognized value level.
func IsValidValueLevel(level string) bool {
	return validValueLevels[level]
}

// GoalAlignment is a goal aligned to this value, as seen from the value side.
type GoalAlignment struct {
	ID        string  `json:"id"`
	GoalID    string  `json:"goal_id"`
	GoalTitle string  `json:"goal_title"`
	Strength  int     `json:"strength"` // 1..10
	Notes     *string `json:"notes,omitempty"`
}

// Value is the canonical record for a personal value with its goal
// alignments embedded.
//
// Value titles are unique at the application layer only; see the note on
// Unit for why the schema carries no UNIQUE constraint.
type Value struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Priority   int             `json:"priority"`
	Level      string          `json:"level"`
	LifeDomain *string         `json:"life_domain,omitempty"`
	Guidance   *string         `json:"guidance,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	Alignments []GoalAlignment `json:"alignments"`
}
