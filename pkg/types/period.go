package types

import "time"

// Term statuses.
const (
	TermStatusPlanned   = "planned"
	TermStatusActive    = "active"
	TermStatusCompleted = "completed"
	TermStatusAbandoned = "abandoned"
)

// validTermStatuses is the set of recognized term statuses.
var validTermStatuses = map[string]bool{
	TermStatusPlanned:   true,
	TermStatusActive:    true,
	TermStatusCompleted: true,
	TermStatusAbandoned: true,
}

// IsValidTermStatus reports whether status is a recognized term status.
func IsValidTermStatus(status string) bool {
	return validTermStatuses[status]
}

// Term is the optional specialization of a period: a numbered planning term
// with a theme, a reflection written at its end, and assigned goals.
// AssignedGoalIDs is sorted lexically so records compare reproducibly.
type Term struct {
	Sequence        int      `json:"sequence"`
	Theme           string   `json:"theme,omitempty"`
	Reflection      string   `json:"reflection,omitempty"`
	Status          string   `json:"status"`
	AssignedGoalIDs []string `json:"assigned_goal_ids"`
}

// Period is the canonical record for a chronological span, optionally
// specialized as a term.
type Period struct {
	ID        string    `json:"id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Title     *string   `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Term      *Term     `json:"term,omitempty"`
}
