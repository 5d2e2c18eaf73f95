package types

import "time"

// Expectation kinds. Each row in the expectations table carries exactly one.
const (
	KindGoal       = "goal"
	KindCheckpoint = "checkpoint"
	KindCommitment = "commitment"
)

// Expectation is the shared header for goals, checkpoints, and commitments.
// Canonical records embed it so the specialization reads as one flat record.
type Expectation struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Details    string    `json:"details,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Importance int       `json:"importance"` // 1..10
	Urgency    int       `json:"urgency"`    // 1..10
	CreatedAt  time.Time `json:"created_at"`
}

// Validate checks the structural constraints shared by every expectation
// specialization: a non-empty title and importance/urgency in 1..10.
func (e Expectation) Validate() error {
	if e.Title == "" {
		return ErrTitleEmpty
	}
	if e.Importance < 1 || e.Importance > 10 {
		return ErrImportanceRange
	}
	if e.Urgency < 1 || e.Urgency > 10 {
		return ErrUrgencyRange
	}
	return nil
}
