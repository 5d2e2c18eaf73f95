package types

import "time"

// Checkpoint is the canonical record for an expectation with a single target
// date. It has no child relations.
type Checkpoint struct {
	Expectation
	TargetDate *time.Time `json:"target_date,omitempty"`
}
