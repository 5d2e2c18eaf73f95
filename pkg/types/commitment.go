package types

import "time"

// Commitment is the canonical record for an expectation made to someone else:
// a deadline, who asked for it, and what happens if it slips.
type Commitment struct {
	Expectation
	Deadline    *time.Time `json:"deadline,omitempty"`
	RequestedBy string     `json:"requested_by,omitempty"`
	Consequence *string    `json:"consequence,omitempty"`
}
