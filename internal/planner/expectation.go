package planner

import (
	"context"
	"database/sql"
	"time"

	"github.com/pursuit-labs/pursuit/internal/sqlite"
	"github.com/pursuit-labs/pursuit/pkg/types"
)

// CheckpointForm is the input for creating or updating a checkpoint.
type CheckpointForm struct {
	Title      string
	Details    string
	Notes      string
	Importance int
	Urgency    int
	TargetDate *time.Time
}

func (f CheckpointForm) validate() error {
	return types.Expectation{
		Title: f.Title, Importance: f.Importance, Urgency: f.Urgency,
	}.Validate()
}

func (f CheckpointForm) write() sqlite.CheckpointWrite {
	return sqlite.CheckpointWrite{
		Title: f.Title, Details: f.Details, Notes: f.Notes,
		Importance: f.Importance, Urgency: f.Urgency, TargetDate: f.TargetDate,
	}
}

// CreateCheckpoint validates the form, writes the checkpoint atomically, and
// returns the assembled record.
func (p *Planner) CreateCheckpoint(ctx context.Context, form CheckpointForm) (*types.Checkpoint, error) {
	if err := form.validate(); err != nil {
		return nil, err
	}
	id, err := p.store.InTx(ctx, func(tx *sql.Tx) (string, error) {
		return p.store.Checkpoints.Insert(ctx, tx, form.write())
	})
	if err != nil {
		return nil, err
	}
	return p.store.Checkpoints.Get(ctx, id)
}

// UpdateCheckpoint validates the form and rewrites the checkpoint.
func (p *Planner) UpdateCheckpoint(ctx context.Context, id string, form CheckpointForm) (*types.Checkpoint, error) {
	if err := form.validate(); err != nil {
		return nil, err
	}
	return p.store.Checkpoints.Update(ctx, id, form.write())
}

// CommitmentForm is the input for creating or updating a commitment.
type CommitmentForm struct {
	Title       string
	Details     string
	Notes       string
	Importance  int
	Urgency     int
	Deadline    *time.Time
	RequestedBy string
	Consequence *string
}

func (f CommitmentForm) validate() error {
	return types.Expectation{
		Title: f.Title, Importance: f.Importance, Urgency: f.Urgency,
	}.Validate()
}

func (f CommitmentForm) write() sqlite.CommitmentWrite {
	return sqlite.CommitmentWrite{
		Title: f.Title, Details: f.Details, Notes: f.Notes,
		Importance: f.Importance, Urgency: f.Urgency,
		Deadline: f.Deadline, RequestedBy: f.RequestedBy, Consequence: f.Consequence,
	}
}

// CreateCommitment validates the form, writes the commitment atomically, and
// returns the assembled record.
func (p *Planner) CreateCommitment(ctx context.Context, form CommitmentForm) (*types.Commitment, error) {
	if err := form.validate(); err != nil {
		return nil, err
	}
	id, err := p.store.InTx(ctx, func(tx *sql.Tx) (string, error) {
		return p.store.Commitments.Insert(ctx, tx, form.write())
	})
	if err != nil {
		return nil, err
	}
	return p.store.Commitments.Get(ctx, id)
}

// UpdateCommitment validates the form and rewrites the commitment.
func (p *Planner) UpdateCommitment(ctx context.Context, id string, form CommitmentForm) (*types.Commitment, error) {
	if err := form.validate(); err != nil {
		return nil, err
	}
	return p.store.Commitments.Update(ctx, id, form.write())
}
