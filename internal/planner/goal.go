package planner

import (
	"context"
	"database/sql"
	"time"

	"github.com/pursuit-labs/pursuit/internal/sqlite"
	"github.com/pursuit-labs/pursuit/pkg/types"
)

// TargetForm is a measure target with a symbolic unit reference.
type TargetForm struct {
	UnitRef
	Target float64
}

// AlignmentForm aligns the new goal to an existing personal value.
type AlignmentForm struct {
	ValueID  string
	Strength int
	Notes    *string
}

// GoalForm is the input for creating or updating a goal.
type GoalForm struct {
	Title           string
	Details         string
	Notes           string
	Importance      int
	Urgency         int
	StartDate       *time.Time
	TargetDate      *time.Time
	ActionPlan      string
	ExpectedMinutes *int
	Targets         []TargetForm
	Alignments      []AlignmentForm
}

func (f GoalForm) validate() error {
	header := types.Expectation{
		Title: f.Title, Importance: f.Importance, Urgency: f.Urgency,
	}
	if err := header.Validate(); err != nil {
		return err
	}
	for _, a := range f.Alignments {
		if a.ValueID == "" {
			return types.ErrInvalidID
		}
		if a.Strength < 1 || a.Strength > 10 {
			return types.ErrStrengthRange
		}
	}
	return nil
}

// resolveGoalWrite turns the form into a write with every unit reference
// resolved to a catalog identifier. This is phase one; no transaction is open.
func (p *Planner) resolveGoalWrite(ctx context.Context, form GoalForm) (sqlite.GoalWrite, error) {
	write := sqlite.GoalWrite{
		Title:           form.Title,
		Details:         form.Details,
		Notes:           form.Notes,
		Importance:      form.Importance,
		Urgency:         form.Urgency,
		StartDate:       form.StartDate,
		TargetDate:      form.TargetDate,
		ActionPlan:      form.ActionPlan,
		ExpectedMinutes: form.ExpectedMinutes,
	}
	for _, t := range form.Targets {
		u, err := p.store.Units.GetOrCreate(ctx, t.Unit, t.UnitType, t.Title)
		if err != nil {
			return sqlite.GoalWrite{}, err
		}
		write.Targets = append(write.Targets, sqlite.TargetWrite{UnitID: u.ID, Target: t.Target})
	}
	for _, a := range form.Alignments {
		write.Alignments = append(write.Alignments, sqlite.AlignmentWrite{
			ValueID: a.ValueID, Strength: a.Strength, Notes: a.Notes,
		})
	}
	return write, nil
}

// CreateGoal validates the form, resolves its unit references, writes the
// goal atomically, and returns the assembled record.
func (p *Planner) CreateGoal(ctx context.Context, form GoalForm) (*types.Goal, error) {
	if err := form.validate(); err != nil {
		return nil, err
	}
	write, err := p.resolveGoalWrite(ctx, form)
	if err != nil {
		return nil, err
	}

	id, err := p.store.InTx(ctx, func(tx *sql.Tx) (string, error) {
		return p.store.Goals.Insert(ctx, tx, write)
	})
	if err != nil {
		return nil, err
	}
	p.log.Info().Str("goal", id).Int("targets", len(write.Targets)).Msg("goal created")
	return p.store.Goals.Get(ctx, id)
}

// UpdateGoal validates the form, resolves its unit references, and replaces
// the goal's rows wholesale.
func (p *Planner) UpdateGoal(ctx context.Context, id string, form GoalForm) (*types.Goal, error) {
	if err := form.validate(); err != nil {
		return nil, err
	}
	write, err := p.resolveGoalWrite(ctx, form)
	if err != nil {
		return nil, err
	}
	return p.store.Goals.Update(ctx, id, write)
}
