package planner

import (
	"context"
	"database/sql"
	"time"

	"github.com/pursuit-labs/pursuit/internal/sqlite"
	"github.com/pursuit-labs/pursuit/pkg/types"
)

// TermForm is the optional term specialization of a new period.
type TermForm struct {
	Sequence int
	Theme    string
	Status   string
	GoalIDs  []string
}

// PeriodForm is the input for creating a period, optionally as a term.
type PeriodForm struct {
	StartDate time.Time
	EndDate   time.Time
	Title     *string
	Term      *TermForm
}

func (f PeriodForm) validate() error {
	if f.EndDate.Before(f.StartDate) {
		return types.ErrPeriodRange
	}
	if f.Term != nil {
		if f.Term.Status != "" && !types.IsValidTermStatus(f.Term.Status) {
			return types.ErrConstraintViolation
		}
		for _, id := range f.Term.GoalIDs {
			if id == "" {
				return types.ErrInvalidID
			}
		}
	}
	return nil
}

// CreatePeriod validates the form, writes the period and optional term
// atomically, and returns the assembled record.
func (p *Planner) CreatePeriod(ctx context.Context, form PeriodForm) (*types.Period, error) {
	if err := form.validate(); err != nil {
		return nil, err
	}

	write := sqlite.PeriodWrite{
		StartDate: form.StartDate,
		EndDate:   form.EndDate,
		Title:     form.Title,
	}
	if form.Term != nil {
		write.Term = &sqlite.TermWrite{
			Sequence: form.Term.Sequence,
			Theme:    form.Term.Theme,
			Status:   form.Term.Status,
			GoalIDs:  form.Term.GoalIDs,
		}
	}

	id, err := p.store.InTx(ctx, func(tx *sql.Tx) (string, error) {
		return p.store.Periods.Insert(ctx, tx, write)
	})
	if err != nil {
		return nil, err
	}
	p.log.Info().Str("period", id).Bool("term", form.Term != nil).Msg("period created")
	return p.store.Periods.Get(ctx, id)
}

// AssignGoal adds a goal to a term and returns the goal reassembled with its
// new assignment.
func (p *Planner) AssignGoal(ctx context.Context, termID, goalID string) (*types.Goal, error) {
	if err := p.store.Periods.AssignGoal(ctx, termID, goalID); err != nil {
		return nil, err
	}
	p.log.Info().Str("term", termID).Str("goal", goalID).Msg("goal assigned to term")
	return p.store.Goals.Get(ctx, goalID)
}

// CloseTerm records a term's outcome and returns the reassembled period.
func (p *Planner) CloseTerm(ctx context.Context, termID, status, reflection string) (*types.Period, error) {
	if err := p.store.Periods.SetTermOutcome(ctx, termID, status, reflection); err != nil {
		return nil, err
	}
	return p.store.Periods.Get(ctx, termID)
}
