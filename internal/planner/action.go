package planner

import (
	"context"
	"database/sql"
	"time"

	"github.com/pursuit-labs/pursuit/internal/sqlite"
	"github.com/pursuit-labs/pursuit/pkg/types"
)

// MeasurementForm is a logged measurement with a symbolic unit reference.
type MeasurementForm struct {
	UnitRef
	Value float64
}

// ContributionForm attributes part of the action to an existing goal. The
// unit reference is optional.
type ContributionForm struct {
	GoalID string
	Unit   *UnitRef
	Amount float64
}

// ActionForm is the input for logging an action.
type ActionForm struct {
	Title           string
	Notes           string
	StartedAt       time.Time
	DurationMinutes *int
	Measurements    []MeasurementForm
	Contributions   []ContributionForm
}

func (f ActionForm) validate() error {
	if f.Title == "" {
		return types.ErrTitleEmpty
	}
	for _, c := range f.Contributions {
		if c.GoalID == "" {
			return types.ErrInvalidID
		}
	}
	return nil
}

// CreateAction validates the form, resolves its unit references, writes the
// action atomically, and returns the assembled record. A zero StartedAt
// defaults to now.
func (p *Planner) CreateAction(ctx context.Context, form ActionForm) (*types.Action, error) {
	if err := form.validate(); err != nil {
		return nil, err
	}

	startedAt := form.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}
	write := sqlite.ActionWrite{
		Title:           form.Title,
		Notes:           form.Notes,
		StartedAt:       startedAt,
		DurationMinutes: form.DurationMinutes,
	}
	for _, m := range form.Measurements {
		u, err := p.store.Units.GetOrCreate(ctx, m.Unit, m.UnitType, m.Title)
		if err != nil {
			return nil, err
		}
		write.Measurements = append(write.Measurements, sqlite.MeasurementWrite{
			UnitID: u.ID, Value: m.Value,
		})
	}
	for _, c := range form.Contributions {
		cw := sqlite.ContributionWrite{GoalID: c.GoalID, Amount: c.Amount}
		if c.Unit != nil {
			u, err := p.store.Units.GetOrCreate(ctx, c.Unit.Unit, c.Unit.UnitType, c.Unit.Title)
			if err != nil {
				return nil, err
			}
			cw.UnitID = &u.ID
		}
		write.Contributions = append(write.Contributions, cw)
	}

	id, err := p.store.InTx(ctx, func(tx *sql.Tx) (string, error) {
		return p.store.Actions.Insert(ctx, tx, write)
	})
	if err != nil {
		return nil, err
	}
	p.log.Info().Str("action", id).
		Int("measurements", len(write.Measurements)).
		Int("contributions", len(write.Contributions)).
		Msg("action logged")
	return p.store.Actions.Get(ctx, id)
}
