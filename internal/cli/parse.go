package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pursuit-labs/pursuit/internal/planner"
)

// dateLayout is the calendar-date format accepted by date flags.
const dateLayout = "2006-01-02"

// parseDateFlag parses an optional calendar date. Empty means unset.
func parseDateFlag(s, flag string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("--%s: expected YYYY-MM-DD, got %q", flag, s)
	}
	t = t.UTC()
	return &t, nil
}

// parseTargetSpec parses a "unit:type:value" measure target spec.
func parseTargetSpec(spec string) (planner.TargetForm, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return planner.TargetForm{}, fmt.Errorf("--target: expected unit:type:value, got %q", spec)
	}
	value, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return planner.TargetForm{}, fmt.Errorf("--target: value %q is not a number", parts[2])
	}
	return planner.TargetForm{
		UnitRef: planner.UnitRef{Unit: parts[0], UnitType: parts[1]},
		Target:  value,
	}, nil
}

// parseMeasureSpec parses a "unit:type:value" measurement spec.
func parseMeasureSpec(spec string) (planner.MeasurementForm, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return planner.MeasurementForm{}, fmt.Errorf("--measure: expected unit:type:value, got %q", spec)
	}
	value, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return planner.MeasurementForm{}, fmt.Errorf("--measure: value %q is not a number", parts[2])
	}
	return planner.MeasurementForm{
		UnitRef: planner.UnitRef{Unit: parts[0], UnitType: parts[1]},
		Value:   value,
	}, nil
}

// parseContributionSpec parses a "goal-id:amount" or "goal-id:unit:type:amount"
// contribution spec.
func parseContributionSpec(spec string) (planner.ContributionForm, error) {
	parts := strings.Split(spec, ":")
	switch len(parts) {
	case 2:
		amount, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return planner.ContributionForm{}, fmt.Errorf("--for: amount %q is not a number", parts[1])
		}
		return planner.ContributionForm{GoalID: parts[0], Amount: amount}, nil
	case 4:
		amount, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return planner.ContributionForm{}, fmt.Errorf("--for: amount %q is not a number", parts[3])
		}
		return planner.ContributionForm{
			GoalID: parts[0],
			Unit:   &planner.UnitRef{Unit: parts[1], UnitType: parts[2]},
			Amount: amount,
		}, nil
	default:
		return planner.ContributionForm{}, fmt.Errorf(
			"--for: expected goal-id:amount or goal-id:unit:type:amount, got %q", spec)
	}
}

// parseAlignSpec parses a "value-id:strength" alignment spec.
func parseAlignSpec(spec string) (planner.AlignmentForm, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 2 {
		return planner.AlignmentForm{}, fmt.Errorf("--align: expected value-id:strength, got %q", spec)
	}
	strength, err := strconv.Atoi(parts[1])
	if err != nil {
		return planner.AlignmentForm{}, fmt.Errorf("--align: strength %q is not an integer", parts[1])
	}
	return planner.AlignmentForm{ValueID: parts[0], Strength: strength}, nil
}

// optStringFlag returns nil for an empty flag value.
func optStringFlag(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// optIntFlag returns nil for a non-positive flag value.
func optIntFlag(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}
