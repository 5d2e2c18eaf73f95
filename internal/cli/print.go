package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pursuit-labs/pursuit/pkg/types"
)

// writeText renders records as compact lines for terminal use. The --json
// flag bypasses this entirely.
func writeText(w io.Writer, v any) {
	switch x := v.(type) {
	case *types.Goal:
		writeGoal(w, *x)
	case []types.Goal:
		for _, g := range x {
			writeGoal(w, g)
		}
	case *types.Action:
		writeAction(w, *x)
	case []types.Action:
		for _, a := range x {
			writeAction(w, a)
		}
	case *types.Value:
		writeValue(w, *x)
	case []types.Value:
		for _, val := range x {
			writeValue(w, val)
		}
	case *types.Period:
		writePeriod(w, *x)
	case []types.Period:
		for _, p := range x {
			writePeriod(w, p)
		}
	case []types.Unit:
		for _, u := range x {
			fmt.Fprintf(w, "%s  %s (%s)  %q\n", u.ID, u.Unit, u.UnitType, u.Title)
		}
	case [][]types.Unit:
		for _, group := range x {
			fmt.Fprintf(w, "duplicate (%s, %s):\n", group[0].Unit, group[0].UnitType)
			for _, u := range group {
				fmt.Fprintf(w, "  %s  %q  created %s\n", u.ID, u.Unit, u.CreatedAt.Format(dateLayout))
			}
		}
	case *types.Checkpoint:
		fmt.Fprintf(w, "%s  %s  i%d/u%d%s\n", x.ID, x.Title, x.Importance, x.Urgency, optDate("  due ", x.TargetDate))
	case []types.Checkpoint:
		for _, c := range x {
			writeText(w, &c)
		}
	case *types.Commitment:
		who := ""
		if x.RequestedBy != "" {
			who = "  for " + x.RequestedBy
		}
		fmt.Fprintf(w, "%s  %s  i%d/u%d%s%s\n", x.ID, x.Title, x.Importance, x.Urgency, optDate("  due ", x.Deadline), who)
	case []types.Commitment:
		for _, c := range x {
			writeText(w, &c)
		}
	default:
		fmt.Fprintf(w, "%v\n", v)
	}
}

func writeGoal(w io.Writer, g types.Goal) {
	fmt.Fprintf(w, "%s  %s  i%d/u%d%s\n", g.ID, g.Title, g.Importance, g.Urgency, optDate("  due ", g.TargetDate))
	for _, mt := range g.MeasureTargets {
		fmt.Fprintf(w, "  target: %g %s (%s)\n", mt.Target, mt.Unit, mt.UnitType)
	}
	for _, va := range g.ValueAlignments {
		fmt.Fprintf(w, "  value: %s (strength %d)\n", va.ValueTitle, va.Strength)
	}
	if g.TermAssignment != nil {
		fmt.Fprintf(w, "  term: #%d %s (%s)\n", g.TermAssignment.Sequence, g.TermAssignment.Theme, g.TermAssignment.Status)
	}
}

func writeAction(w io.Writer, a types.Action) {
	fmt.Fprintf(w, "%s  %s  %s\n", a.ID, a.Title, a.StartedAt.Format("2006-01-02 15:04"))
	for _, m := range a.Measurements {
		fmt.Fprintf(w, "  %g %s (%s)\n", m.Value, m.Unit, m.UnitType)
	}
	for _, c := range a.Contributions {
		unit := ""
		if c.Unit != nil {
			unit = " " + *c.Unit
		}
		fmt.Fprintf(w, "  -> %s: %g%s\n", c.GoalTitle, c.Amount, unit)
	}
}

func writeValue(w io.Writer, v types.Value) {
	domain := ""
	if v.LifeDomain != nil {
		domain = "  [" + *v.LifeDomain + "]"
	}
	fmt.Fprintf(w, "%s  p%d  %-12s %s%s\n", v.ID, v.Priority, v.Level, v.Title, domain)
	for _, a := range v.Alignments {
		fmt.Fprintf(w, "  goal: %s (strength %d)\n", a.GoalTitle, a.Strength)
	}
}

func writePeriod(w io.Writer, p types.Period) {
	title := ""
	if p.Title != nil {
		title = "  " + *p.Title
	}
	fmt.Fprintf(w, "%s  %s .. %s%s\n", p.ID, p.StartDate.Format(dateLayout), p.EndDate.Format(dateLayout), title)
	if p.Term != nil {
		fmt.Fprintf(w, "  term #%d %s (%s), %d goals\n",
			p.Term.Sequence, p.Term.Theme, p.Term.Status, len(p.Term.AssignedGoalIDs))
		if p.Term.Reflection != "" {
			fmt.Fprintf(w, "  reflection: %s\n", strings.TrimSpace(p.Term.Reflection))
		}
	}
}

func optDate(prefix string, t *time.Time) string {
	if t == nil {
		return ""
	}
	return prefix + t.Format(dateLayout)
}
