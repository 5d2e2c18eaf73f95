package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pursuit-labs/pursuit/internal/planner"
	"github.com/pursuit-labs/pursuit/pkg/types"
)

func newTermCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "term",
		Short: "Manage planning periods and terms",
	}
	cmd.AddCommand(newTermAddCmd())
	cmd.AddCommand(newTermListCmd())
	cmd.AddCommand(newTermAssignCmd())
	cmd.AddCommand(newTermCloseCmd())
	cmd.AddCommand(newTermRmCmd())
	return cmd
}

func newTermAddCmd() *cobra.Command {
	var (
		startFlag, endFlag string
		title, theme       string
		sequence           int
		goalIDs            []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a planning period",
		Long: "Create a planning period. With --sequence the period becomes a term\n" +
			"that goals can be assigned to.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, p, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			start, err := parseDateFlag(startFlag, "start")
			if err != nil {
				return err
			}
			end, err := parseDateFlag(endFlag, "end")
			if err != nil {
				return err
			}
			if start == nil || end == nil {
				return fmt.Errorf("--start and --end are required")
			}

			form := planner.PeriodForm{
				StartDate: *start,
				EndDate:   *end,
				Title:     optStringFlag(title),
			}
			if sequence > 0 {
				form.Term = &planner.TermForm{
					Sequence: sequence,
					Theme:    theme,
					GoalIDs:  goalIDs,
				}
			}

			period, err := p.CreatePeriod(cmd.Context(), form)
			if err != nil {
				return err
			}
			return emit(cmd, period)
		},
	}
	cmd.Flags().StringVar(&startFlag, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endFlag, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&title, "title", "", "period title")
	cmd.Flags().IntVar(&sequence, "sequence", 0, "term sequence number (makes this period a term)")
	cmd.Flags().StringVar(&theme, "theme", "", "term theme")
	cmd.Flags().StringArrayVar(&goalIDs, "goal", nil, "goal to assign (repeatable)")
	return cmd
}

func newTermListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List periods, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			periods, err := store.Periods.FetchAll(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd, periods)
		},
	}
}

func newTermAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <term-id> <goal-id>",
		Short: "Assign a goal to a term",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, p, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			goal, err := p.AssignGoal(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return emit(cmd, goal)
		},
	}
}

func newTermCloseCmd() *cobra.Command {
	var (
		status     string
		reflection string
	)
	cmd := &cobra.Command{
		Use:   "close <term-id>",
		Short: "Record a term's outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, p, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			period, err := p.CloseTerm(cmd.Context(), args[0], status, reflection)
			if err != nil {
				return err
			}
			return emit(cmd, period)
		},
	}
	cmd.Flags().StringVar(&status, "status", types.TermStatusCompleted,
		"final status: completed or abandoned")
	cmd.Flags().StringVar(&reflection, "reflection", "", "reflection text")
	return cmd
}

func newTermRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a period and its term data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			return store.Periods.Delete(cmd.Context(), args[0])
		},
	}
}
