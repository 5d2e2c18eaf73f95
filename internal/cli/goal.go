package cli

import (
	"github.com/spf13/cobra"

	"github.com/pursuit-labs/pursuit/internal/planner"
)

func newGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals",
	}
	cmd.AddCommand(newGoalAddCmd())
	cmd.AddCommand(newGoalListCmd())
	cmd.AddCommand(newGoalShowCmd())
	cmd.AddCommand(newGoalRmCmd())
	return cmd
}

func newGoalAddCmd() *cobra.Command {
	var (
		details, notes, plan     string
		importance, urgency      int
		startFlag, targetFlag    string
		minutes                  int
		targetSpecs, alignSpecs  []string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a goal",
		Long: "Create a goal with optional measure targets and value alignments.\n" +
			"Targets use unit:type:value (e.g. km:distance:42.2); unknown units are\n" +
			"added to the catalog automatically.",
		Args: cobra.ExactArgs(1),
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
			target, err := parseDateFlag(targetFlag, "target-date")
			if err != nil {
				return err
			}

			form := planner.GoalForm{
				Title:           args[0],
				Details:         details,
				Notes:           notes,
				Importance:      importance,
				Urgency:         urgency,
				StartDate:       start,
				TargetDate:      target,
				ActionPlan:      plan,
				ExpectedMinutes: optIntFlag(minutes),
			}
			for _, spec := range targetSpecs {
				tf, err := parseTargetSpec(spec)
				if err != nil {
					return err
				}
				form.Targets = append(form.Targets, tf)
			}
			for _, spec := range alignSpecs {
				af, err := parseAlignSpec(spec)
				if err != nil {
					return err
				}
				form.Alignments = append(form.Alignments, af)
			}

			goal, err := p.CreateGoal(cmd.Context(), form)
			if err != nil {
				return err
			}
			return emit(cmd, goal)
		},
	}
	cmd.Flags().StringVar(&details, "details", "", "longer description")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&plan, "plan", "", "action plan")
	cmd.Flags().IntVar(&importance, "importance", 5, "importance 1-10")
	cmd.Flags().IntVar(&urgency, "urgency", 5, "urgency 1-10")
	cmd.Flags().StringVar(&startFlag, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&targetFlag, "target-date", "", "target date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "expected effort in minutes")
	cmd.Flags().StringArrayVar(&targetSpecs, "target", nil, "measure target unit:type:value (repeatable)")
	cmd.Flags().StringArrayVar(&alignSpecs, "align", nil, "value alignment value-id:strength (repeatable)")
	return cmd
}

func newGoalListCmd() *cobra.Command {
	var (
		limit, offset  int
		termID, valueID string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			switch {
			case termID != "":
				goals, err := store.Goals.ByTerm(ctx, termID)
				if err != nil {
					return err
				}
				return emit(cmd, goals)
			case valueID != "":
				goals, err := store.Goals.ByValue(ctx, valueID)
				if err != nil {
					return err
				}
				return emit(cmd, goals)
			case limit > 0:
				goals, err := store.Goals.Fetch(ctx, limit, offset)
				if err != nil {
					return err
				}
				return emit(cmd, goals)
			default:
				goals, err := store.Goals.FetchAll(ctx)
				if err != nil {
					return err
				}
				return emit(cmd, goals)
			}
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")
	cmd.Flags().StringVar(&termID, "term", "", "only goals assigned to this term")
	cmd.Flags().StringVar(&valueID, "value", "", "only goals aligned to this value")
	return cmd
}

func newGoalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			goal, err := store.Goals.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(cmd, goal)
		},
	}
}

func newGoalRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a goal and its dependent records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			return store.Goals.Delete(cmd.Context(), args[0])
		},
	}
}
