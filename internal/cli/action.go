package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/pursuit-labs/pursuit/internal/planner"
)

func newActionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Log and inspect actions",
	}
	cmd.AddCommand(newActionLogCmd())
	cmd.AddCommand(newActionListCmd())
	cmd.AddCommand(newActionRmCmd())
	return cmd
}

func newActionLogCmd() *cobra.Command {
	var (
		notes            string
		atFlag           string
		minutes          int
		measureSpecs     []string
		contributionSpec []string
	)
	cmd := &cobra.Command{
		Use:   "log <title>",
		Short: "Log an action",
		Long: "Log an action with optional measurements and goal contributions.\n" +
			"Measurements use unit:type:value; contributions use goal-id:amount or\n" +
			"goal-id:unit:type:amount.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, p, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var startedAt time.Time
			if atFlag != "" {
				at, err := parseDateFlag(atFlag, "at")
				if err != nil {
					return err
				}
				startedAt = *at
			}

			form := planner.ActionForm{
				Title:           args[0],
				Notes:           notes,
				StartedAt:       startedAt,
				DurationMinutes: optIntFlag(minutes),
			}
			for _, spec := range measureSpecs {
				mf, err := parseMeasureSpec(spec)
				if err != nil {
					return err
				}
				form.Measurements = append(form.Measurements, mf)
			}
			for _, spec := range contributionSpec {
				cf, err := parseContributionSpec(spec)
				if err != nil {
					return err
				}
				form.Contributions = append(form.Contributions, cf)
			}

			action, err := p.CreateAction(cmd.Context(), form)
			if err != nil {
				return err
			}
			return emit(cmd, action)
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&atFlag, "at", "", "start date (YYYY-MM-DD, default now)")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "duration in minutes")
	cmd.Flags().StringArrayVar(&measureSpecs, "measure", nil, "measurement unit:type:value (repeatable)")
	cmd.Flags().StringArrayVar(&contributionSpec, "for", nil, "goal contribution goal-id:amount (repeatable)")
	return cmd
}

func newActionListCmd() *cobra.Command {
	var (
		limit, offset int
		goalID        string
		recent        int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List actions, most recently started first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			switch {
			case goalID != "":
				actions, err := store.Actions.ByGoal(ctx, goalID)
				if err != nil {
					return err
				}
				return emit(cmd, actions)
			case recent > 0:
				actions, err := store.Actions.FetchRecent(ctx, recent)
				if err != nil {
					return err
				}
				return emit(cmd, actions)
			case limit > 0:
				actions, err := store.Actions.Fetch(ctx, limit, offset)
				if err != nil {
					return err
				}
				return emit(cmd, actions)
			default:
				actions, err := store.Actions.FetchAll(ctx)
				if err != nil {
					return err
				}
				return emit(cmd, actions)
			}
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")
	cmd.Flags().IntVar(&recent, "recent", 0, "only the N most recent actions")
	cmd.Flags().StringVar(&goalID, "goal", "", "only actions contributing to this goal")
	return cmd
}

func newActionRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an action and its measurements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			return store.Actions.Delete(cmd.Context(), args[0])
		},
	}
}
