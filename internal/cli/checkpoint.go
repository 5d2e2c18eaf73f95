package cli

import (
	"github.com/spf13/cobra"

	"github.com/pursuit-labs/pursuit/internal/planner"
)

func newCheckpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Manage checkpoints",
	}
	cmd.AddCommand(newCheckpointAddCmd())
	cmd.AddCommand(newCheckpointListCmd())
	cmd.AddCommand(newCheckpointShowCmd())
	cmd.AddCommand(newCheckpointRmCmd())
	return cmd
}

func newCheckpointAddCmd() *cobra.Command {
	var (
		details, notes      string
		importance, urgency int
		targetFlag          string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, p, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			target, err := parseDateFlag(targetFlag, "target-date")
			if err != nil {
				return err
			}
			checkpoint, err := p.CreateCheckpoint(cmd.Context(), planner.CheckpointForm{
				Title:      args[0],
				Details:    details,
				Notes:      notes,
				Importance: importance,
				Urgency:    urgency,
				TargetDate: target,
			})
			if err != nil {
				return err
			}
			return emit(cmd, checkpoint)
		},
	}
	cmd.Flags().StringVar(&details, "details", "", "longer description")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().IntVar(&importance, "importance", 5, "importance 1-10")
	cmd.Flags().IntVar(&urgency, "urgency", 5, "urgency 1-10")
	cmd.Flags().StringVar(&targetFlag, "target-date", "", "target date (YYYY-MM-DD)")
	return cmd
}

func newCheckpointListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List checkpoints, soonest target first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			checkpoints, err := store.Checkpoints.FetchAll(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd, checkpoints)
		},
	}
}

func newCheckpointShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			checkpoint, err := store.Checkpoints.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(cmd, checkpoint)
		},
	}
}

func newCheckpointRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			return store.Checkpoints.Delete(cmd.Context(), args[0])
		},
	}
}
