package cli

import (
	"github.com/spf13/cobra"

	"github.com/pursuit-labs/pursuit/internal/planner"
)

func newCommitmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commitment",
		Short: "Manage commitments to others",
	}
	cmd.AddCommand(newCommitmentAddCmd())
	cmd.AddCommand(newCommitmentListCmd())
	cmd.AddCommand(newCommitmentShowCmd())
	cmd.AddCommand(newCommitmentRmCmd())
	return cmd
}

func newCommitmentAddCmd() *cobra.Command {
	var (
		details, notes      string
		importance, urgency int
		deadlineFlag        string
		requestedBy         string
		consequence         string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a commitment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, p, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			deadline, err := parseDateFlag(deadlineFlag, "deadline")
			if err != nil {
				return err
			}
			commitment, err := p.CreateCommitment(cmd.Context(), planner.CommitmentForm{
				Title:       args[0],
				Details:     details,
				Notes:       notes,
				Importance:  importance,
				Urgency:     urgency,
				Deadline:    deadline,
				RequestedBy: requestedBy,
				Consequence: optStringFlag(consequence),
			})
			if err != nil {
				return err
			}
			return emit(cmd, commitment)
		},
	}
	cmd.Flags().StringVar(&details, "details", "", "longer description")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().IntVar(&importance, "importance", 5, "importance 1-10")
	cmd.Flags().IntVar(&urgency, "urgency", 5, "urgency 1-10")
	cmd.Flags().StringVar(&deadlineFlag, "deadline", "", "deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&requestedBy, "requested-by", "", "who asked for this")
	cmd.Flags().StringVar(&consequence, "consequence", "", "consequence of missing the deadline")
	return cmd
}

func newCommitmentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List commitments, soonest deadline first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			commitments, err := store.Commitments.FetchAll(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd, commitments)
		},
	}
}

func newCommitmentShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one commitment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			commitment, err := store.Commitments.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(cmd, commitment)
		},
	}
}

func newCommitmentRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a commitment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			return store.Commitments.Delete(cmd.Context(), args[0])
		},
	}
}
