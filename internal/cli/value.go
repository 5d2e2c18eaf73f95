package cli

import (
	"github.com/spf13/cobra"

	"github.com/pursuit-labs/pursuit/internal/sqlite"
	"github.com/pursuit-labs/pursuit/pkg/types"
)

func newValueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "value",
		Short: "Manage personal values",
	}
	cmd.AddCommand(newValueAddCmd())
	cmd.AddCommand(newValueListCmd())
	cmd.AddCommand(newValueRmCmd())
	return cmd
}

func newValueAddCmd() *cobra.Command {
	var (
		priority         int
		level            string
		domain, guidance string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a personal value",
		Long:  "Create a personal value. Titles are unique, case-insensitively.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			value, err := store.Values.Create(cmd.Context(), sqlite.ValueWrite{
				Title:      args[0],
				Priority:   priority,
				Level:      level,
				LifeDomain: optStringFlag(domain),
				Guidance:   optStringFlag(guidance),
			})
			if err != nil {
				return err
			}
			return emit(cmd, value)
		},
	}
	cmd.Flags().IntVar(&priority, "priority", 1, "priority rank (lower is higher)")
	cmd.Flags().StringVar(&level, "level", types.ValueLevelCore, "level: core, supporting, or aspirational")
	cmd.Flags().StringVar(&domain, "domain", "", "life domain")
	cmd.Flags().StringVar(&guidance, "guidance", "", "guidance text")
	return cmd
}

func newValueListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List personal values by priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			values, err := store.Values.FetchAll(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd, values)
		},
	}
}

func newValueRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a personal value and its alignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			return store.Values.Delete(cmd.Context(), args[0])
		},
	}
}
