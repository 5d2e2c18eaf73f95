package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUnitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unit",
		Short: "Inspect the unit-of-measure catalog",
	}
	cmd.AddCommand(newUnitListCmd())
	cmd.AddCommand(newUnitDupsCmd())
	return cmd
}

func newUnitListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			units, err := store.Units.FetchAll(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd, units)
		},
	}
}

func newUnitDupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dups",
		Short: "Report duplicate catalog entries",
		Long: "List groups of catalog entries sharing the same (unit, type) identity.\n" +
			"Duplicates can appear after offline writers merge; this report is\n" +
			"read-only and leaves reconciliation to the operator.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			groups, err := store.Units.Duplicates(cmd.Context())
			if err != nil {
				return err
			}
			if len(groups) == 0 && !flags.jsonMode {
				fmt.Fprintln(cmd.OutOrStdout(), "no duplicate catalog entries")
				return nil
			}
			return emit(cmd, groups)
		},
	}
}
