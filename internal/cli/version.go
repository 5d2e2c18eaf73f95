package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the released version string.
const Version = "0.1.0"

const modulePath = "github.com/pursuit-labs/pursuit"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pursuit version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "pursuit v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
