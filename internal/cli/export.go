package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pursuit-labs/pursuit/internal/export"
)

func newExportCmd() *cobra.Command {
	var (
		outDir   string
		fromFlag string
		toFlag   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records as JSONL",
		Long: "Write every entity family to a directory as JSONL, one file per\n" +
			"family. Files are written atomically; a failed export never leaves a\n" +
			"partial file behind.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			from, err := parseDateFlag(fromFlag, "from")
			if err != nil {
				return err
			}
			to, err := parseDateFlag(toFlag, "to")
			if err != nil {
				return err
			}

			exporter := export.New(store, newLogger())
			counts, err := exporter.Export(cmd.Context(), outDir, from, to)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return emit(cmd, counts)
			}
			for _, name := range export.FileNames {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records\n", name, counts[name])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "export", "output directory")
	cmd.Flags().StringVar(&fromFlag, "from", "", "earliest date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toFlag, "to", "", "latest date to include (YYYY-MM-DD)")
	return cmd
}
