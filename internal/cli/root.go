// Package cli implements the pursuit command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pursuit-labs/pursuit/internal/paths"
	"github.com/pursuit-labs/pursuit/internal/planner"
	"github.com/pursuit-labs/pursuit/internal/sqlite"
	"github.com/pursuit-labs/pursuit/pkg/types"
)

// exitUserError is the exit code for any failed command.
const exitUserError = 1

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

var flags rootFlags

// NewRootCmd creates the top-level "pursuit" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pursuit",
		Short: "A local-first store for goals, actions, values, and terms",
		Long: "Pursuit keeps goals, logged actions, personal values, and planning\n" +
			"terms in a local store and assembles them into self-contained records.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newGoalCmd())
	root.AddCommand(newCheckpointCmd())
	root.AddCommand(newCommitmentCmd())
	root.AddCommand(newActionCmd())
	root.AddCommand(newValueCmd())
	root.AddCommand(newTermCmd())
	root.AddCommand(newUnitCmd())
	root.AddCommand(newExportCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, types.UserMessage(err))
		os.Exit(exitUserError)
	}
}

// newLogger builds the CLI logger. Debug level only with --verbose; output
// goes to stderr so JSON output on stdout stays machine-readable.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if flags.verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()
}

// openStore resolves directories, loads config, and opens the store. The
// caller owns the returned store and must Close it.
func openStore() (*sqlite.Store, *planner.Planner, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, nil, err
	}
	dataDir, err := paths.ResolveDataDir(flags.dataDir, cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving data dir: %w", err)
	}

	log := newLogger()
	store, err := sqlite.Open(dataDir, log)
	if err != nil {
		return nil, nil, err
	}
	return store, planner.New(store, log), nil
}

// emit writes v to stdout: indented JSON with --json, and a compact
// line-oriented rendering otherwise.
func emit(cmd *cobra.Command, v any) error {
	if flags.jsonMode {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	writeText(cmd.OutOrStdout(), v)
	return nil
}
