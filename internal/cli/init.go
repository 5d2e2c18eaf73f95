package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pursuit-labs/pursuit/internal/paths"
	"github.com/pursuit-labs/pursuit/internal/sqlite"
	"github.com/pursuit-labs/pursuit/pkg/types"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the pursuit store",
		Long:  "Create the configuration and data directories and initialize the database.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return fmt.Errorf("resolving config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	dataDir, err := paths.ResolveDataDir(flags.dataDir, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("resolving data dir: %w", err)
	}

	if err := writeConfigIfMissing(configDir, types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Opening the store creates the data directory and schema.
	store, err := sqlite.Open(dataDir, newLogger())
	if err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("finalizing store: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pursuit initialized (config: %s, data: %s)\n", configDir, dataDir)
	return nil
}
