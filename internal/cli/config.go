package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/pursuit-labs/pursuit/pkg/types"
)

// configFileName is the config file inside the config directory.
const configFileName = "config.yaml"

// loadConfig reads config.yaml from configDir. A missing file yields the
// default config rather than an error; a present but invalid file fails.
func loadConfig(configDir string) (types.Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.SetDefault("backend", types.BackendSQLite)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return types.Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := types.Config{
		Backend: v.GetString("backend"),
		DataDir: v.GetString("data_dir"),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// writeConfigIfMissing creates config.yaml with the given values if the file
// does not exist. An existing file is left untouched.
func writeConfigIfMissing(configDir string, cfg types.Config) error {
	path := filepath.Join(configDir, configFileName)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
