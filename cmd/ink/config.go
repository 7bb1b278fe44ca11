// User config loading for the ink CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/sciforge/ink/internal/paths"
	"github.com/sciforge/ink/internal/scheduler"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// User config keys.
	cfgKeySubmitCmd = "scheduler.submit"
	cfgKeyCancelCmd = "scheduler.cancel"
	cfgKeyDataDir   = "data_dir"

	defaultSubmitCmd = "qsub"
	defaultCancelCmd = "qdel"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# ink CLI configuration

# Batch scheduler commands
scheduler:
  submit: qsub
  cancel: qdel

# Submission ledger directory (optional; overridable by --data-dir flag)
# data_dir:
`

// loadUserConfig reads config.yaml from the user config directory using
// Viper, creating the directory and a default file on first run. A missing
// config.yaml is not an error.
func loadUserConfig() (*viper.Viper, error) {
	configDir, err := paths.DefaultConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeySubmitCmd, defaultSubmitCmd)
	v.SetDefault(cfgKeyCancelCmd, defaultCancelCmd)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if none exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// newScheduler builds the batch scheduler from the user config.
func newScheduler(v *viper.Viper) *scheduler.Scheduler {
	return &scheduler.Scheduler{
		SubmitCmd: v.GetString(cfgKeySubmitCmd),
		CancelCmd: v.GetString(cfgKeyCancelCmd),
	}
}
