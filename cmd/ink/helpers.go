// Shared helpers for ink CLI commands.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/sciforge/ink/internal/config"
	"github.com/sciforge/ink/internal/ledger"
	"github.com/sciforge/ink/internal/paths"
	"github.com/sciforge/ink/pkg/types"
)

// loadTaskConfig loads the merged task configuration: the user-level
// default file overlaid by the working-directory file. It also resolves
// and creates the work directory.
func loadTaskConfig() (*types.Config, string, error) {
	cwdFile, err := paths.ResolveConfigFile(flagConfig)
	if err != nil {
		return nil, "", err
	}

	var sources []string
	if dir, err := paths.DefaultConfigDir(); err == nil {
		sources = append(sources, filepath.Join(dir, paths.DefaultConfigName))
	}
	sources = append(sources, cwdFile)

	cfg, err := config.Load(sources...)
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}

	workDir, err := config.WorkDir(cfg)
	if err != nil {
		return nil, "", fmt.Errorf("resolve work dir: %w", err)
	}
	return cfg, workDir, nil
}

// openLedger opens the submission ledger following the precedence chain
// --data-dir flag > config.yaml data_dir > INK_DATA_DIR env > work_dir/.ink.
// The caller must defer Close.
func openLedger(workDir string, userCfg *viper.Viper) (*ledger.Ledger, error) {
	flag := flagDataDir
	if flag == "" {
		flag = userCfg.GetString(cfgKeyDataDir)
	}
	dir, err := paths.ResolveDataDir(flag, workDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	led, err := ledger.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return led, nil
}
