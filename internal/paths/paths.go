// Package paths resolves configuration file and data directory locations for
// the ink CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative names.
const (
	// DefaultConfigName is the task config file looked up in the working
	// directory and, as a lower-precedence default, next to the user config.
	DefaultConfigName = "ink.yaml"

	// DefaultDataDirName is the CWD-relative directory holding the
	// submission ledger.
	DefaultDataDirName = ".ink"
)

// Environment variable names for overrides.
const (
	EnvConfig  = "INK_CONFIG"
	EnvDataDir = "INK_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific directory holding the
// user-level default config, overlaid by the working-directory config.
//
// Linux:   $XDG_CONFIG_HOME/ink (fallback ~/.config/ink)
// macOS:   ~/Library/Application Support/ink
// Windows: %APPDATA%/ink
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "ink"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "ink"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "ink"), nil
	}
}

// ResolveConfigFile returns the task config path following the precedence
// chain: flag > INK_CONFIG env > $(CWD)/ink.yaml.
func ResolveConfigFile(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultConfigName), nil
}

// ResolveDataDir returns the ledger directory following the precedence chain:
// flag > INK_DATA_DIR env > $(workDir)/.ink.
//
// workDir is the resolved global work_dir; the ledger lives alongside the
// task directories it tracks.
func ResolveDataDir(flag, workDir string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	if workDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		workDir = cwd
	}
	return filepath.Join(workDir, DefaultDataDirName), nil
}
