// Package paths resolves configuration and data directory locations for the
// ossuary command.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under platform config and data roots.
const AppName = "ossuary"

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".ossuary"
	DefaultDataDirName   = ".ossuary-db"
)

// ConfigFileName is the file read from the resolved configuration directory.
const ConfigFileName = "config.yaml"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "OSSUARY_CONFIG_DIR"
	EnvDataDir   = "OSSUARY_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/ossuary (fallback ~/.config/ossuary)
// macOS:   ~/Library/Application Support/ossuary
// Windows: %APPDATA%/ossuary
func DefaultConfigDir() (string, error) {
	return platformRoot("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/ossuary (fallback ~/.local/share/ossuary)
// macOS and Windows share the configuration root.
func DefaultDataDir() (string, error) {
	return platformRoot("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func platformRoot(xdgVar, homeRel string) (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv(xdgVar); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, homeRel, AppName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > OSSUARY_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > OSSUARY_DATA_DIR > $(CWD)/.ossuary-db.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ConfigFile returns the path of the configuration file inside dir.
func ConfigFile(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}
