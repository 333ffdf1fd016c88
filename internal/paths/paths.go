// Package paths resolves the configuration and data directories of the
// treegrid command.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name under the platform config and data roots.
const AppName = "treegrid"

// Environment variable overrides.
const (
	EnvConfigDir = "TREEGRID_CONFIG_DIR"
	EnvDataDir   = "TREEGRID_DATA_DIR"
)

// platformDir is swapped in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// appDir returns $xdgVar/treegrid, ~/<fallback...>/treegrid on Linux, and
// the user config dir elsewhere.
func appDir(xdgVar string, fallback ...string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, fallback...), AppName)...), nil
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/treegrid (fallback ~/.config/treegrid)
// macOS:   ~/Library/Application Support/treegrid
// Windows: %APPDATA%/treegrid
func DefaultConfigDir() (string, error) {
	return appDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
//
// Linux:   $XDG_DATA_HOME/treegrid (fallback ~/.local/share/treegrid)
// Other:   same as DefaultConfigDir
func DefaultDataDir() (string, error) {
	return appDir("XDG_DATA_HOME", ".local", "share")
}

// ResolveConfigDir applies flag > TREEGRID_CONFIG_DIR > DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	return resolve(DefaultConfigDir, flag, os.Getenv(EnvConfigDir))
}

// ResolveDataDir applies flag > TREEGRID_DATA_DIR > config file value >
// DefaultDataDir.
func ResolveDataDir(flag, configValue string) (string, error) {
	return resolve(DefaultDataDir, flag, os.Getenv(EnvDataDir), configValue)
}

// resolve returns the first non-empty candidate as an absolute path, or the
// default.
func resolve(def func() (string, error), candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	return def()
}
