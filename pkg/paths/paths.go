// Package paths resolves per-user locations for portsniff files.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	appDir         = "portsniff"
	configFileName = "config.yaml"
)

// ConfigDir returns the config directory for portsniff.
// Order: XDG_CONFIG_HOME/portsniff, platform-specific fallback.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir)
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("AppData"); appData != "" {
			return filepath.Join(appData, appDir)
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDir)
}

// DefaultConfigFile is read when --config is not given. It may not exist.
func DefaultConfigFile() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, configFileName)
}
