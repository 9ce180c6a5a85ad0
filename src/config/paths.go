package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultConfigPath returns the default user config file location.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "zenchat", "config.json")
}

// DefaultArchivePath returns the default sqlite archive location.
func DefaultArchivePath() string {
	// XDG_STATE_HOME holds runtime state data.
	return filepath.Join(xdg.StateHome, "zenchat", "archive.db")
}
