package config

import (
	"os"
	"path/filepath"
)

const defaultBaseDir = ".lucid"

// Paths holds resolved filesystem paths for Lucid data.
type Paths struct {
	Base    string // ~/.lucid
	Config  string // ~/.lucid/config.yaml
	Data    string // ~/.lucid/data
	Plugins string // ~/.lucid/plugins
	Logs    string // ~/.lucid/logs
}

// ResolvePaths computes all standard paths from the home directory.
// If LUCID_HOME is set, it overrides the default base directory.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("LUCID_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:    base,
		Config:  filepath.Join(base, "config.yaml"),
		Data:    filepath.Join(base, "data"),
		Plugins: filepath.Join(base, "plugins"),
		Logs:    filepath.Join(base, "logs"),
	}, nil
}

// EnsureDirs creates all standard directories if they don't exist.
func (p Paths) EnsureDirs() error {
	dirs := []string{p.Base, p.Data, p.Plugins, p.Logs}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}
	return nil
}

// DatabasePath returns the configured SQLite path, defaulting under the data dir.
func (p Paths) DatabasePath(cfg StoreConfig) string {
	if cfg.Path != "" {
		return cfg.Path
	}
	return filepath.Join(p.Data, "lucid.db")
}

// PluginDir returns the configured plugin store directory, defaulting under the base dir.
func (p Paths) PluginDir(cfg PluginsConfig) string {
	if cfg.Dir != "" {
		return cfg.Dir
	}
	return p.Plugins
}
