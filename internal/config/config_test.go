package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, 5000, cfg.Plugins.LoadTimeoutMs)
	assert.Equal(t, 10000, cfg.Plugins.AnalyzeTimeoutMs)
	assert.Equal(t, 30, cfg.Analytics.RiskWindowDays)
	assert.Equal(t, 5, cfg.Analytics.RecentSampleSize)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_ParsesAndFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
plugins:
  analyzeTimeoutMs: 250
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 250, cfg.Plugins.AnalyzeTimeoutMs)
	// untouched fields keep defaults
	assert.Equal(t, "pretty", cfg.Logging.ConsoleStyle)
	assert.Equal(t, 5000, cfg.Plugins.LoadTimeoutMs)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: ["), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LUCID_LOG_LEVEL", "TRACE")
	t.Setenv("LUCID_ANALYZE_TIMEOUT_MS", "777")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "trace", cfg.Logging.Level)
	assert.Equal(t, 777, cfg.Plugins.AnalyzeTimeoutMs)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	assert.Nil(t, Validate(&cfg))

	cfg.Logging.Level = "loud"
	cfg.Store.Backend = "oracle"
	cfg.Plugins.MaxWorkers = -1
	issues := Validate(&cfg)
	require.Len(t, issues, 3)
	assert.Equal(t, "logging.level", issues[0].Path)
	assert.Equal(t, "store.backend", issues[1].Path)
	assert.Equal(t, "plugins.maxWorkers", issues[2].Path)
}

func TestResolvePaths_HomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LUCID_HOME", dir)

	paths, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, dir, paths.Base)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), paths.Config)
	assert.Equal(t, filepath.Join(dir, "plugins"), paths.Plugins)

	require.NoError(t, paths.EnsureDirs())
	info, err := os.Stat(paths.Data)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPaths_ConfiguredOverrides(t *testing.T) {
	p := Paths{Data: "/data", Plugins: "/plugins"}

	assert.Equal(t, filepath.Join("/data", "lucid.db"), p.DatabasePath(StoreConfig{}))
	assert.Equal(t, "/tmp/x.db", p.DatabasePath(StoreConfig{Path: "/tmp/x.db"}))
	assert.Equal(t, "/plugins", p.PluginDir(PluginsConfig{}))
	assert.Equal(t, "/elsewhere", p.PluginDir(PluginsConfig{Dir: "/elsewhere"}))
}
