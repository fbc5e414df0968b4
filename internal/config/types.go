package config

// Config is the root configuration for Lucid.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
	Store     StoreConfig     `yaml:"store,omitempty"`
	Plugins   PluginsConfig   `yaml:"plugins,omitempty"`
	Analytics AnalyticsConfig `yaml:"analytics,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "json"
}

// StoreConfig controls the record store backend.
type StoreConfig struct {
	Backend string `yaml:"backend,omitempty"` // "sqlite" | "memory"
	Path    string `yaml:"path,omitempty"`    // sqlite file, defaults under the data dir
}

// PluginsConfig controls the plugin manager.
type PluginsConfig struct {
	Dir              string `yaml:"dir,omitempty"`              // plugin store directory, defaults under the base dir
	LoadTimeoutMs    int    `yaml:"loadTimeoutMs,omitempty"`    // bound on install/load package I/O and Initialize
	AnalyzeTimeoutMs int    `yaml:"analyzeTimeoutMs,omitempty"` // per-capability bound during analytics dispatch
	MaxWorkers       int    `yaml:"maxWorkers,omitempty"`       // cap on concurrent analytics invocations
}

// AnalyticsConfig tunes the risk-assessment window.
type AnalyticsConfig struct {
	RiskWindowDays   int `yaml:"riskWindowDays,omitempty"`   // recency window for usage frequency
	RecentSampleSize int `yaml:"recentSampleSize,omitempty"` // number of most recent experiences examined
}
