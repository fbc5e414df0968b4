package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the config file, applies environment overrides, and returns
// a merged Config. Missing files produce defaults only.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes a Config back to a YAML file.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// applyDefaults fills zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.ConsoleStyle == "" {
		cfg.Logging.ConsoleStyle = "pretty"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "sqlite"
	}
	if cfg.Plugins.LoadTimeoutMs == 0 {
		cfg.Plugins.LoadTimeoutMs = 5000
	}
	if cfg.Plugins.AnalyzeTimeoutMs == 0 {
		cfg.Plugins.AnalyzeTimeoutMs = 10000
	}
	if cfg.Plugins.MaxWorkers == 0 {
		cfg.Plugins.MaxWorkers = 4
	}
	if cfg.Analytics.RiskWindowDays == 0 {
		cfg.Analytics.RiskWindowDays = 30
	}
	if cfg.Analytics.RecentSampleSize == 0 {
		cfg.Analytics.RecentSampleSize = 5
	}
}

// applyEnvOverrides reads LUCID_* environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LUCID_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LUCID_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("LUCID_PLUGIN_DIR"); v != "" {
		cfg.Plugins.Dir = v
	}
	if v := os.Getenv("LUCID_ANALYZE_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.Plugins.AnalyzeTimeoutMs = ms
		}
	}
}
