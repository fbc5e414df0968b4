// Package config loads and validates Lucid's YAML configuration.
package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
		Store: StoreConfig{
			Backend: "sqlite",
		},
		Plugins: PluginsConfig{
			LoadTimeoutMs:    5000,
			AnalyzeTimeoutMs: 10000,
			MaxWorkers:       4,
		},
		Analytics: AnalyticsConfig{
			RiskWindowDays:   30,
			RecentSampleSize: 5,
		},
	}
}
