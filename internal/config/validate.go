package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validConsoleStyles := []string{"pretty", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle),
		})
	}

	validBackends := []string{"sqlite", "memory"}
	if cfg.Store.Backend != "" && !slices.Contains(validBackends, cfg.Store.Backend) {
		issues = append(issues, ValidationIssue{
			Path:    "store.backend",
			Message: fmt.Sprintf("must be one of %v, got %q", validBackends, cfg.Store.Backend),
		})
	}

	if cfg.Plugins.LoadTimeoutMs < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "plugins.loadTimeoutMs",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Plugins.LoadTimeoutMs),
		})
	}
	if cfg.Plugins.AnalyzeTimeoutMs < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "plugins.analyzeTimeoutMs",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Plugins.AnalyzeTimeoutMs),
		})
	}
	if cfg.Plugins.MaxWorkers < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "plugins.maxWorkers",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Plugins.MaxWorkers),
		})
	}
	if cfg.Analytics.RiskWindowDays < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "analytics.riskWindowDays",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Analytics.RiskWindowDays),
		})
	}

	return issues
}
