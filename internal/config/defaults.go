package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	DefaultInput = "."

	// Pipeline defaults
	DefaultTaskTimeout = 30 * time.Second
	MinTaskTimeout     = 100 * time.Millisecond

	// Cache defaults
	DefaultCacheEnabled = false
	DefaultCacheTTL     = 7 * 24 * time.Hour

	DefaultProgress = true

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"

	// EnvPrefix prefixes environment overrides (SMASHY_CACHE_ENABLED, ...)
	EnvPrefix = "SMASHY"
)

// DefaultExcludes are always applied; user excludes are added to them
var DefaultExcludes = []string{".git", "target", "node_modules", ".idea", ".vscode"}

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".smashy"
	}
	return filepath.Join(home, ".smashy")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Input:    DefaultInput,
		Exclude:  []string{},
		Progress: DefaultProgress,
		Pipeline: PipelineConfig{
			TaskTimeout: DefaultTaskTimeout,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
