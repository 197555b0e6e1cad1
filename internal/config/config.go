package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Input      string           `mapstructure:"input" yaml:"input"`
	Output     string           `mapstructure:"output" yaml:"output"`
	Raw        bool             `mapstructure:"raw" yaml:"raw"`
	Exclude    []string         `mapstructure:"exclude" yaml:"exclude"`
	Progress   bool             `mapstructure:"progress" yaml:"progress"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline" yaml:"pipeline"`
	Processing ProcessingConfig `mapstructure:"processing" yaml:"processing"`
	Cache      CacheConfig      `mapstructure:"cache" yaml:"cache"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
}

// PipelineConfig contains concurrency settings
type PipelineConfig struct {
	// TaskTimeout bounds a single file task; zero disables the bound
	TaskTimeout time.Duration `mapstructure:"task_timeout" yaml:"task_timeout"`
}

// ProcessingConfig contains per-file processing settings
type ProcessingConfig struct {
	// MaxFileSize is a size string such as "512KB"; empty means unlimited
	MaxFileSize string `mapstructure:"max_file_size" yaml:"max_file_size"`
}

// CacheConfig contains skeleton cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Input == "" {
		c.Input = DefaultInput
	}
	switch {
	case c.Pipeline.TaskTimeout < 0:
		c.Pipeline.TaskTimeout = DefaultTaskTimeout
	case c.Pipeline.TaskTimeout > 0 && c.Pipeline.TaskTimeout < MinTaskTimeout:
		c.Pipeline.TaskTimeout = MinTaskTimeout
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.Directory == "" {
		c.Cache.Directory = CacheDir()
	}
	if c.Logging.Format != "json" && c.Logging.Format != "pretty" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Processing.MaxFileSize != "" {
		if _, err := ParseSize(c.Processing.MaxFileSize); err != nil {
			return fmt.Errorf("invalid processing.max_file_size: %w", err)
		}
	}
	return nil
}

// MaxFileSizeBytes returns the parsed file size limit, 0 when unlimited
func (c *Config) MaxFileSizeBytes() int64 {
	if c.Processing.MaxFileSize == "" {
		return 0
	}
	n, err := ParseSize(c.Processing.MaxFileSize)
	if err != nil {
		return 0
	}
	return n
}

// ParseSize parses a size string such as "512KB", "2MB" or "1GB" into
// bytes. Units are binary and case-insensitive; a bare number is bytes.
func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	var multiplier int64 = 1
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		s = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		s = strings.TrimSuffix(s, "B")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("no numeric value in size string")
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value: %w", err)
	}

	if n < 0 {
		return 0, fmt.Errorf("negative size not allowed")
	}

	return n * multiplier, nil
}
