// Package config handles pmxtool configuration loading and management.
package config

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-pmx/pkg/pmx"
)

// Config holds all pmxtool settings.
type Config struct {
	Parse   ParseConfig   `yaml:"parse"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ParseConfig holds decoder settings.
type ParseConfig struct {
	MaxSizeMB int           `yaml:"max_size_mb"` // 0 disables the limit
	Strict    bool          `yaml:"strict"`      // run reference validation after decoding
	Timeout   time.Duration `yaml:"timeout"`     // 0 disables the deadline
}

// OutputConfig holds listing settings.
type OutputConfig struct {
	Format  string `yaml:"format"`   // "text" or "yaml"
	MaxRows int    `yaml:"max_rows"` // 0 lists everything
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Parse: ParseConfig{
			MaxSizeMB: 512,
			Strict:    false,
			Timeout:   30 * time.Second,
		},
		Output: OutputConfig{
			Format:  FormatText,
			MaxRows: 0,
		},
		Logging: LoggingConfig{
			Level:   "warn",
			LogFile: "",
		},
	}
}

// ParseOptions converts the parse settings into decoder options.
func (c *Config) ParseOptions(log *zap.Logger) pmx.Options {
	opts := pmx.DefaultOptions()
	if c.Parse.MaxSizeMB > 0 {
		opts.MaxSize = c.Parse.MaxSizeMB << 20
	}
	opts.Strict = c.Parse.Strict
	opts.Logger = log
	return opts
}

// Context derives the parse context, applying the configured timeout.
func (c *Config) Context(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Parse.Timeout > 0 {
		return context.WithTimeout(parent, c.Parse.Timeout)
	}
	return context.WithCancel(parent)
}
