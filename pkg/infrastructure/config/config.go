package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the configuration reads
const EnvPrefix = "RELIEF"

var validFormats = map[string]bool{"text": true, "json": true, "csv": true}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Config holds the runtime settings of the relief engine and CLI
type Config struct {
	LogLevel           string `mapstructure:"log_level"`
	LogDevelopment     bool   `mapstructure:"log_development"`
	MissionLogCapacity int    `mapstructure:"mission_log_capacity"`
	OutputFormat       string `mapstructure:"output_format"`
	MetricsEnabled     bool   `mapstructure:"metrics_enabled"`
	StatusFile         string `mapstructure:"status_file"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		LogLevel:           "info",
		LogDevelopment:     false,
		MissionLogCapacity: 50,
		OutputFormat:       "text",
		MetricsEnabled:     true,
		StatusFile:         "",
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_development", d.LogDevelopment)
	v.SetDefault("mission_log_capacity", d.MissionLogCapacity)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("metrics_enabled", d.MetricsEnabled)
	v.SetDefault("status_file", d.StatusFile)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from an optional file and RELIEF_* environment
// variables. An empty path skips the file. Environment values override the file.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks for invalid configuration values.
func (c *Config) Validate() error {
	if c.MissionLogCapacity <= 0 {
		return fmt.Errorf("mission_log_capacity must be > 0, got %d", c.MissionLogCapacity)
	}
	if !validFormats[c.OutputFormat] {
		return fmt.Errorf("unsupported output_format: %s (expected text, json or csv)", c.OutputFormat)
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("unsupported log_level: %s (expected debug, info, warn or error)", c.LogLevel)
	}
	return nil
}
