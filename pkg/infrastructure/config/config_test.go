package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relief.yaml")
	content := "log_level: debug\nmission_log_capacity: 20\noutput_format: JSON\nstatus_file: /tmp/status.yaml\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("RELIEF_MISSION_LOG_CAPACITY", "75")
	t.Setenv("RELIEF_METRICS_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 75, cfg.MissionLogCapacity)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, "/tmp/status.yaml", cfg.StatusFile)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("RELIEF_OUTPUT_FORMAT", "xml")
	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output_format: xml")
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(*Config)
		expectError string
	}{
		{"zero capacity", func(c *Config) { c.MissionLogCapacity = 0 }, "mission_log_capacity must be > 0, got 0"},
		{"bad format", func(c *Config) { c.OutputFormat = "pdf" }, "unsupported output_format: pdf (expected text, json or csv)"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "unsupported log_level: loud (expected debug, info, warn or error)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, tc.expectError, err.Error())
		})
	}

	assert.NoError(t, Default().Validate())
}
