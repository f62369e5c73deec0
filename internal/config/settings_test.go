package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, ".", s.WorkspaceDir)
	assert.Equal(t, ".buildgraph-cache", s.CacheDir)
	assert.False(t, s.RebuildAll)
	assert.False(t, s.Overwrite)
	assert.False(t, s.Purge)
	assert.Equal(t, slog.LevelError, s.LogLevel)
	assert.Equal(t, "text", s.LogFormat)
}

func TestLoadSettingsFromEnvironment(t *testing.T) {
	vars := map[string]string{
		"BUILDGRAPH_WORKSPACE":   "/tmp/ws",
		"BUILDGRAPH_CACHE_DIR":   "/tmp/ws/.cache",
		"BUILDGRAPH_SDK_DIR":     "/opt/flex-sdk",
		"BUILDGRAPH_REBUILD_ALL": "true",
		"BUILDGRAPH_OVERWRITE":   "true",
		"BUILDGRAPH_PURGE":       "false",
		"BUILDGRAPH_CODE_STATS":  "true",
		"BUILDGRAPH_VERBOSE":     "true",
		"BUILDGRAPH_EXCLUDE":     "**/obj, **/bin",
		"BUILDGRAPH_LOG_LEVEL":   "debug",
		"BUILDGRAPH_LOG_FORMAT":  "json",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}

	s := LoadSettingsFromEnvironment()
	assert.Equal(t, "/tmp/ws", s.WorkspaceDir)
	assert.Equal(t, "/tmp/ws/.cache", s.CacheDir)
	assert.Equal(t, "/opt/flex-sdk", s.SDKDir)
	assert.True(t, s.RebuildAll)
	assert.True(t, s.Overwrite)
	assert.False(t, s.Purge)
	assert.True(t, s.CodeStats)
	assert.True(t, s.Verbose)
	assert.Equal(t, []string{"**/obj", "**/bin"}, s.ExcludePatterns)
	assert.Equal(t, slog.LevelDebug, s.LogLevel)
	assert.Equal(t, "json", s.LogFormat)
}

func TestLoadSettingsFromEnvironment_NoOverrides(t *testing.T) {
	for _, k := range []string{
		"BUILDGRAPH_WORKSPACE", "BUILDGRAPH_CACHE_DIR", "BUILDGRAPH_SDK_DIR",
		"BUILDGRAPH_REBUILD_ALL", "BUILDGRAPH_OVERWRITE", "BUILDGRAPH_PURGE",
		"BUILDGRAPH_CODE_STATS", "BUILDGRAPH_VERBOSE", "BUILDGRAPH_DEBUG",
		"BUILDGRAPH_EXCLUDE", "BUILDGRAPH_LOG_LEVEL", "BUILDGRAPH_LOG_FORMAT",
		"BUILDGRAPH_LOG_FILE",
	} {
		os.Unsetenv(k)
	}

	s := LoadSettingsFromEnvironment()
	assert.Equal(t, DefaultSettings(), s)
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for input, want := range cases {
		got, err := parseLogLevel(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := parseLogLevel("nonsense")
	assert.Error(t, err)
}

func TestSettings_Validate(t *testing.T) {
	s := DefaultSettings()
	assert.NoError(t, s.Validate())

	s.Verbose = true
	s.Debug = true
	assert.Error(t, s.Validate())

	s.Debug = false
	s.WorkspaceDir = ""
	assert.Error(t, s.Validate())
}

func TestConfigureLogger(t *testing.T) {
	s := DefaultSettings()
	logger := s.ConfigureLogger()
	require.NotNil(t, logger)
}
