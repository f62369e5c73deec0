package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Settings holds all pipeline configuration. Field names match
// WorkspaceScanOptions for reflection-based merging (see
// WorkspaceConfigFile.MergeWithSettings).
type Settings struct {
	// Paths
	WorkspaceDir   string
	CacheDir       string
	SDKDir         string
	ManualDepsFile string

	// Pipeline behavior
	ExcludePatterns []string
	RebuildAll      bool
	Overwrite       bool
	Purge           bool
	CodeStats       bool

	// Logging
	Verbose   bool
	Debug     bool
	LogLevel  slog.Level
	LogFormat string // "text" or "json"
	LogFile   string
}

// DefaultSettings returns default configuration.
func DefaultSettings() *Settings {
	return &Settings{
		WorkspaceDir:    ".",
		CacheDir:        ".buildgraph-cache",
		ExcludePatterns: []string{},
		RebuildAll:      false,
		Overwrite:       false,
		Purge:           false,
		CodeStats:       false,
		Verbose:         false,
		Debug:           false,
		LogLevel:        slog.LevelError,
		LogFormat:       "text",
		LogFile:         "",
	}
}

// LoadSettingsFromEnvironment loads settings from environment variables,
// overriding DefaultSettings.
func LoadSettingsFromEnvironment() *Settings {
	settings := DefaultSettings()

	if v := os.Getenv("BUILDGRAPH_WORKSPACE"); v != "" {
		settings.WorkspaceDir = v
	}
	if v := os.Getenv("BUILDGRAPH_CACHE_DIR"); v != "" {
		settings.CacheDir = v
	}
	if v := os.Getenv("BUILDGRAPH_SDK_DIR"); v != "" {
		settings.SDKDir = v
	}
	if v := os.Getenv("BUILDGRAPH_REBUILD_ALL"); v != "" {
		settings.RebuildAll = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("BUILDGRAPH_OVERWRITE"); v != "" {
		settings.Overwrite = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("BUILDGRAPH_PURGE"); v != "" {
		settings.Purge = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("BUILDGRAPH_CODE_STATS"); v != "" {
		settings.CodeStats = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("BUILDGRAPH_VERBOSE"); v != "" {
		settings.Verbose = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("BUILDGRAPH_DEBUG"); v != "" {
		settings.Debug = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("BUILDGRAPH_EXCLUDE"); v != "" {
		settings.ExcludePatterns = strings.Split(v, ",")
		for i, pattern := range settings.ExcludePatterns {
			settings.ExcludePatterns[i] = strings.TrimSpace(pattern)
		}
	}
	if v := os.Getenv("BUILDGRAPH_LOG_LEVEL"); v != "" {
		if level, err := parseLogLevel(v); err == nil {
			settings.LogLevel = level
		}
	}
	if v := os.Getenv("BUILDGRAPH_LOG_FORMAT"); v != "" {
		settings.LogFormat = v
	}
	if v := os.Getenv("BUILDGRAPH_LOG_FILE"); v != "" {
		settings.LogFile = v
	}

	return settings
}

// ParseLogLevel converts a string log level to slog.Level. Exported for
// the CLI, which parses --log-level the same way environment loading does.
func ParseLogLevel(level string) (slog.Level, error) {
	return parseLogLevel(level)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

// ConfigureLogger builds a slog.Logger from the settings.
func (s *Settings) ConfigureLogger() *slog.Logger {
	var handler slog.Handler

	var output io.Writer = os.Stderr
	if s.LogFile != "" {
		file, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v\n", s.LogFile, err)
		} else {
			output = file
		}
	}

	opts := &slog.HandlerOptions{Level: s.LogLevel}

	switch strings.ToLower(s.LogFormat) {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}

// Validate checks for mutually-exclusive or missing settings.
func (s *Settings) Validate() error {
	if s.Verbose && s.Debug {
		return fmt.Errorf("cannot use both --verbose and --debug flags")
	}
	if s.WorkspaceDir == "" {
		return fmt.Errorf("workspace directory is required")
	}
	return nil
}
