package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/mascot-tools/buildgraph/internal/cache"
	"github.com/mascot-tools/buildgraph/internal/config"
	"github.com/mascot-tools/buildgraph/internal/emitter"
	"github.com/mascot-tools/buildgraph/internal/patcher"
	"github.com/mascot-tools/buildgraph/internal/problems"
	"github.com/mascot-tools/buildgraph/internal/progress"
	"github.com/mascot-tools/buildgraph/internal/provider"
	"github.com/mascot-tools/buildgraph/internal/types"
)

// loadWorkspaceConfig loads --config (if set) and merges its scan section
// into settings, CLI flags taking precedence (matching the teacher's
// scan-config merge order).
func loadWorkspaceConfig(logger *slog.Logger) *config.WorkspaceConfigFile {
	if configPath == "" {
		return nil
	}
	cfg, err := config.LoadWorkspaceConfig(configPath)
	if err != nil {
		logger.Error("Failed to load workspace configuration", "error", err)
		os.Exit(1)
	}
	cfg.MergeWithSettings(settings)
	return cfg
}

// configureLogger builds the structured logger from the --log-level flag
// (parsed lazily here since cobra binds it to a plain string above the
// slog.Level type).
func configureLogger(flags *pflag.FlagSet) *slog.Logger {
	if level, _ := flags.GetString("log-level"); level != "" {
		if parsed, err := config.ParseLogLevel(level); err == nil {
			settings.LogLevel = parsed
		}
	}
	return settings.ConfigureLogger()
}

// resolveWorkspace returns the absolute workspace directory: args[0] if
// given, else settings.WorkspaceDir, else the current directory.
func resolveWorkspace(args []string) (string, error) {
	dir := settings.WorkspaceDir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve workspace path: %w", err)
	}
	settings.WorkspaceDir = abs
	return abs, nil
}

// openCache opens the cache directory, validating settings first.
func openCache() (*cache.Cache, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return cache.New(settings.CacheDir)
}

// newProgress builds a progress reporter enabled when --verbose or
// --debug is set.
func newProgress() *progress.Progress {
	return progress.New(settings.Verbose || settings.Debug, nil)
}

// newProblemsLogger opens the problems log, truncating it for a fresh run
// (callers expecting an append-only log across runs should not set
// RebuildAll, which implies --replace semantics throughout).
func newProblemsLogger(c *cache.Cache, prog *progress.Progress, logger *slog.Logger) (*problems.Logger, error) {
	return problems.New(c.ProblemsPath(), settings.RebuildAll, prog, logger)
}

// newFSProvider builds the real-filesystem Provider for workspace.
func newFSProvider(workspace string) types.Provider {
	return provider.NewFSProvider(workspace)
}

// loadManualAmendments resolves manual-dependency amendments from the
// workspace config's manual_deps and/or --manual-deps file into
// patcher.Amendment records.
func loadManualAmendments(cfg *config.WorkspaceConfigFile) []patcher.Amendment {
	var deps []config.ManualDependency
	if cfg != nil {
		deps = append(deps, cfg.ManualDeps...)
	}
	if settings.ManualDepsFile != "" {
		fileDeps, err := config.LoadManualDependencyFile(settings.ManualDepsFile)
		if err == nil {
			deps = append(deps, fileDeps...)
		}
	}

	amendments := make([]patcher.Amendment, 0, len(deps))
	for _, d := range deps {
		amendments = append(amendments, patcher.Amendment{Project: d.Project, Dependencies: d.Dependencies})
	}
	return amendments
}

// emitterOptions builds emitter.Options from settings and the workspace
// config's asconfig base and worker registrations. ExtraEditorSettings is
// not filled from either source. Exits when --sdk-dir is not set, since the
// emitted editor settings and tasks carry that path.
func emitterOptions(cfg *config.WorkspaceConfigFile) emitter.Options {
	if settings.SDKDir == "" {
		fmt.Fprintln(os.Stderr, "--sdk-dir is required to emit editor settings and tasks")
		os.Exit(1)
	}

	opts := emitter.DefaultOptions()
	opts.Overwrite = settings.Overwrite
	opts.Purge = settings.Purge
	opts.SDKDir = settings.SDKDir

	if cfg == nil {
		return opts
	}

	opts.AsconfigBase = cfg.AsconfigBase
	opts.ExternalWorkers = make(map[string]string)
	for _, w := range cfg.ExternalWorkers {
		if w.Project != "" && w.Output != "" {
			opts.ExternalWorkers[w.Project] = w.Output
		}
	}
	opts.InternalWorkers = make(map[string][]emitter.InternalWorker)
	for _, w := range cfg.InternalWorkers {
		if w.Project == "" {
			continue
		}
		opts.InternalWorkers[w.Project] = append(opts.InternalWorkers[w.Project], emitter.InternalWorker{File: w.File, Output: w.Output})
	}
	return opts
}
