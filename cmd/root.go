// Package cmd implements the buildgraph CLI: one subcommand per pipeline
// stage boundary (scan/analyze/plan/emit) plus a generate command that
// runs the whole pipeline end to end, mirroring the teacher's single dense
// scan command split along this pipeline's natural seams.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mascot-tools/buildgraph/internal/config"
)

var (
	settings   *config.Settings
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "buildgraph [workspace]",
	Short: "Workspace build-graph generator for ActionScript projects",
	Long: `buildgraph discovers ActionScript project trees in a workspace, statically
analyzes their source to infer inter-project dependencies, topologically
orders them, determines which are stale against their compiled artifacts,
and emits per-project compiler configuration and editor task files that
drive an external compiler.`,
	Version: "0.1.0",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	settings = config.LoadSettingsFromEnvironment()

	rootCmd.PersistentFlags().StringVar(&settings.CacheDir, "cache-dir", settings.CacheDir, "Cache directory for intermediate pipeline artifacts")
	rootCmd.PersistentFlags().StringVar(&settings.SDKDir, "sdk-dir", settings.SDKDir, "ActionScript/AIR SDK directory (required by the emit/generate commands)")
	rootCmd.PersistentFlags().StringVar(&settings.ManualDepsFile, "manual-deps", settings.ManualDepsFile, "Path to a manual-dependency amendments file")
	rootCmd.PersistentFlags().StringSliceVar(&settings.ExcludePatterns, "exclude", settings.ExcludePatterns, "Workspace-relative glob patterns to exclude (can be specified multiple times)")
	rootCmd.PersistentFlags().BoolVar(&settings.RebuildAll, "rebuild-all", settings.RebuildAll, "Disable the Dirtiness Filter; treat every project as needing a rebuild")
	rootCmd.PersistentFlags().BoolVar(&settings.Overwrite, "overwrite", settings.Overwrite, "Overwrite existing asconfig.json files")
	rootCmd.PersistentFlags().BoolVar(&settings.Purge, "purge", settings.Purge, "Replace existing .vscode/settings.json and MASCOT-owned tasks instead of merging into or skipping them")
	rootCmd.PersistentFlags().BoolVar(&settings.CodeStats, "code-stats", settings.CodeStats, "Compute per-project source line counts (off by default)")
	rootCmd.PersistentFlags().BoolVarP(&settings.Verbose, "verbose", "v", settings.Verbose, "Report pipeline progress to stderr")
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", settings.Debug, "Report pipeline progress to stderr with extra detail")
	rootCmd.PersistentFlags().String("log-level", settings.LogLevel.String(), "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&settings.LogFormat, "log-format", settings.LogFormat, "Log format: text or json")
	rootCmd.PersistentFlags().StringVar(&settings.LogFile, "log-file", settings.LogFile, "Log file path (default: stderr)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Workspace configuration file path or inline JSON")
}
