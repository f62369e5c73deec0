package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mascot-tools/buildgraph/internal/codestats"
	"github.com/mascot-tools/buildgraph/internal/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan [workspace]",
	Short: "Run the Shallow Scanner and write projects.json",
	Long: `Scan walks the workspace, discovers ActionScript project roots, classifies
each as an application or a library candidate, and writes the resulting
project catalog to projects.json in the cache directory.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) {
	logger := configureLogger(cmd.Flags())
	loadWorkspaceConfig(logger)

	workspace, err := resolveWorkspace(args)
	if err != nil {
		logger.Error("Invalid workspace path", "error", err)
		os.Exit(1)
	}

	c, err := openCache()
	if err != nil {
		logger.Error("Invalid settings", "error", err)
		os.Exit(1)
	}

	prog := newProgress()
	probs, err := newProblemsLogger(c, prog, logger)
	if err != nil {
		logger.Error("Failed to open problems log", "error", err)
		os.Exit(1)
	}
	defer probs.Close()

	fp := newFSProvider(workspace)
	s := scanner.New(fp, settings.ExcludePatterns, prog, probs)

	projects, err := s.Scan(workspace)
	if err != nil {
		logger.Error("Scan failed", "error", err)
		os.Exit(1)
	}

	if settings.CodeStats {
		for _, p := range projects {
			p.CodeStats = codestats.Analyze(fp, p)
		}
	}

	if err := c.WriteProjects(projects); err != nil {
		logger.Error("Failed to write projects.json", "error", err)
		os.Exit(1)
	}

	logger.Info("Scan complete", "projects", len(projects), "cache_dir", c.Dir())
}
