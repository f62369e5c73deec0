package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mascot-tools/buildgraph/internal/analyzer"
	"github.com/mascot-tools/buildgraph/internal/patcher"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [workspace]",
	Short: "Run the Deep Scanner (and Manual-Dependency Patcher) and write classes.json",
	Long: `Analyze reads projects.json, extracts each class's declared package/class
and outgoing couplings, resolves every coupling against the project
catalog, applies any manual-dependency amendments, and writes the
resulting class catalog to classes.json.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	logger := configureLogger(cmd.Flags())
	cfg := loadWorkspaceConfig(logger)

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

	projects, err := c.ReadProjects()
	if err != nil {
		logger.Error("Failed to read projects.json", "error", err)
		os.Exit(1)
	}

	fp := newFSProvider(workspace)
	a := analyzer.New(fp, prog, probs)
	classes, err := a.Analyze(projects)
	if err != nil {
		logger.Error("Analyze failed", "error", err)
		os.Exit(1)
	}

	if amendments := loadManualAmendments(cfg); len(amendments) > 0 {
		patcher.New(probs).Apply(classes, amendments)
	}

	if err := c.WriteClasses(classes); err != nil {
		logger.Error("Failed to write classes.json", "error", err)
		os.Exit(1)
	}

	logger.Info("Analyze complete", "classes", len(classes), "cache_dir", c.Dir())
}
