package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mascot-tools/buildgraph/internal/depgraph"
	"github.com/mascot-tools/buildgraph/internal/planner"
)

var planCmd = &cobra.Command{
	Use:   "plan [workspace]",
	Short: "Run the Dependency Builder, Task Planner and Dirtiness Filter",
	Long: `Plan reads projects.json and classes.json, folds couplings into a
project dependency graph (deps.json), computes each project's transitive
build order, and (unless --rebuild-all is set) prunes that order down to
transitively dirty entries before writing tasks.json.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) {
	logger := configureLogger(cmd.Flags())
	loadWorkspaceConfig(logger)

	if _, err := resolveWorkspace(args); err != nil {
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

	classes, err := c.ReadClasses()
	if err != nil {
		logger.Error("Failed to read classes.json", "error", err)
		os.Exit(1)
	}

	nodes := depgraph.Build(projects, classes)
	if err := c.WriteDeps(nodes); err != nil {
		logger.Error("Failed to write deps.json", "error", err)
		os.Exit(1)
	}

	tasks := planner.New(nodes, probs).Plan()
	if !settings.RebuildAll {
		tasks = planner.NewDirtinessFilter(projects, nodes).Filter(tasks)
	}

	if err := c.WriteTasks(tasks); err != nil {
		logger.Error("Failed to write tasks.json", "error", err)
		os.Exit(1)
	}

	logger.Info("Plan complete", "projects", len(nodes), "cache_dir", c.Dir())
}
