package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mascot-tools/buildgraph/internal/emitter"
	"github.com/mascot-tools/buildgraph/internal/planner"
	"github.com/mascot-tools/buildgraph/internal/types"
)

var emitCmd = &cobra.Command{
	Use:   "emit [workspace]",
	Short: "Run the Config Emitter and Editor-Config Emitter",
	Long: `Emit reads projects.json, deps.json and tasks.json and writes, for each
project, asconfig.json and the .vscode/settings.json and .vscode/tasks.json
editor files.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runEmit,
}

func init() {
	rootCmd.AddCommand(emitCmd)
}

func runEmit(cmd *cobra.Command, args []string) {
	logger := configureLogger(cmd.Flags())
	cfg := loadWorkspaceConfig(logger)

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

	nodes, err := c.ReadDeps()
	if err != nil {
		logger.Error("Failed to read deps.json", "error", err)
		os.Exit(1)
	}

	filteredTasks, err := c.ReadTasks()
	if err != nil {
		logger.Error("Failed to read tasks.json", "error", err)
		os.Exit(1)
	}

	// The Editor-Config Emitter's label suffix compares the filtered
	// (possibly dirtiness-pruned) build order against the unfiltered one,
	// so recompute the latter from the dependency graph alone.
	originalTasks := planner.New(nodes, probs).Plan()

	nodeByPath := make(map[string]types.ProjectDependencyNode, len(nodes))
	for _, n := range nodes {
		nodeByPath[n.ProjectPath] = n
	}
	filteredByPath := make(map[string]types.BuildTask, len(filteredTasks))
	for _, t := range filteredTasks {
		filteredByPath[t.ProjectPath] = t
	}
	originalByPath := make(map[string]types.BuildTask, len(originalTasks))
	for _, t := range originalTasks {
		originalByPath[t.ProjectPath] = t
	}

	e := emitter.New(emitterOptions(cfg), prog, probs)

	for _, p := range projects {
		node := nodeByPath[p.HomePath]
		if err := e.EmitAsconfig(p, node); err != nil {
			logger.Error("Failed to emit asconfig.json", "project", p.HomePath, "error", err)
			continue
		}
		if err := e.EmitSettings(p); err != nil {
			logger.Error("Failed to emit settings.json", "project", p.HomePath, "error", err)
			continue
		}
		filtered := filteredByPath[p.HomePath]
		original := originalByPath[p.HomePath]
		if err := e.EmitTasks(p, filtered, original); err != nil {
			logger.Error("Failed to emit tasks.json", "project", p.HomePath, "error", err)
			continue
		}
	}

	logger.Info("Emit complete", "projects", len(projects), "cache_dir", c.Dir())
}
