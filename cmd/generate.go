package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mascot-tools/buildgraph/internal/analyzer"
	"github.com/mascot-tools/buildgraph/internal/codestats"
	"github.com/mascot-tools/buildgraph/internal/depgraph"
	"github.com/mascot-tools/buildgraph/internal/emitter"
	"github.com/mascot-tools/buildgraph/internal/patcher"
	"github.com/mascot-tools/buildgraph/internal/planner"
	"github.com/mascot-tools/buildgraph/internal/scanner"
	"github.com/mascot-tools/buildgraph/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate [workspace]",
	Short: "Run the full pipeline end to end",
	Long: `Generate runs the Shallow Scanner, Deep Scanner, Manual-Dependency
Patcher, Dependency Builder, Task Planner, Dirtiness Filter, Config Emitter
and Editor-Config Emitter stages in order on the calling goroutine, writing
every cache artifact along the way so a later "scan"/"analyze"/"plan"/"emit"
invocation can resume from any stage.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) {
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

	fp := newFSProvider(workspace)

	// Shallow Scanner
	projects, err := scanner.New(fp, settings.ExcludePatterns, prog, probs).Scan(workspace)
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

	// Deep Scanner
	classes, err := analyzer.New(fp, prog, probs).Analyze(projects)
	if err != nil {
		logger.Error("Analyze failed", "error", err)
		os.Exit(1)
	}

	// Manual-Dependency Patcher
	if amendments := loadManualAmendments(cfg); len(amendments) > 0 {
		patcher.New(probs).Apply(classes, amendments)
	}
	if err := c.WriteClasses(classes); err != nil {
		logger.Error("Failed to write classes.json", "error", err)
		os.Exit(1)
	}

	// Dependency Builder
	nodes := depgraph.Build(projects, classes)
	if err := c.WriteDeps(nodes); err != nil {
		logger.Error("Failed to write deps.json", "error", err)
		os.Exit(1)
	}

	// Task Planner
	originalTasks := planner.New(nodes, probs).Plan()

	// Dirtiness Filter
	tasks := originalTasks
	if !settings.RebuildAll {
		tasks = planner.NewDirtinessFilter(projects, nodes).Filter(originalTasks)
	}
	if err := c.WriteTasks(tasks); err != nil {
		logger.Error("Failed to write tasks.json", "error", err)
		os.Exit(1)
	}

	nodeByPath := make(map[string]types.ProjectDependencyNode, len(nodes))
	for _, n := range nodes {
		nodeByPath[n.ProjectPath] = n
	}
	filteredByPath := make(map[string]types.BuildTask, len(tasks))
	for _, t := range tasks {
		filteredByPath[t.ProjectPath] = t
	}
	originalByPath := make(map[string]types.BuildTask, len(originalTasks))
	for _, t := range originalTasks {
		originalByPath[t.ProjectPath] = t
	}

	// Config Emitter + Editor-Config Emitter
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
		if err := e.EmitTasks(p, filteredByPath[p.HomePath], originalByPath[p.HomePath]); err != nil {
			logger.Error("Failed to emit tasks.json", "project", p.HomePath, "error", err)
			continue
		}
	}

	logger.Info("Generate complete", "projects", len(projects), "classes", len(classes), "cache_dir", c.Dir())
}
