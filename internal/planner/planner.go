// Package planner implements the Task Planner (§4.5) and the Dirtiness
// Filter (§4.6): it produces, for each project, a transitive dependency
// order to build, then prunes that order down to transitively dirty
// entries.
package planner

import (
	"github.com/mascot-tools/buildgraph/internal/problems"
	"github.com/mascot-tools/buildgraph/internal/types"
)

// Planner computes build-task lists from a project dependency graph.
type Planner struct {
	problems *problems.Logger
	byPath   map[string]types.ProjectDependencyNode
	order    []string
}

// New creates a Task Planner over the given dependency graph. Node order is
// preserved as the iteration order for the resulting build-task list.
func New(nodes []types.ProjectDependencyNode, probs *problems.Logger) *Planner {
	byPath := make(map[string]types.ProjectDependencyNode, len(nodes))
	order := make([]string, 0, len(nodes))
	for _, n := range nodes {
		byPath[n.ProjectPath] = n
		order = append(order, n.ProjectPath)
	}
	return &Planner{problems: probs, byPath: byPath, order: order}
}

// Plan computes the build-task list for every node in the graph, in
// dependency-graph order.
func (p *Planner) Plan() []types.BuildTask {
	tasks := make([]types.BuildTask, 0, len(p.order))
	for _, path := range p.order {
		list := p.transitiveOrder(path)
		tasks = append(tasks, types.BuildTask{
			ProjectPath:       path,
			ProjectBuildTasks: list,
			NumTasks:          len(list),
		})
	}
	return tasks
}

// transitiveOrder computes a depth-first post-order traversal of the
// subgraph reachable from root, with root appended last, deduplicated by
// first occurrence. An in-progress set tolerates cycles: a node already
// in-progress is not recursed into again, and the cycle is logged.
func (p *Planner) transitiveOrder(root string) []string {
	var result []string
	visited := make(map[string]bool)
	inProgress := make(map[string]bool)

	var visit func(path string)
	visit = func(path string) {
		if visited[path] {
			return
		}
		if inProgress[path] {
			p.logf("Cycle detected in dependency graph involving %s", path)
			return
		}
		inProgress[path] = true

		node, ok := p.byPath[path]
		if !ok {
			if path != root {
				p.logf("Task planning referenced missing project %s", path)
			}
			inProgress[path] = false
			return
		}

		for _, dep := range node.ProjectDependencies {
			visit(dep)
		}

		inProgress[path] = false
		visited[path] = true
		result = append(result, path)
	}

	visit(root)
	return result
}

func (p *Planner) logf(format string, args ...interface{}) {
	if p.problems != nil {
		p.problems.Logf(format, args...)
	}
}
