package planner

import "github.com/mascot-tools/buildgraph/internal/types"

// DirtinessFilter prunes build-task lists to transitively dirty entries
// only, using a project dependency graph and each project's own dirty flag.
type DirtinessFilter struct {
	dirtyByPath map[string]bool
	byPath      map[string]types.ProjectDependencyNode
	memo        map[string]bool
}

// NewDirtinessFilter builds a filter from the project catalog (for
// directly-dirty flags) and the dependency graph (for reachability).
func NewDirtinessFilter(projects []*types.Project, nodes []types.ProjectDependencyNode) *DirtinessFilter {
	dirtyByPath := make(map[string]bool, len(projects))
	for _, p := range projects {
		dirtyByPath[p.HomePath] = p.IsDirty
	}

	byPath := make(map[string]types.ProjectDependencyNode, len(nodes))
	for _, n := range nodes {
		byPath[n.ProjectPath] = n
	}

	return &DirtinessFilter{
		dirtyByPath: dirtyByPath,
		byPath:      byPath,
		memo:        make(map[string]bool),
	}
}

// Filter rewrites each task's project_build_tasks list to retain only
// transitively dirty entries, updating num_tasks.
func (f *DirtinessFilter) Filter(tasks []types.BuildTask) []types.BuildTask {
	filtered := make([]types.BuildTask, len(tasks))
	for i, t := range tasks {
		var kept []string
		for _, path := range t.ProjectBuildTasks {
			if f.isTransitivelyDirty(path, make(map[string]bool)) {
				kept = append(kept, path)
			}
		}
		filtered[i] = types.BuildTask{
			ProjectPath:       t.ProjectPath,
			ProjectBuildTasks: kept,
			NumTasks:          len(kept),
		}
	}
	return filtered
}

// isTransitivelyDirty reports whether path is directly dirty or any project
// reachable from it along dependency edges is dirty. Memoized; inProgress
// guards against cycles by short-circuiting to false for a node already
// being probed. A false result reached while other nodes are still being
// probed may rest on such a short-circuit, so only a top-level false is
// memoized.
func (f *DirtinessFilter) isTransitivelyDirty(path string, inProgress map[string]bool) bool {
	if cached, ok := f.memo[path]; ok {
		return cached
	}
	if inProgress[path] {
		return false
	}

	dirty, known := f.dirtyByPath[path]
	if !known {
		return false
	}
	if dirty {
		f.memo[path] = true
		return true
	}

	inProgress[path] = true
	defer delete(inProgress, path)

	node, ok := f.byPath[path]
	if !ok {
		f.memo[path] = false
		return false
	}

	for _, dep := range node.ProjectDependencies {
		if f.isTransitivelyDirty(dep, inProgress) {
			f.memo[path] = true
			return true
		}
	}

	delete(inProgress, path)
	if len(inProgress) == 0 {
		f.memo[path] = false
	}
	return false
}
