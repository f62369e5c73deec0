// Package depgraph implements the Dependency Builder: it folds per-class
// couplings to the project level and emits the project dependency graph.
package depgraph

import (
	"sort"

	"github.com/mascot-tools/buildgraph/internal/types"
)

// Build folds the class catalog into a project dependency graph, one node
// per project in the catalog (so projects with zero dependencies are still
// represented), sorted by num_dependencies ascending (stable).
func Build(projects []*types.Project, classes []types.ClassEntry) []types.ProjectDependencyNode {
	nodes := make(map[string]*types.ProjectDependencyNode)
	order := make([]string, 0, len(projects))

	for _, p := range projects {
		node := &types.ProjectDependencyNode{ProjectPath: p.HomePath}
		node.RootClasses = rootClassesFor(p)
		nodes[p.HomePath] = node
		order = append(order, p.HomePath)
	}

	seen := make(map[string]map[string]bool)
	for _, path := range order {
		seen[path] = make(map[string]bool)
	}

	for _, entry := range classes {
		owner := entry.AnalyzedClass.OwningProjectPath
		node, ok := nodes[owner]
		if !ok {
			continue
		}

		for _, c := range entry.ClassCouplings {
			if !c.ClassExists || c.MatchingProject == "" || c.MatchingProject == owner {
				continue
			}
			if seen[owner][c.MatchingProject] {
				continue
			}
			seen[owner][c.MatchingProject] = true
			node.ProjectDependencies = append(node.ProjectDependencies, c.MatchingProject)
		}
	}

	result := make([]types.ProjectDependencyNode, 0, len(order))
	for _, path := range order {
		node := nodes[path]
		node.NumDependencies = len(node.ProjectDependencies)
		result = append(result, *node)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].NumDependencies < result[j].NumDependencies
	})

	return result
}

// rootClassesFor derives a node's root classes from its project's retained
// descriptors.
func rootClassesFor(p *types.Project) []types.RootClass {
	if len(p.Descriptors) == 0 {
		return nil
	}
	roots := make([]types.RootClass, 0, len(p.Descriptors))
	for _, d := range p.Descriptors {
		roots = append(roots, types.RootClass{
			ClassName:      classBasename(d.RelatedClassPath),
			DescriptorPath: d.AbsolutePath,
		})
	}
	return roots
}

func classBasename(relPath string) string {
	for i := len(relPath) - 1; i >= 0; i-- {
		if relPath[i] == '/' {
			relPath = relPath[i+1:]
			break
		}
	}
	for i := len(relPath) - 1; i >= 0; i-- {
		if relPath[i] == '.' {
			return relPath[:i]
		}
	}
	return relPath
}
