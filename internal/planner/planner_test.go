package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mascot-tools/buildgraph/internal/types"
)

func TestPlan_S2_AppDependsOnLib(t *testing.T) {
	nodes := []types.ProjectDependencyNode{
		{ProjectPath: "/W/libA"},
		{ProjectPath: "/W/app", ProjectDependencies: []string{"/W/libA"}},
	}

	p := New(nodes, nil)
	tasks := p.Plan()
	require.Len(t, tasks, 2)

	byPath := map[string]types.BuildTask{}
	for _, t := range tasks {
		byPath[t.ProjectPath] = t
	}

	assert.Equal(t, []string{"/W/libA", "/W/app"}, byPath["/W/app"].ProjectBuildTasks)
	assert.Equal(t, []string{"/W/libA"}, byPath["/W/libA"].ProjectBuildTasks)
}

func TestPlan_S4_CycleDoesNotInfiniteRecurse(t *testing.T) {
	nodes := []types.ProjectDependencyNode{
		{ProjectPath: "/W/A", ProjectDependencies: []string{"/W/B"}},
		{ProjectPath: "/W/B", ProjectDependencies: []string{"/W/A"}},
	}

	p := New(nodes, nil)
	tasks := p.Plan()
	require.Len(t, tasks, 2)

	for _, task := range tasks {
		if task.ProjectPath == "/W/A" {
			assert.ElementsMatch(t, []string{"/W/A", "/W/B"}, task.ProjectBuildTasks)
		}
	}
}

func TestPlan_MissingDependencyOmitted(t *testing.T) {
	nodes := []types.ProjectDependencyNode{
		{ProjectPath: "/W/app", ProjectDependencies: []string{"/W/ghost"}},
	}

	p := New(nodes, nil)
	tasks := p.Plan()
	require.Len(t, tasks, 1)
	assert.Equal(t, []string{"/W/app"}, tasks[0].ProjectBuildTasks)
}

func TestDirtinessFilter_S5_PrunesCleanLeaf(t *testing.T) {
	projects := []*types.Project{
		{HomePath: "/W/libA", IsDirty: false},
		{HomePath: "/W/app", IsDirty: true},
	}
	nodes := []types.ProjectDependencyNode{
		{ProjectPath: "/W/libA"},
		{ProjectPath: "/W/app", ProjectDependencies: []string{"/W/libA"}},
	}

	tasks := []types.BuildTask{
		{ProjectPath: "/W/app", ProjectBuildTasks: []string{"/W/libA", "/W/app"}, NumTasks: 2},
	}

	filter := NewDirtinessFilter(projects, nodes)
	filtered := filter.Filter(tasks)

	require.Len(t, filtered, 1)
	assert.Equal(t, []string{"/W/app"}, filtered[0].ProjectBuildTasks)
	assert.Equal(t, 1, filtered[0].NumTasks)
}

func TestDirtinessFilter_TransitivelyDirtyKeepsClean(t *testing.T) {
	projects := []*types.Project{
		{HomePath: "/W/libA", IsDirty: true},
		{HomePath: "/W/app", IsDirty: false},
	}
	nodes := []types.ProjectDependencyNode{
		{ProjectPath: "/W/libA"},
		{ProjectPath: "/W/app", ProjectDependencies: []string{"/W/libA"}},
	}

	tasks := []types.BuildTask{
		{ProjectPath: "/W/app", ProjectBuildTasks: []string{"/W/libA", "/W/app"}, NumTasks: 2},
	}

	filter := NewDirtinessFilter(projects, nodes)
	filtered := filter.Filter(tasks)

	assert.ElementsMatch(t, []string{"/W/libA", "/W/app"}, filtered[0].ProjectBuildTasks)
}
