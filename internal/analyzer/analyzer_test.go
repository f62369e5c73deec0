package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mascot-tools/buildgraph/internal/provider"
	"github.com/mascot-tools/buildgraph/internal/types"
)

func TestAnalyze_S2_ResolvedImport(t *testing.T) {
	fp := provider.NewFakeProvider()
	fp.AddFile("/W/app/src/m/M.as", "package m { class M {} }\nimport a.A;")
	fp.AddFile("/W/libA/src/a/A.as", "package a { class A {} }")

	projects := []*types.Project{
		{HomePath: "/W/libA", ClassFiles: []string{"a/A.as"}},
		{HomePath: "/W/app", ClassFiles: []string{"m/M.as"}},
	}

	a := New(fp, nil, nil)
	entries, err := a.Analyze(projects)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	app := entries[1]
	assert.Equal(t, "M", app.AnalyzedClass.ClassName)
	assert.Equal(t, "m", app.AnalyzedClass.Package)
	require.Len(t, app.ClassCouplings, 1)
	c := app.ClassCouplings[0]
	assert.Equal(t, types.CouplingImport, c.Kind)
	assert.True(t, c.ClassExists)
	assert.Equal(t, "/W/libA", c.MatchingProject)
	assert.Equal(t, "/W/libA/src/a/A.as", c.ExpectedClassFile)
}

func TestAnalyze_S3_UnresolvedImport(t *testing.T) {
	fp := provider.NewFakeProvider()
	fp.AddFile("/W/app/src/m/M.as", "package m { class M {} }\nimport z.Z;")

	projects := []*types.Project{
		{HomePath: "/W/app", ClassFiles: []string{"m/M.as"}},
	}

	a := New(fp, nil, nil)
	entries, err := a.Analyze(projects)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	c := entries[0].ClassCouplings[0]
	assert.False(t, c.ClassExists)
	assert.Empty(t, c.MatchingProject)
}

func TestAnalyze_PathPackageMismatch(t *testing.T) {
	fp := provider.NewFakeProvider()
	fp.AddFile("/W/app/src/m/M.as", "package wrong { class M {} }")

	projects := []*types.Project{
		{HomePath: "/W/app", ClassFiles: []string{"m/M.as"}},
	}

	a := New(fp, nil, nil)
	entries, err := a.Analyze(projects)
	require.NoError(t, err)
	assert.False(t, entries[0].AnalyzedClass.PathMatchesPkg)
}

func TestAnalyze_FQNInstantiationRequiresDot(t *testing.T) {
	fp := provider.NewFakeProvider()
	fp.AddFile("/W/app/src/m/M.as", "package m { class M { var x = new a.A(); var y = new Plain(); } }")

	projects := []*types.Project{
		{HomePath: "/W/app", ClassFiles: []string{"m/M.as"}},
	}

	a := New(fp, nil, nil)
	entries, err := a.Analyze(projects)
	require.NoError(t, err)
	require.Len(t, entries[0].ClassCouplings, 1)
	assert.Equal(t, types.CouplingFQNInst, entries[0].ClassCouplings[0].Kind)
	assert.Equal(t, "A", entries[0].ClassCouplings[0].ClassName)
}

func TestAnalyze_MXMLNoTextExtraction(t *testing.T) {
	fp := provider.NewFakeProvider()

	projects := []*types.Project{
		{HomePath: "/W/app", ClassFiles: []string{"m/M.mxml"}},
	}

	a := New(fp, nil, nil)
	entries, err := a.Analyze(projects)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "M", entries[0].AnalyzedClass.ClassName)
	assert.Equal(t, "m", entries[0].AnalyzedClass.Package)
	assert.True(t, entries[0].AnalyzedClass.PathMatchesPkg)
	assert.Empty(t, entries[0].ClassCouplings)
}
