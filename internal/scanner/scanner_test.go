package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mascot-tools/buildgraph/internal/provider"
	"github.com/mascot-tools/buildgraph/internal/types"
)

func TestScan_S1_SingleLibraryNoCouplings(t *testing.T) {
	fp := provider.NewFakeProvider()
	fp.SetBasePath("/W")
	fp.AddFileWithTime("/W/libA/src/a/A.as", "package a; class A {}", 1000)

	s := New(fp, nil, nil, nil)
	projects, err := s.Scan("/W")
	require.NoError(t, err)
	require.Len(t, projects, 1)

	p := projects[0]
	assert.Equal(t, "/W/libA", p.HomePath)
	assert.Equal(t, "libA", p.Name)
	assert.Equal(t, []string{"a/A.as"}, p.ClassFiles)
	assert.Equal(t, 0, p.IsAppProbability)
	assert.Equal(t, int64(1000), p.CodeTimestamp)
	assert.False(t, p.HasLibDir)
}

func TestScan_S2_AppWithDescriptor(t *testing.T) {
	fp := provider.NewFakeProvider()
	fp.SetBasePath("/W")
	fp.AddFileWithTime("/W/app/src/m/M.as", "package m; class M {} import a.A;", 2000)
	fp.AddFileWithTime("/W/app/src/m-app.xml", "<application/>", 2000)
	fp.AddFileWithTime("/W/libA/src/a/A.as", "package a; class A {}", 1000)

	s := New(fp, nil, nil, nil)
	projects, err := s.Scan("/W")
	require.NoError(t, err)
	require.Len(t, projects, 2)

	var app, libA *types.Project
	for _, p := range projects {
		switch p.Name {
		case "app":
			app = p
		case "libA":
			libA = p
		}
	}
	require.NotNil(t, app)
	require.NotNil(t, libA)

	assert.Equal(t, 1, app.IsAppProbability)
	require.Len(t, app.Descriptors, 1)
	assert.Equal(t, "m", app.Descriptors[0].SimpleName)
	assert.Equal(t, "m/M.as", app.Descriptors[0].RelatedClassPath)
	assert.Equal(t, "m", app.Descriptors[0].RelatedPackage)
}

func TestScan_NestedProjectRejected(t *testing.T) {
	fp := provider.NewFakeProvider()
	fp.SetBasePath("/W")
	fp.AddFileWithTime("/W/outer/src/a/A.as", "package a; class A {}", 1000)
	fp.AddFileWithTime("/W/outer/src/inner/src/b/B.as", "package b; class B {}", 1000)

	s := New(fp, nil, nil, nil)
	projects, err := s.Scan("/W")
	require.NoError(t, err)
	assert.Len(t, projects, 0)
}

func TestScan_ExcludePattern(t *testing.T) {
	fp := provider.NewFakeProvider()
	fp.SetBasePath("/W")
	fp.AddFileWithTime("/W/libA/src/a/A.as", "package a; class A {}", 1000)
	fp.AddFileWithTime("/W/node_modules/pkg/src/x/X.as", "package x; class X {}", 1000)

	s := New(fp, []string{"**/node_modules"}, nil, nil)
	projects, err := s.Scan("/W")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "libA", projects[0].Name)
}

func TestScan_BinDirDirtiness(t *testing.T) {
	fp := provider.NewFakeProvider()
	fp.SetBasePath("/W")
	fp.AddFileWithTime("/W/libA/src/a/A.as", "package a; class A {}", 1000)
	fp.AddFileWithTime("/W/libA/bin/libA.swc", "binary", 2000)

	s := New(fp, nil, nil, nil)
	projects, err := s.Scan("/W")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.False(t, projects[0].IsDirty)
	assert.Equal(t, int64(2000), projects[0].BinaryTimestamp)
}
