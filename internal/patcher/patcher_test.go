package patcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mascot-tools/buildgraph/internal/types"
)

func entriesFor(homePath, className string) types.ClassEntry {
	return types.ClassEntry{
		AnalyzedClass: types.AnalyzedClass{
			AbsolutePath:      homePath + "/src/" + className + ".as",
			ClassName:         className,
			OwningProjectPath: homePath,
		},
	}
}

func TestApply_S6_ManualDependencyInjection(t *testing.T) {
	entries := []types.ClassEntry{
		entriesFor("/W/libA", "A"),
		entriesFor("/W/libB", "B"),
	}

	p := New(nil)
	p.Apply(entries, []Amendment{
		{Project: "/W/libB", Dependencies: []string{"/W/libA"}},
	})

	require.Len(t, entries[1].ClassCouplings, 1)
	c := entries[1].ClassCouplings[0]
	assert.Equal(t, types.CouplingPatch, c.Kind)
	assert.Equal(t, "/W/libA", c.MatchingProject)
	assert.True(t, c.ClassExists)
	assert.Empty(t, entries[0].ClassCouplings)
}

func TestApply_UnknownProjectSkipped(t *testing.T) {
	entries := []types.ClassEntry{entriesFor("/W/libA", "A")}

	p := New(nil)
	p.Apply(entries, []Amendment{
		{Project: "/W/unknown", Dependencies: []string{"/W/libA"}},
	})

	assert.Empty(t, entries[0].ClassCouplings)
}

func TestApply_UnknownDependencyRejectsWholeRecord(t *testing.T) {
	entries := []types.ClassEntry{
		entriesFor("/W/libA", "A"),
		entriesFor("/W/libB", "B"),
	}

	p := New(nil)
	p.Apply(entries, []Amendment{
		{Project: "/W/libB", Dependencies: []string{"/W/libA", "/W/unknown"}},
	})

	assert.Empty(t, entries[1].ClassCouplings, "a record with any unresolvable dependency applies none of its couplings")
}

func TestApply_IdempotentDeduplication(t *testing.T) {
	entries := []types.ClassEntry{
		entriesFor("/W/libA", "A"),
		entriesFor("/W/libB", "B"),
	}

	p := New(nil)
	amendments := []Amendment{{Project: "/W/libB", Dependencies: []string{"/W/libA"}}}
	p.Apply(entries, amendments)
	p.Apply(entries, amendments)

	assert.Len(t, entries[1].ClassCouplings, 1)
}
