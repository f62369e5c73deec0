// Package patcher implements the Manual-Dependency Patcher: it injects
// caller-supplied synthetic couplings into the class catalog to correct for
// couplings the Deep Scanner's extractor cannot detect.
package patcher

import (
	"github.com/mascot-tools/buildgraph/internal/problems"
	"github.com/mascot-tools/buildgraph/internal/types"
)

// Amendment is one caller-supplied {project, dependencies[]} record, all as
// absolute home paths.
type Amendment struct {
	Project      string
	Dependencies []string
}

// Patcher applies manual-dependency amendments to a class catalog in place.
type Patcher struct {
	problems *problems.Logger
}

// New creates a Manual-Dependency Patcher.
func New(probs *problems.Logger) *Patcher {
	return &Patcher{problems: probs}
}

// Apply mutates entries in place, prepending a synthetic `patch` coupling to
// the first class file of each amendment's project for each dependency. A
// record is applied atomically: if its project or any one of its
// dependencies fails to resolve to a catalog project, the whole record is
// skipped and logged, and none of its couplings are applied. Duplicate patch
// couplings are deduplicated on (matching_project, expected_class_file,
// coupling_type).
func (p *Patcher) Apply(entries []types.ClassEntry, amendments []Amendment) {
	firstClassByProject := indexFirstClassByProject(entries)

	for _, amendment := range amendments {
		projectIdx, ok := firstClassByProject[amendment.Project]
		if !ok {
			p.logf("Manual dependency skipped: unknown project %s", amendment.Project)
			continue
		}

		couplings := make([]types.Coupling, 0, len(amendment.Dependencies))
		invalid := false
		for _, dep := range amendment.Dependencies {
			depIdx, ok := firstClassByProject[dep]
			if !ok {
				p.logf("Manual dependency skipped: unknown dependency %s for project %s", dep, amendment.Project)
				invalid = true
				break
			}

			depClass := entries[depIdx].AnalyzedClass
			couplings = append(couplings, types.Coupling{
				ClassName:         depClass.ClassName,
				Package:           depClass.Package,
				ExpectedRelPath:   depClass.ExpectedRelPath,
				Kind:              types.CouplingPatch,
				MatchingProject:   dep,
				ExpectedClassFile: depClass.AbsolutePath,
				ClassExists:       true,
			})
		}

		if invalid {
			continue
		}

		for _, coupling := range couplings {
			if hasCoupling(entries[projectIdx].ClassCouplings, coupling) {
				continue
			}
			entries[projectIdx].ClassCouplings = append(
				[]types.Coupling{coupling},
				entries[projectIdx].ClassCouplings...,
			)
		}
	}
}

// indexFirstClassByProject maps each project's home path to the index of
// its first class-catalog entry, preserving catalog order.
func indexFirstClassByProject(entries []types.ClassEntry) map[string]int {
	index := make(map[string]int)
	for i, e := range entries {
		project := e.AnalyzedClass.OwningProjectPath
		if _, seen := index[project]; !seen {
			index[project] = i
		}
	}
	return index
}

// hasCoupling reports whether couplings already contains an equivalent
// patch on (matching_project, expected_class_file, coupling_type).
func hasCoupling(couplings []types.Coupling, candidate types.Coupling) bool {
	for _, c := range couplings {
		if c.Kind == candidate.Kind &&
			c.MatchingProject == candidate.MatchingProject &&
			c.ExpectedClassFile == candidate.ExpectedClassFile {
			return true
		}
	}
	return false
}

func (p *Patcher) logf(format string, args ...interface{}) {
	if p.problems != nil {
		p.problems.Logf(format, args...)
	}
}
