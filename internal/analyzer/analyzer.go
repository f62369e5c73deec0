// Package analyzer implements the Deep Scanner: it reads each class file in
// the project catalog, extracts declared package/class and outgoing
// couplings, and resolves each coupling against the catalog.
package analyzer

import (
	"path"
	"regexp"
	"strings"

	"github.com/mascot-tools/buildgraph/internal/problems"
	"github.com/mascot-tools/buildgraph/internal/progress"
	"github.com/mascot-tools/buildgraph/internal/types"
)

// The extractor is deliberately regex-grade: it operates on raw text, not a
// character stream, and does not attempt to parse multi-line or
// comment-obscured declarations.
var (
	packageRe = regexp.MustCompile(`package\s+([A-Za-z_][\w.]*)?\s*\{`)
	classRe   = regexp.MustCompile(`\bclass\s+([A-Za-z_]\w*)`)
	importRe  = regexp.MustCompile(`\bimport\s+([A-Za-z_][\w.]*)\s*;`)
	newRe     = regexp.MustCompile(`\bnew\s+([A-Za-z_][\w.]*\.)([A-Za-z_]\w*)`)
)

// Analyzer runs the Deep Scanner over a project catalog.
type Analyzer struct {
	provider types.Provider
	progress *progress.Progress
	problems *problems.Logger
}

// New creates a Deep Scanner.
func New(provider types.Provider, prog *progress.Progress, probs *problems.Logger) *Analyzer {
	if prog == nil {
		prog = progress.New(false, nil)
	}
	return &Analyzer{provider: provider, progress: prog, problems: probs}
}

// Analyze walks every project's class files in catalog order and returns
// the class catalog.
func (a *Analyzer) Analyze(projects []*types.Project) ([]types.ClassEntry, error) {
	a.progress.StageStart("analyze", "")

	var entries []types.ClassEntry
	for _, project := range projects {
		for _, rel := range project.ClassFiles {
			entry, err := a.analyzeClass(project, rel)
			if err != nil {
				if a.problems != nil {
					a.problems.Logf("Parse failure for %s/src/%s: %v", project.HomePath, rel, err)
				}
				continue
			}
			a.resolveCouplings(projects, &entry)
			entries = append(entries, entry)
			a.progress.ClassResolved(entry.AnalyzedClass.AbsolutePath, entry.AnalyzedClass.ClassName)
		}
	}

	a.progress.StageComplete("analyze", len(entries), 0)
	return entries, nil
}

// analyzeClass extracts the declared package/class and raw couplings for a
// single class file, relative to its owning project's src directory.
func (a *Analyzer) analyzeClass(project *types.Project, rel string) (types.ClassEntry, error) {
	absPath := path.Join(project.HomePath, "src", rel)
	ext := strings.ToLower(path.Ext(rel))

	dirPkg := dirToPackage(rel)

	var className, declaredPkg string
	var couplings []types.Coupling
	pathMatches := true

	switch ext {
	case ".mxml", ".fxg":
		className = strings.TrimSuffix(path.Base(rel), path.Ext(rel))
		declaredPkg = dirPkg
	default:
		content, err := a.provider.ReadFile(absPath)
		if err != nil {
			return types.ClassEntry{}, err
		}
		text := string(content)

		if m := packageRe.FindStringSubmatch(text); m != nil {
			declaredPkg = m[1]
		}
		if m := classRe.FindStringSubmatch(text); m != nil {
			className = m[1]
		} else {
			className = strings.TrimSuffix(path.Base(rel), path.Ext(rel))
		}

		if declaredPkg != dirPkg {
			pathMatches = false
			if a.problems != nil {
				a.problems.Logf("Path/package mismatch for %s: directory implies package %q, declared %q", absPath, dirPkg, declaredPkg)
			}
		}

		couplings = extractCouplings(text)
	}

	expectedRel := classRelPath(declaredPkg, className, ext)

	analyzed := types.AnalyzedClass{
		AbsolutePath:      absPath,
		ClassName:         className,
		Package:           declaredPkg,
		ExpectedRelPath:   expectedRel,
		PathMatchesPkg:    pathMatches,
		OwningProjectPath: project.HomePath,
	}

	return types.ClassEntry{AnalyzedClass: analyzed, ClassCouplings: couplings}, nil
}

// extractCouplings finds all import and FQN-instantiation couplings in the
// given source text.
func extractCouplings(text string) []types.Coupling {
	var couplings []types.Coupling

	for _, m := range importRe.FindAllStringSubmatch(text, -1) {
		pkg, class := splitDotted(m[1])
		couplings = append(couplings, types.Coupling{
			ClassName:       class,
			Package:         pkg,
			ExpectedRelPath: classRelPath(pkg, class, ".as"),
			Kind:            types.CouplingImport,
		})
	}

	for _, m := range newRe.FindAllStringSubmatch(text, -1) {
		pkg := strings.TrimSuffix(m[1], ".")
		class := m[2]
		couplings = append(couplings, types.Coupling{
			ClassName:       class,
			Package:         pkg,
			ExpectedRelPath: classRelPath(pkg, class, ".as"),
			Kind:            types.CouplingFQNInst,
		})
	}

	return couplings
}

// resolveCouplings resolves each of entry's couplings against the project
// catalog, preserving catalog order for determinism and stopping at the
// first match.
func (a *Analyzer) resolveCouplings(projects []*types.Project, entry *types.ClassEntry) {
	for i := range entry.ClassCouplings {
		c := &entry.ClassCouplings[i]
		resolved := false

		for _, project := range projects {
			for _, rel := range project.ClassFiles {
				absForm := path.Join(project.HomePath, "src", rel)
				if strings.HasSuffix(absForm, "/"+c.ExpectedRelPath) || absForm == c.ExpectedRelPath {
					c.MatchingProject = project.HomePath
					c.ExpectedClassFile = absForm
					c.ClassExists = true
					resolved = true
					break
				}
			}
			if resolved {
				break
			}
		}

		if !resolved {
			c.ClassExists = false
			if a.problems != nil {
				a.problems.Logf("Unresolved dependency: %s.%s referenced by class %s", c.Package, c.ClassName, entry.AnalyzedClass.ClassName)
			}
		}
	}
}

// dirToPackage converts a class file's relative directory (dots for path
// separators) to its inferred package, trimmed of the basename. Returns ""
// for a file directly under src.
func dirToPackage(rel string) string {
	dir := path.Dir(rel)
	if dir == "." {
		return ""
	}
	return strings.ReplaceAll(dir, "/", ".")
}

// classRelPath builds the expected relative path "<pkg/slashes>/<class><ext>"
// used for both self-location checks and coupling resolution.
func classRelPath(pkg, class, ext string) string {
	if pkg == "" {
		return class + ext
	}
	return strings.ReplaceAll(pkg, ".", "/") + "/" + class + ext
}

// splitDotted splits a dotted identifier "a.b.C" into package "a.b" and
// final segment "C". A single-segment identifier has an empty package.
func splitDotted(dotted string) (pkg, last string) {
	idx := strings.LastIndex(dotted, ".")
	if idx < 0 {
		return "", dotted
	}
	return dotted[:idx], dotted[idx+1:]
}
