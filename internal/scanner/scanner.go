// Package scanner implements the Shallow Scanner: it walks a workspace,
// identifies ActionScript project roots, and emits a project catalog.
package scanner

import (
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mascot-tools/buildgraph/internal/git"
	"github.com/mascot-tools/buildgraph/internal/problems"
	"github.com/mascot-tools/buildgraph/internal/progress"
	"github.com/mascot-tools/buildgraph/internal/types"
)

var invalidNameChar = regexp.MustCompile(`[^A-Za-z0-9$_.\-]`)

var descriptorPattern = regexp.MustCompile(`^(.+)-app\.xml$`)

var classExtensions = map[string]bool{
	".as":   true,
	".mxml": true,
	".fxg":  true,
}

// Scanner walks a workspace directory tree looking for project roots.
type Scanner struct {
	provider        types.Provider
	excludePatterns []string
	progress        *progress.Progress
	problems        *problems.Logger
	gitCache        map[string]*git.GitInfo
	gitignore       *git.StackBasedLoader
}

// New creates a Shallow Scanner over the given provider.
func New(provider types.Provider, excludePatterns []string, prog *progress.Progress, probs *problems.Logger) *Scanner {
	if prog == nil {
		prog = progress.New(false, nil)
	}
	return &Scanner{
		provider:        provider,
		excludePatterns: excludePatterns,
		progress:        prog,
		problems:        probs,
		gitCache:        make(map[string]*git.GitInfo),
	}
}

// Scan walks the workspace root and returns the project catalog, in
// discovery order. In addition to the configured glob exclude patterns,
// directories matched by an ancestor `.gitignore` (or `.git/info/exclude`)
// are skipped, tracked via a stack that is pushed/popped alongside the
// recursive walk so a `.gitignore`'s scope is limited to its own subtree.
func (s *Scanner) Scan(root string) ([]*types.Project, error) {
	s.progress.StageStart("scan", root)

	s.gitignore = git.NewStackBasedLoaderWithProgress(s.progress)
	if err := s.gitignore.InitializeWithTopLevelExcludes(root, nil, nil); err != nil {
		return nil, err
	}

	var projects []*types.Project
	if err := s.walk(root, &projects); err != nil {
		return nil, err
	}

	s.progress.StageComplete("scan", len(projects), 0)
	return projects, nil
}

// walk recurses into dir, testing each directory for projecthood and
// continuing into children regardless (nested-project rejection aside).
func (s *Scanner) walk(dir string, projects *[]*types.Project) error {
	if s.isExcluded(dir) {
		return nil
	}

	entries, err := s.provider.ListDir(dir)
	if err != nil {
		return err
	}

	if s.gitignore != nil && s.gitignore.LoadAndPushGitignore(dir) {
		defer s.gitignore.PopGitignore()
	}

	hasSrc := false
	for _, e := range entries {
		if e.Type == "dir" && e.Name == "src" {
			hasSrc = true
			break
		}
	}

	if hasSrc {
		if nested, nestedPath := s.hasNestedProject(path.Join(dir, "src")); nested {
			if s.problems != nil {
				s.problems.Logf("Nested project rejected: %s contains a further src directory at %s", dir, nestedPath)
			}
			s.progress.ProjectSkipped(dir, "nested project")
			return nil
		}

		project, err := s.buildProject(dir)
		if err != nil {
			return err
		}
		*projects = append(*projects, project)
		s.progress.ProjectFound(dir)
	}

	for _, e := range entries {
		if e.Type != "dir" {
			continue
		}
		if err := s.walk(path.Join(dir, e.Name), projects); err != nil {
			return err
		}
	}

	return nil
}

// hasNestedProject reports whether srcDir contains, at any depth, a further
// directory that itself has a child "src" directory.
func (s *Scanner) hasNestedProject(srcDir string) (bool, string) {
	entries, err := s.provider.ListDir(srcDir)
	if err != nil {
		return false, ""
	}

	for _, e := range entries {
		if e.Type != "dir" {
			continue
		}
		childPath := path.Join(srcDir, e.Name)
		childEntries, err := s.provider.ListDir(childPath)
		if err != nil {
			continue
		}
		for _, c := range childEntries {
			if c.Type == "dir" && c.Name == "src" {
				return true, childPath
			}
		}
		if nested, p := s.hasNestedProject(childPath); nested {
			return true, p
		}
	}
	return false, ""
}

// buildProject constructs a Project for the accepted project root at home.
func (s *Scanner) buildProject(home string) (*types.Project, error) {
	srcDir := path.Join(home, "src")

	var classFiles, assetFiles []string
	var codeTimestamp int64

	if err := s.enumerateSrc(srcDir, srcDir, &classFiles, &assetFiles, &codeTimestamp); err != nil {
		return nil, err
	}
	sort.Strings(classFiles)
	sort.Strings(assetFiles)

	hasLibDir := s.dirHasSuffixFiles(path.Join(home, "lib"), ".swc", false)

	binDir := path.Join(home, "bin")
	binaryTimestamp, hasSwf := s.scanBinDir(binDir)

	descriptors := s.findDescriptors(srcDir, classFiles)

	isDirty := codeTimestamp > binaryTimestamp
	isAppProbability := 0
	if len(descriptors) > 0 || hasSwf {
		isAppProbability = 1
	}

	var gitInfo *types.GitInfo
	if info := s.getGitInfo(home); info != nil {
		gitInfo = info
	}

	name := invalidNameChar.ReplaceAllString(filepath.Base(home), "")

	return &types.Project{
		HomePath:         home,
		Name:             name,
		ClassFiles:       classFiles,
		AssetFiles:       assetFiles,
		HasLibDir:        hasLibDir,
		HasBinaries:      binaryTimestamp > 0 || hasSwf,
		HasAppBinary:     hasSwf,
		Descriptors:      descriptors,
		CodeTimestamp:    codeTimestamp,
		BinaryTimestamp:  binaryTimestamp,
		IsDirty:          isDirty,
		IsAppProbability: isAppProbability,
		Git:              gitInfo,
	}, nil
}

// enumerateSrc recursively walks srcDir, classifying files as class files or
// assets, and tracks the maximum class-file timestamp.
func (s *Scanner) enumerateSrc(srcDir, current string, classFiles, assetFiles *[]string, codeTimestamp *int64) error {
	entries, err := s.provider.ListDir(current)
	if err != nil {
		return err
	}

	for _, e := range entries {
		full := path.Join(current, e.Name)
		if e.Type == "dir" {
			if err := s.enumerateSrc(srcDir, full, classFiles, assetFiles, codeTimestamp); err != nil {
				return err
			}
			continue
		}

		rel, err := filepath.Rel(srcDir, full)
		if err != nil {
			rel = full
		}
		rel = filepath.ToSlash(rel)

		if classExtensions[strings.ToLower(path.Ext(e.Name))] {
			*classFiles = append(*classFiles, rel)
			if e.Modified > *codeTimestamp {
				*codeTimestamp = e.Modified
			}
		} else {
			*assetFiles = append(*assetFiles, rel)
		}
	}
	return nil
}

// scanBinDir scans a bin directory non-recursively for .swf/.swc files,
// returning the maximum timestamp and whether any .swf was found.
func (s *Scanner) scanBinDir(binDir string) (int64, bool) {
	entries, err := s.provider.ListDir(binDir)
	if err != nil {
		return 0, false
	}

	var maxTs int64
	hasSwf := false
	for _, e := range entries {
		if e.Type != "file" {
			continue
		}
		ext := strings.ToLower(path.Ext(e.Name))
		if ext != ".swf" && ext != ".swc" {
			continue
		}
		if e.Modified > maxTs {
			maxTs = e.Modified
		}
		if ext == ".swf" {
			hasSwf = true
		}
	}
	return maxTs, hasSwf
}

// dirHasSuffixFiles reports whether dir contains at least one file with the
// given extension; recursive controls whether it descends into children.
func (s *Scanner) dirHasSuffixFiles(dir, ext string, recursive bool) bool {
	entries, err := s.provider.ListDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Type == "file" && strings.ToLower(path.Ext(e.Name)) == ext {
			return true
		}
		if recursive && e.Type == "dir" {
			if s.dirHasSuffixFiles(path.Join(dir, e.Name), ext, recursive) {
				return true
			}
		}
	}
	return false
}

// findDescriptors locates retained `<name>-app.xml` descriptors directly
// under srcDir.
func (s *Scanner) findDescriptors(srcDir string, classFiles []string) []types.Descriptor {
	entries, err := s.provider.ListDir(srcDir)
	if err != nil {
		return nil
	}

	var descriptors []types.Descriptor
	for _, e := range entries {
		if e.Type != "file" {
			continue
		}
		m := descriptorPattern.FindStringSubmatch(e.Name)
		if m == nil {
			continue
		}
		name := m[1]

		var related string
		for _, cf := range classFiles {
			if strings.HasPrefix(cf, name) {
				related = cf
				break
			}
		}
		if related == "" {
			continue
		}

		pkgDir := path.Dir(related)
		var pkg string
		if pkgDir != "." {
			pkg = strings.ReplaceAll(pkgDir, "/", ".")
		}

		descriptors = append(descriptors, types.Descriptor{
			SimpleName:       name,
			Filename:         e.Name,
			AbsolutePath:     path.Join(srcDir, e.Name),
			RelatedClassPath: related,
			RelatedPackage:   pkg,
		})
	}
	return descriptors
}

// isExcluded checks dir against the configured glob exclude patterns and,
// if an ancestor `.gitignore` (or `.git/info/exclude`) is in scope, against
// that gitignore stack too.
func (s *Scanner) isExcluded(dir string) bool {
	base := s.provider.GetBasePath()
	rel, err := filepath.Rel(base, dir)
	if err != nil {
		rel = dir
	}
	rel = filepath.ToSlash(rel)
	name := filepath.Base(dir)

	for _, pattern := range s.excludePatterns {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, name); matched {
			return true
		}
	}

	if s.gitignore != nil && s.gitignore.ShouldExclude(name, rel) {
		return true
	}

	return false
}

// getGitInfo returns cached git provenance info for the repo containing
// path, if any.
func (s *Scanner) getGitInfo(p string) *types.GitInfo {
	root := git.FindRepoRoot(p)
	if root == "" {
		return nil
	}
	if cached, ok := s.gitCache[root]; ok {
		return cached
	}
	info, _ := git.GetGitInfoWithRoot(root)
	s.gitCache[root] = info
	return info
}
