// Package emitter implements the Config Emitter (§4.7) and Editor-Config
// Emitter (§4.8): the two terminal pipeline stages that write per-project
// `asconfig.json` and `.vscode/{settings,tasks}.json` files to disk.
package emitter

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"regexp"

	"github.com/mascot-tools/buildgraph/internal/problems"
	"github.com/mascot-tools/buildgraph/internal/progress"
	"github.com/mascot-tools/buildgraph/internal/types"
)

// InternalWorker is one auxiliary compilable unit co-located within a
// project, listed under its asconfig's `compilerOptions.workers`.
type InternalWorker struct {
	File   string `json:"file"`
	Output string `json:"output"`
}

// Options configures both emitters. Zero-value fields fall back to
// DefaultOptions' defaults where the spec names one.
type Options struct {
	BinDir     string
	SrcDir     string
	ConfigType string
	CopyAssets bool
	Debug      bool
	Overwrite  bool
	Purge      bool
	SDKDir     string

	AsconfigBase map[string]interface{}

	// ExternalWorkers maps a project's home path to a caller-supplied
	// output path, used in place of the computed app output (§4.7,
	// glossary "External worker").
	ExternalWorkers map[string]string

	// InternalWorkers maps a project's home path to its co-located
	// internal worker list (§4.7, glossary "Internal worker").
	InternalWorkers map[string][]InternalWorker

	// ExtraEditorSettings maps a project's home path to caller-supplied
	// `.vscode/settings.json` keys; "$sdk" is the alias for the editor
	// extension's SDK-framework key (§4.8).
	ExtraEditorSettings map[string]map[string]interface{}
}

// DefaultOptions returns the spec's §4.7 defaults: config_type "air",
// copy_assets true, bin_dir "bin", src_dir "src".
func DefaultOptions() Options {
	return Options{
		BinDir:     "bin",
		SrcDir:     "src",
		ConfigType: "air",
		CopyAssets: true,
		Debug:      true,
	}
}

// Emitter writes asconfig.json and the .vscode editor files for each
// project it is asked to emit.
type Emitter struct {
	opts     Options
	progress *progress.Progress
	problems *problems.Logger
}

// New creates an Emitter.
func New(opts Options, prog *progress.Progress, probs *problems.Logger) *Emitter {
	if prog == nil {
		prog = progress.New(false, nil)
	}
	return &Emitter{opts: opts, progress: prog, problems: probs}
}

var outputNameSanitizer = regexp.MustCompile(`[^A-Za-z0-9_\-]`)

// ownedAsconfigKeys lists the dotted key paths the Config Emitter always
// computes; an inherited `asconfig_base` never overrides these (§4.7,
// §9 "Deep merge semantics").
var ownedAsconfigKeys = map[string]bool{
	"config":                          true,
	"type":                            true,
	"mainClass":                       true,
	"application":                     true,
	"copySourcePathAssets":            true,
	"compilerOptions.debug":           true,
	"compilerOptions.library-path":    true,
	"compilerOptions.output":          true,
	"compilerOptions.source-path":     true,
	"compilerOptions.include-sources": true,
	"compilerOptions.workers":         true,
}

// EmitAsconfig writes <project.HomePath>/asconfig.json. node supplies the
// project's direct dependencies and root classes. An existing file is
// retained unless Options.Overwrite is set.
func (e *Emitter) EmitAsconfig(project *types.Project, node types.ProjectDependencyNode) error {
	target := path.Join(project.HomePath, "asconfig.json")

	if !e.opts.Overwrite {
		if _, err := os.Stat(target); err == nil {
			return nil
		}
	}

	isApp := project.IsAppProbability >= 1

	computed := map[string]interface{}{
		"config":               configType(e.opts.ConfigType),
		"type":                 projectTypeString(isApp),
		"copySourcePathAssets": e.opts.CopyAssets,
	}

	compilerOptions := map[string]interface{}{
		"debug":        e.opts.Debug,
		"library-path": e.libraryPath(project, node),
		"source-path":  []string{srcDir(e.opts.SrcDir)},
	}

	mainClass := "Main"
	var descriptorPath string
	if len(node.RootClasses) > 0 {
		mainClass = node.RootClasses[0].ClassName
		descriptorPath = node.RootClasses[0].DescriptorPath
	}

	if isApp {
		computed["mainClass"] = mainClass
		if descriptorPath != "" {
			computed["application"] = descriptorPath
		}
		compilerOptions["output"] = e.appOutput(project, mainClass)
	} else {
		compilerOptions["include-sources"] = []string{srcDir(e.opts.SrcDir)}
		compilerOptions["output"] = e.libOutput(project)
	}

	if workers := e.opts.InternalWorkers[project.HomePath]; len(workers) > 0 {
		compilerOptions["workers"] = workers
	}

	computed["compilerOptions"] = compilerOptions

	final := computed
	if e.opts.AsconfigBase != nil {
		final = mergeConfig(computed, e.opts.AsconfigBase, "", ownedAsconfigKeys)
	}

	e.progress.FileWriting(target)
	data, err := json.MarshalIndent(final, "", "  ")
	if err != nil {
		e.logf("Emit failure for %s: %v", target, err)
		return fmt.Errorf("marshal asconfig for %s: %w", project.HomePath, err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		e.logf("Emit failure for %s: %v", target, err)
		return fmt.Errorf("write asconfig for %s: %w", project.HomePath, err)
	}
	e.progress.FileWritten(target)
	return nil
}

// libraryPath builds the `library-path` array: "lib" first if the project
// has a library directory, then `<dep>/<bin_dir>` for each direct
// dependency in node order.
func (e *Emitter) libraryPath(project *types.Project, node types.ProjectDependencyNode) []string {
	var libPath []string
	if project.HasLibDir {
		libPath = append(libPath, "lib")
	}
	for _, dep := range node.ProjectDependencies {
		libPath = append(libPath, path.Join(dep, binDir(e.opts.BinDir)))
	}
	if libPath == nil {
		libPath = []string{}
	}
	return libPath
}

// appOutput returns the app's compiled output path: the caller-registered
// external worker output if one exists for this project, else
// `<bin_dir>/<mainClass>.swf`.
func (e *Emitter) appOutput(project *types.Project, mainClass string) string {
	if out, ok := e.opts.ExternalWorkers[project.HomePath]; ok && out != "" {
		return out
	}
	return path.Join(binDir(e.opts.BinDir), mainClass+".swf")
}

// libOutput returns `<bin_dir>/<sanitized_project_name>.swc`.
func (e *Emitter) libOutput(project *types.Project) string {
	name := outputNameSanitizer.ReplaceAllString(project.Name, "_")
	return path.Join(binDir(e.opts.BinDir), name+".swc")
}

func (e *Emitter) logf(format string, args ...interface{}) {
	if e.problems != nil {
		e.problems.Logf(format, args...)
	}
}

func projectTypeString(isApp bool) string {
	if isApp {
		return "app"
	}
	return "lib"
}

func configType(v string) string {
	if v == "" {
		return "air"
	}
	return v
}

func binDir(v string) string {
	if v == "" {
		return "bin"
	}
	return v
}

func srcDir(v string) string {
	if v == "" {
		return "src"
	}
	return v
}

// mergeConfig deep-merges base under computed: object values are merged
// key by key recursively; for keys in owned (a set of dotted paths rooted
// at prefix), computed always wins outright, array or not. For non-owned
// keys present in both as plain values (including arrays), base wins
// wholesale rather than being element-merged, per §9 "Deep merge
// semantics".
func mergeConfig(computed, base map[string]interface{}, prefix string, owned map[string]bool) map[string]interface{} {
	result := make(map[string]interface{}, len(base)+len(computed))
	for k, v := range base {
		result[k] = v
	}

	for k, cv := range computed {
		keyPath := k
		if prefix != "" {
			keyPath = prefix + "." + k
		}

		if owned[keyPath] {
			result[k] = cv
			continue
		}

		bv, hasBase := result[k]
		if !hasBase {
			result[k] = cv
			continue
		}

		cMap, cIsMap := cv.(map[string]interface{})
		bMap, bIsMap := bv.(map[string]interface{})
		if cIsMap && bIsMap {
			result[k] = mergeConfig(cMap, bMap, keyPath, owned)
		}
		// Otherwise base's existing value (already in result) wins.
	}

	return result
}
