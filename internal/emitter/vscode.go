package emitter

import (
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/mascot-tools/buildgraph/internal/types"
)

// sdkFrameworkKey is the as3mxml editor extension's settings key carrying
// the Flex/AIR SDK path; "$sdk" is the caller-facing alias for it (§4.8).
const sdkFrameworkKey = "as3mxml.sdk.framework"

// EmitSettings writes <project.HomePath>/.vscode/settings.json, merging
// Options.ExtraEditorSettings[project] (with its "$sdk" alias translated)
// into any existing file, unless Options.Purge replaces it outright.
func (e *Emitter) EmitSettings(project *types.Project) error {
	dir := path.Join(project.HomePath, ".vscode")
	if err := os.MkdirAll(dir, 0755); err != nil {
		e.logf("Emit failure for %s: %v", dir, err)
		return fmt.Errorf("create .vscode for %s: %w", project.HomePath, err)
	}
	target := path.Join(dir, "settings.json")

	settings := map[string]interface{}{}
	if !e.opts.Purge {
		if data, err := os.ReadFile(target); err == nil {
			_ = json.Unmarshal(data, &settings)
		}
	}

	for k, v := range e.opts.ExtraEditorSettings[project.HomePath] {
		if k == "$sdk" {
			settings[sdkFrameworkKey] = v
			continue
		}
		settings[k] = v
	}

	if e.opts.SDKDir != "" {
		settings[sdkFrameworkKey] = e.opts.SDKDir
	}

	e.progress.FileWriting(target)
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		e.logf("Emit failure for %s: %v", target, err)
		return fmt.Errorf("marshal settings for %s: %w", project.HomePath, err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		e.logf("Emit failure for %s: %v", target, err)
		return fmt.Errorf("write settings for %s: %w", project.HomePath, err)
	}
	e.progress.FileWritten(target)
	return nil
}

// vscodeTask is one `.vscode/tasks.json` task entry (§6). MascotOwned
// marks tasks this emitter generated so a later run can find and replace
// them without touching caller-authored tasks (§9 Open Questions).
type vscodeTask struct {
	Label          string      `json:"label"`
	Type           string      `json:"type,omitempty"`
	Command        string      `json:"command,omitempty"`
	Asconfig       string      `json:"asconfig,omitempty"`
	Args           []string    `json:"args,omitempty"`
	Group          interface{} `json:"group,omitempty"`
	ProblemMatcher interface{} `json:"problemMatcher,omitempty"`
	DependsOn      string      `json:"dependsOn,omitempty"`
	MascotOwned    bool        `json:"mascotOwned,omitempty"`
}

type tasksFile struct {
	Version string       `json:"version"`
	Tasks   []vscodeTask `json:"tasks"`
}

var buildModes = []string{"debug", "release"}

// EmitTasks writes <project.HomePath>/.vscode/tasks.json. filtered is the
// project's build-task entry after the Dirtiness Filter (§4.6); original is
// its entry before filtering, straight from the Task Planner (§4.5) — both
// are needed to pick the master task's label suffix. Existing MASCOT-owned
// tasks are replaced on Options.Purge; otherwise, if any MASCOT-owned task
// is already present, the write is skipped entirely.
func (e *Emitter) EmitTasks(project *types.Project, filtered, original types.BuildTask) error {
	dir := path.Join(project.HomePath, ".vscode")
	if err := os.MkdirAll(dir, 0755); err != nil {
		e.logf("Emit failure for %s: %v", dir, err)
		return fmt.Errorf("create .vscode for %s: %w", project.HomePath, err)
	}
	target := path.Join(dir, "tasks.json")

	existing := tasksFile{Version: "2.0.0"}
	if data, err := os.ReadFile(target); err == nil {
		_ = json.Unmarshal(data, &existing)
	}

	hasMascotTask := false
	var keep []vscodeTask
	for _, t := range existing.Tasks {
		if t.MascotOwned {
			hasMascotTask = true
			continue
		}
		keep = append(keep, t)
	}

	if hasMascotTask && !e.opts.Purge {
		return nil
	}

	filteredDeps := popSelf(filtered.ProjectBuildTasks, project.HomePath)
	originalDeps := popSelf(original.ProjectBuildTasks, project.HomePath)

	var suffix string
	switch {
	case len(filteredDeps) > 0:
		suffix = " (with deps)"
	case len(originalDeps) == 0:
		suffix = " (not needed)"
	}

	var generated []vscodeTask
	for _, mode := range buildModes {
		generated = append(generated, e.buildModeTasks(project, filteredDeps, mode, suffix)...)
	}

	final := tasksFile{Version: "2.0.0", Tasks: append(keep, generated...)}

	e.progress.FileWriting(target)
	data, err := json.MarshalIndent(final, "", "  ")
	if err != nil {
		e.logf("Emit failure for %s: %v", target, err)
		return fmt.Errorf("marshal tasks for %s: %w", project.HomePath, err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		e.logf("Emit failure for %s: %v", target, err)
		return fmt.Errorf("write tasks for %s: %w", project.HomePath, err)
	}
	e.progress.FileWritten(target)
	return nil
}

// buildModeTasks emits one chained sub-task per entry of deps (invoking
// the external compiler driver with the SDK path, the dependency's
// project path, and the debug flag) followed by one master task of the
// editor's ActionScript build type referencing asconfig.json, depending on
// the last sub-task if any (§4.8).
func (e *Emitter) buildModeTasks(project *types.Project, deps []string, mode, suffix string) []vscodeTask {
	debug := mode == "debug"

	var tasks []vscodeTask
	prevLabel := ""
	for _, dep := range deps {
		label := fmt.Sprintf("mascot: build %s (%s)", dep, mode)
		task := vscodeTask{
			Label:   label,
			Type:    "shell",
			Command: "mxmlc",
			Args: []string{
				"--sdk", e.opts.SDKDir,
				"--project", dep,
				fmt.Sprintf("--debug=%t", debug),
			},
			Group:          "build",
			ProblemMatcher: []string{"$mxmlc"},
			MascotOwned:    true,
		}
		if prevLabel != "" {
			task.DependsOn = prevLabel
		}
		tasks = append(tasks, task)
		prevLabel = label
	}

	master := vscodeTask{
		Label:    fmt.Sprintf("mascot: build %s (%s)%s", project.Name, mode, suffix),
		Type:     "as3mxml",
		Asconfig: "asconfig.json",
		Group: map[string]interface{}{
			"kind":      "build",
			"isDefault": debug,
		},
		MascotOwned: true,
	}
	if prevLabel != "" {
		master.DependsOn = prevLabel
	}
	tasks = append(tasks, master)

	return tasks
}

// popSelf returns list with its final element dropped if that element is
// project, else returns list unchanged (the planner always appends the
// root project last, but the Dirtiness Filter can remove it entirely).
func popSelf(list []string, project string) []string {
	if len(list) == 0 {
		return nil
	}
	if list[len(list)-1] == project {
		return list[:len(list)-1]
	}
	return list
}
