package emitter

import (
	"encoding/json"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mascot-tools/buildgraph/internal/types"
)

func TestEmitSettings_MergesSDKAliasIntoFrameworkKey(t *testing.T) {
	dir := t.TempDir()
	project := &types.Project{HomePath: dir, Name: "app"}

	opts := DefaultOptions()
	opts.ExtraEditorSettings = map[string]map[string]interface{}{
		dir: {"$sdk": "/opt/flex-sdk", "editor.tabSize": float64(4)},
	}
	e := New(opts, nil, nil)
	require.NoError(t, e.EmitSettings(project))

	settings := readJSONFile(t, path.Join(dir, ".vscode", "settings.json"))
	assert.Equal(t, "/opt/flex-sdk", settings[sdkFrameworkKey])
	assert.Equal(t, float64(4), settings["editor.tabSize"])
}

func TestEmitSettings_PurgeReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(path.Join(dir, ".vscode"), 0755))
	require.NoError(t, os.WriteFile(path.Join(dir, ".vscode", "settings.json"), []byte(`{"stale.key":true}`), 0644))

	project := &types.Project{HomePath: dir, Name: "app"}
	opts := DefaultOptions()
	opts.Purge = true
	e := New(opts, nil, nil)
	require.NoError(t, e.EmitSettings(project))

	settings := readJSONFile(t, path.Join(dir, ".vscode", "settings.json"))
	_, stillPresent := settings["stale.key"]
	assert.False(t, stillPresent)
}

func TestEmitTasks_ChainsDependenciesAndMasterTask(t *testing.T) {
	dir := t.TempDir()
	project := &types.Project{HomePath: dir, Name: "app"}
	filtered := types.BuildTask{ProjectPath: dir, ProjectBuildTasks: []string{"/W/libA", dir}}
	original := filtered

	e := New(DefaultOptions(), nil, nil)
	require.NoError(t, e.EmitTasks(project, filtered, original))

	var tf tasksFile
	data, err := os.ReadFile(path.Join(dir, ".vscode", "tasks.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &tf))

	// 2 modes * (1 dep sub-task + 1 master task) = 4
	require.Len(t, tf.Tasks, 4)

	debugDep := tf.Tasks[0]
	assert.Equal(t, "/W/libA", debugDep.Args[3])
	assert.Empty(t, debugDep.DependsOn)

	debugMaster := tf.Tasks[1]
	assert.Contains(t, debugMaster.Label, "(with deps)")
	assert.Equal(t, debugDep.Label, debugMaster.DependsOn)
}

func TestEmitTasks_NotNeededWhenNoDependenciesEver(t *testing.T) {
	dir := t.TempDir()
	project := &types.Project{HomePath: dir, Name: "libA"}
	filtered := types.BuildTask{ProjectPath: dir, ProjectBuildTasks: []string{}}
	original := types.BuildTask{ProjectPath: dir, ProjectBuildTasks: []string{dir}}

	e := New(DefaultOptions(), nil, nil)
	require.NoError(t, e.EmitTasks(project, filtered, original))

	var tf tasksFile
	data, err := os.ReadFile(path.Join(dir, ".vscode", "tasks.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &tf))

	for _, task := range tf.Tasks {
		if task.Type == "as3mxml" {
			assert.Contains(t, task.Label, "(not needed)")
		}
	}
}

func TestEmitTasks_SkipsWriteWhenMascotTaskAlreadyPresent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(path.Join(dir, ".vscode"), 0755))
	existing := `{"version":"2.0.0","tasks":[{"label":"mascot: build libA (debug)","type":"as3mxml","mascotOwned":true}]}`
	tasksPath := path.Join(dir, ".vscode", "tasks.json")
	require.NoError(t, os.WriteFile(tasksPath, []byte(existing), 0644))

	project := &types.Project{HomePath: dir, Name: "libA"}
	task := types.BuildTask{ProjectPath: dir, ProjectBuildTasks: []string{dir}}

	e := New(DefaultOptions(), nil, nil)
	require.NoError(t, e.EmitTasks(project, task, task))

	data, err := os.ReadFile(tasksPath)
	require.NoError(t, err)
	assert.Equal(t, existing, string(data))
}
