package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWorkspaceConfig_FromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workspace.yml")
	content := `
manual_deps:
  - project: "AppCore"
    dependencies:
      - "UtilLib"

scan:
  cache_dir: ".cache"
  rebuild_all: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadWorkspaceConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Len(t, cfg.ManualDeps, 1)
	assert.Equal(t, "AppCore", cfg.ManualDeps[0].Project)
	assert.Equal(t, []string{"UtilLib"}, cfg.ManualDeps[0].Dependencies)
	assert.Equal(t, ".cache", cfg.Scan.CacheDir)
	assert.True(t, cfg.Scan.RebuildAll)
}

func TestLoadWorkspaceConfig_InlineJSON(t *testing.T) {
	inline := `{"scan": {"overwrite": true, "purge": true}}`

	cfg, err := LoadWorkspaceConfig(inline)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.True(t, cfg.Scan.Overwrite)
	assert.True(t, cfg.Scan.Purge)
}

func TestLoadWorkspaceConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadWorkspaceConfig("")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadWorkspaceConfig_InvalidFailsValidation(t *testing.T) {
	inline := `{"manual_deps": [{"project": "AppCore"}]}`

	_, err := LoadWorkspaceConfig(inline)
	assert.Error(t, err)
}

func TestWorkspaceConfigFile_MergeWithSettings(t *testing.T) {
	cfg := &WorkspaceConfigFile{
		Scan: WorkspaceScanOptions{
			CacheDir:   ".from-config-cache",
			RebuildAll: true,
		},
	}

	settings := DefaultSettings()
	settings.WorkspaceDir = "/explicit/from/cli"

	cfg.MergeWithSettings(settings)

	assert.Equal(t, "/explicit/from/cli", settings.WorkspaceDir, "CLI-set field must not be overridden")
	assert.Equal(t, ".from-config-cache", settings.CacheDir, "unset field should be filled from config")
	assert.True(t, settings.RebuildAll)
}

func TestMergeStructFields_DoesNotOverrideNonDefault(t *testing.T) {
	type inner struct {
		Name string
		Flag bool
	}

	source := inner{Name: "from-source", Flag: true}
	target := &inner{Name: "from-target"}

	mergeStructFields(source, target)

	assert.Equal(t, "from-target", target.Name)
	assert.True(t, target.Flag)
}

func TestIsDefaultValue(t *testing.T) {
	type holder struct {
		S string
		B bool
		L []string
	}

	empty := holder{}
	v := reflect.ValueOf(empty)
	assert.True(t, isDefaultValue(v.FieldByName("S")))
	assert.True(t, isDefaultValue(v.FieldByName("B")))
	assert.True(t, isDefaultValue(v.FieldByName("L")))

	filled := holder{S: "x", B: true, L: []string{"a"}}
	v = reflect.ValueOf(filled)
	assert.False(t, isDefaultValue(v.FieldByName("S")))
	assert.False(t, isDefaultValue(v.FieldByName("B")))
	assert.False(t, isDefaultValue(v.FieldByName("L")))
}
