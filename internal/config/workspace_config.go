package config

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mascot-tools/buildgraph/internal/validation"
	"gopkg.in/yaml.v3"
)

// ManualDependency is one caller-supplied {project, dependencies[]} amendment
// consumed by the Manual-Dependency Patcher (§4.3).
type ManualDependency struct {
	Project      string   `yaml:"project" json:"project"`
	Dependencies []string `yaml:"dependencies" json:"dependencies"`
}

// WorkerSpec describes one external or internal worker registration (§4.7,
// §9 glossary "External worker"/"Internal worker").
type WorkerSpec struct {
	Project string `yaml:"project,omitempty" json:"project,omitempty"`
	File    string `yaml:"file,omitempty" json:"file,omitempty"`
	Output  string `yaml:"output" json:"output"`
}

// WorkspaceScanOptions mirrors the flat CLI flags of a pipeline run. Field
// names match Settings for reflection-based merging.
type WorkspaceScanOptions struct {
	WorkspaceDir    string   `yaml:"workspace,omitempty" json:"workspace,omitempty"`
	CacheDir        string   `yaml:"cache_dir,omitempty" json:"cache_dir,omitempty" default:".buildgraph-cache"`
	SDKDir          string   `yaml:"sdk_dir,omitempty" json:"sdk_dir,omitempty"`
	ManualDepsFile  string   `yaml:"manual_deps_file,omitempty" json:"manual_deps_file,omitempty"`
	ExcludePatterns []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	RebuildAll      bool     `yaml:"rebuild_all,omitempty" json:"rebuild_all,omitempty" default:"false"`
	Overwrite       bool     `yaml:"overwrite,omitempty" json:"overwrite,omitempty" default:"false"`
	Purge           bool     `yaml:"purge,omitempty" json:"purge,omitempty" default:"false"`
	CodeStats       bool     `yaml:"code_stats,omitempty" json:"code_stats,omitempty" default:"false"`
	Verbose         bool     `yaml:"verbose,omitempty" json:"verbose,omitempty" default:"false"`
	Debug           bool     `yaml:"debug,omitempty" json:"debug,omitempty" default:"false"`
}

// WorkspaceConfigFile is the external workspace configuration document
// (`workspace.yml` / `--config`).
type WorkspaceConfigFile struct {
	ManualDeps      []ManualDependency     `yaml:"manual_deps,omitempty" json:"manual_deps,omitempty"`
	AsconfigBase    map[string]interface{} `yaml:"asconfig_base,omitempty" json:"asconfig_base,omitempty"`
	ExternalWorkers []WorkerSpec           `yaml:"external_workers,omitempty" json:"external_workers,omitempty"`
	InternalWorkers []WorkerSpec           `yaml:"internal_workers,omitempty" json:"internal_workers,omitempty"`

	Scan WorkspaceScanOptions `yaml:"scan,omitempty" json:"scan,omitempty"`
}

// LoadWorkspaceConfig loads workspace configuration from a file path or
// inline JSON (a string starting with "{").
func LoadWorkspaceConfig(configPath string) (*WorkspaceConfigFile, error) {
	if configPath == "" {
		return nil, nil
	}

	if strings.HasPrefix(strings.TrimSpace(configPath), "{") {
		return loadWorkspaceConfigFromJSON(configPath)
	}

	return loadWorkspaceConfigFromFile(configPath)
}

func loadWorkspaceConfigFromFile(configPath string) (*WorkspaceConfigFile, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg WorkspaceConfigFile
	var raw interface{}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		if jsonErr := json.Unmarshal(data, &cfg); jsonErr != nil {
			return nil, fmt.Errorf("failed to parse config as YAML (%v) or JSON (%v)", err, jsonErr)
		}
		_ = json.Unmarshal(data, &raw)
	} else {
		_ = yaml.Unmarshal(data, &raw)
	}

	if err := validation.ValidateJSON("workspace-config.json", raw); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func loadWorkspaceConfigFromJSON(jsonStr string) (*WorkspaceConfigFile, error) {
	var cfg WorkspaceConfigFile
	if err := json.Unmarshal([]byte(jsonStr), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse inline JSON config: %w", err)
	}

	// Validate the document as written: re-encoding cfg would turn an
	// omitted required list into an empty one and hide the omission.
	var raw interface{}
	_ = json.Unmarshal([]byte(jsonStr), &raw)
	if err := validation.ValidateJSON("workspace-config.json", raw); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MergeWithSettings merges the config file's scan section into settings.
// CLI flags (already populated on settings before this call) take
// precedence over config-file values.
func (c *WorkspaceConfigFile) MergeWithSettings(settings *Settings) {
	if c == nil || settings == nil {
		return
	}
	mergeStructFields(c.Scan, settings)
}

// mergeStructFields merges fields from source to target using reflection.
// Only merges if the target field is at its default value (its zero value,
// or the value named by the source field's `default` tag) and the source
// has a non-default value — i.e. source never overrides an already-set
// target field.
func mergeStructFields(source, target interface{}) {
	sourceValue := reflect.ValueOf(source)
	targetValue := reflect.ValueOf(target)

	if sourceValue.Kind() == reflect.Ptr {
		sourceValue = sourceValue.Elem()
	}
	if targetValue.Kind() == reflect.Ptr {
		targetValue = targetValue.Elem()
	}

	if sourceValue.Kind() != reflect.Struct || targetValue.Kind() != reflect.Struct {
		return
	}

	sourceType := sourceValue.Type()

	for i := 0; i < sourceValue.NumField(); i++ {
		field := sourceValue.Field(i)
		fieldType := sourceType.Field(i)
		targetField := targetValue.FieldByName(fieldType.Name)

		if !targetField.IsValid() || !targetField.CanSet() {
			continue
		}

		atDefault := isDefaultValue(targetField)
		if tag, ok := fieldType.Tag.Lookup("default"); ok && fmt.Sprint(targetField.Interface()) == tag {
			atDefault = true
		}
		if atDefault && !isDefaultValue(field) {
			targetField.Set(field)
		}
	}
}

// isDefaultValue checks if a field has its default/zero value.
func isDefaultValue(field reflect.Value) bool {
	switch field.Kind() {
	case reflect.String:
		return field.String() == ""
	case reflect.Bool:
		return !field.Bool()
	case reflect.Slice:
		return field.Len() == 0
	case reflect.Interface:
		return field.IsNil()
	default:
		return field.IsZero()
	}
}
