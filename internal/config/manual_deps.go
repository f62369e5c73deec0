package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadManualDependencyFile loads a standalone `--manual-deps` amendments
// file: a YAML or JSON array of {project, dependencies[]} records, the
// same shape as a workspace config's `manual_deps` section (§4.3).
func LoadManualDependencyFile(path string) ([]ManualDependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manual dependencies file: %w", err)
	}

	var deps []ManualDependency
	if err := yaml.Unmarshal(data, &deps); err != nil {
		if jsonErr := json.Unmarshal(data, &deps); jsonErr != nil {
			return nil, fmt.Errorf("parse manual dependencies as YAML (%v) or JSON (%v)", err, jsonErr)
		}
	}
	return deps, nil
}
