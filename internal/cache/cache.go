// Package cache implements typed read/write helpers for the five JSON cache
// files that form the contract between pipeline stages:
// projects.json, classes.json, deps.json, tasks.json, problems.log.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mascot-tools/buildgraph/internal/types"
)

const (
	ProjectsFile = "projects.json"
	ClassesFile  = "classes.json"
	DepsFile     = "deps.json"
	TasksFile    = "tasks.json"
	ProblemsFile = "problems.log"
)

// Cache reads and writes the pipeline's cache-directory contract.
type Cache struct {
	dir string
}

// New creates a Cache rooted at dir, creating the directory if absent.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// ProblemsPath returns the absolute path to problems.log.
func (c *Cache) ProblemsPath() string {
	return filepath.Join(c.dir, ProblemsFile)
}

// WriteProjects writes the project catalog to projects.json.
func (c *Cache) WriteProjects(projects []*types.Project) error {
	return writeJSON(filepath.Join(c.dir, ProjectsFile), projects)
}

// ReadProjects reads the project catalog from projects.json.
func (c *Cache) ReadProjects() ([]*types.Project, error) {
	var projects []*types.Project
	if err := readJSON(filepath.Join(c.dir, ProjectsFile), &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// WriteClasses writes the class catalog to classes.json.
func (c *Cache) WriteClasses(classes []types.ClassEntry) error {
	return writeJSON(filepath.Join(c.dir, ClassesFile), classes)
}

// ReadClasses reads the class catalog from classes.json.
func (c *Cache) ReadClasses() ([]types.ClassEntry, error) {
	var classes []types.ClassEntry
	if err := readJSON(filepath.Join(c.dir, ClassesFile), &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// WriteDeps writes the project dependency graph to deps.json.
func (c *Cache) WriteDeps(nodes []types.ProjectDependencyNode) error {
	return writeJSON(filepath.Join(c.dir, DepsFile), nodes)
}

// ReadDeps reads the project dependency graph from deps.json.
func (c *Cache) ReadDeps() ([]types.ProjectDependencyNode, error) {
	var nodes []types.ProjectDependencyNode
	if err := readJSON(filepath.Join(c.dir, DepsFile), &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// WriteTasks writes the build-task list to tasks.json.
func (c *Cache) WriteTasks(tasks []types.BuildTask) error {
	return writeJSON(filepath.Join(c.dir, TasksFile), tasks)
}

// ReadTasks reads the build-task list from tasks.json.
func (c *Cache) ReadTasks() ([]types.BuildTask, error) {
	var tasks []types.BuildTask
	if err := readJSON(filepath.Join(c.dir, TasksFile), &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// writeJSON marshals v as pretty-printed (2-space indent) UTF-8 JSON and
// writes it to path.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// readJSON reads path and unmarshals it into v. A missing file is a
// "missing input artifact" error per the pipeline's error-handling design.
func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("missing input artifact %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
