package provider

import (
	"path/filepath"

	"github.com/mascot-tools/buildgraph/internal/types"
)

// FakeProvider implements the Provider interface for testing
type FakeProvider struct {
	basePath string
	files    map[string][]types.File
	content  map[string]string
}

// NewFakeProvider creates a new fake provider
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		basePath: "/",
		files:    make(map[string][]types.File),
		content:  make(map[string]string),
	}
}

// SetBasePath overrides the root path reported by GetBasePath.
func (p *FakeProvider) SetBasePath(path string) {
	p.basePath = path
}

// AddFile adds a file to the fake provider with an unset modification time.
func (p *FakeProvider) AddFile(path, content string) {
	p.AddFileWithTime(path, content, 0)
}

// AddFileWithTime adds a file with an explicit modification time in
// milliseconds, letting tests control dirtiness computations precisely.
func (p *FakeProvider) AddFileWithTime(path, content string, modifiedMs int64) {
	dir := filepath.Dir(path)
	if dir == "." {
		dir = "/"
	}
	p.registerDirChain(dir)

	if p.files[dir] == nil {
		p.files[dir] = make([]types.File, 0)
	}

	filename := filepath.Base(path)
	p.files[dir] = append(p.files[dir], types.File{
		Name:     filename,
		Path:     path,
		Type:     "file",
		Size:     int64(len(content)),
		Modified: modifiedMs,
	})

	p.content[path] = content
}

// AddDir adds a directory to the fake provider, registering it as a "dir"
// entry under its parent so directory walks can discover it.
func (p *FakeProvider) AddDir(path string) {
	if p.files[path] == nil {
		p.files[path] = make([]types.File, 0)
	}
	p.registerDirChain(path)
}

// registerDirChain ensures every ancestor of dir (up to basePath) exists and
// carries a "dir" entry for dir's immediate child segment.
func (p *FakeProvider) registerDirChain(dir string) {
	if dir == "" || dir == "/" || dir == "." {
		if p.files[dir] == nil {
			p.files[dir] = make([]types.File, 0)
		}
		return
	}

	parent := filepath.Dir(dir)
	if parent == dir {
		return
	}
	p.registerDirChain(parent)

	if p.files[dir] == nil {
		p.files[dir] = make([]types.File, 0)
	}

	name := filepath.Base(dir)
	for _, f := range p.files[parent] {
		if f.Name == name && f.Type == "dir" {
			return
		}
	}
	p.files[parent] = append(p.files[parent], types.File{
		Name: name,
		Path: dir,
		Type: "dir",
	})
}

// ListDir returns the contents of a directory
func (p *FakeProvider) ListDir(path string) ([]types.File, error) {
	files, exists := p.files[path]
	if !exists {
		return nil, nil // Directory doesn't exist
	}
	return files, nil
}

// Open returns the content of a file
func (p *FakeProvider) Open(path string) (string, error) {
	content, exists := p.content[path]
	if !exists {
		return "", nil // File doesn't exist
	}
	return content, nil
}

// ReadFile reads file content as bytes
func (p *FakeProvider) ReadFile(path string) ([]byte, error) {
	content, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	return []byte(content), nil
}

// Exists checks if a file or directory exists
func (p *FakeProvider) Exists(path string) (bool, error) {
	_, fileExists := p.content[path]
	_, dirExists := p.files[path]
	return fileExists || dirExists, nil
}

// IsDir checks if a path is a directory
func (p *FakeProvider) IsDir(path string) (bool, error) {
	_, exists := p.files[path]
	return exists, nil
}

// GetBasePath returns the base path for this provider.
func (p *FakeProvider) GetBasePath() string {
	return p.basePath
}
