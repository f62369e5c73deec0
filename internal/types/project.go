package types

import (
	"path"
	"strings"

	"github.com/mascot-tools/buildgraph/internal/git"
)

// GitInfo mirrors git.GitInfo so the types package has no import-cycle
// dependency back onto the git package beyond this type alias.
type GitInfo = git.GitInfo

// Descriptor is a retained `<name>-app.xml` application descriptor.
type Descriptor struct {
	SimpleName       string `json:"simple_name"`
	Filename         string `json:"filename"`
	AbsolutePath     string `json:"absolute_path"`
	RelatedClassPath string `json:"related_class_path"`
	RelatedPackage   string `json:"related_package,omitempty"`
}

// Project is one discovered ActionScript compilable unit.
type Project struct {
	HomePath         string       `json:"home_path"`
	Name             string       `json:"name"`
	ClassFiles       []string     `json:"class_files"`
	AssetFiles       []string     `json:"asset_files"`
	HasLibDir        bool         `json:"has_lib_dir"`
	HasBinaries      bool         `json:"has_binaries"`
	HasAppBinary     bool         `json:"has_app_binary"`
	Descriptors      []Descriptor `json:"descriptors,omitempty"`
	CodeTimestamp    int64        `json:"code_timestamp"`
	BinaryTimestamp  int64        `json:"binary_timestamp"`
	IsDirty          bool         `json:"is_dirty"`
	IsAppProbability int          `json:"is_app_probability"`
	Git              *GitInfo     `json:"git,omitempty"`
	CodeStats        *CodeStats   `json:"code_stats,omitempty"`
}

// CodeStats is the optional per-project line-count aggregation produced by
// internal/codestats when enabled.
type CodeStats struct {
	Files int `json:"files"`
	Lines int `json:"lines"`
	Code  int `json:"code"`
}

// FirstRootClassBasename returns the basename (no extension) of the
// project's first retained descriptor's related class. Returns "" if there
// are no descriptors.
func (p *Project) FirstRootClassBasename() string {
	if len(p.Descriptors) == 0 {
		return ""
	}
	base := path.Base(p.Descriptors[0].RelatedClassPath)
	return strings.TrimSuffix(base, path.Ext(base))
}
