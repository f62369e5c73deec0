package types

// CouplingKind enumerates how one class references another.
type CouplingKind string

const (
	CouplingImport  CouplingKind = "import"
	CouplingFQNInst CouplingKind = "fqn_instantiation"
	CouplingPatch   CouplingKind = "patch"
)

// Coupling is a single outgoing reference from an AnalyzedClass.
type Coupling struct {
	ClassName         string       `json:"class_name"`
	Package           string       `json:"package,omitempty"`
	ExpectedRelPath   string       `json:"expected_relative_path"`
	Kind              CouplingKind `json:"coupling_type"`
	MatchingProject   string       `json:"matching_project,omitempty"`
	ExpectedClassFile string       `json:"expected_class_file,omitempty"`
	ClassExists       bool         `json:"class_exists"`
}

// AnalyzedClass is one parsed class file and its outgoing couplings.
type AnalyzedClass struct {
	AbsolutePath      string `json:"absolute_path"`
	ClassName         string `json:"class_name"`
	Package           string `json:"package,omitempty"`
	ExpectedRelPath   string `json:"expected_relative_path"`
	PathMatchesPkg    bool   `json:"path_matches_package"`
	OwningProjectPath string `json:"owning_project_path"`

	Couplings []Coupling `json:"-"`
}

// ClassEntry is the on-disk shape of one classes.json element: the
// analyzed class paired with its coupling list (§6's `{analyzed_class,
// class_couplings}` record).
type ClassEntry struct {
	AnalyzedClass  AnalyzedClass `json:"analyzed_class"`
	ClassCouplings []Coupling    `json:"class_couplings"`
}
