package types

// RootClass identifies a descriptor-derived application entry point,
// carried on a ProjectDependencyNode so the Config Emitter can pick a main
// class without re-reading the project catalog.
type RootClass struct {
	ClassName      string `json:"class_name"`
	DescriptorPath string `json:"descriptor_path,omitempty"`
}

// ProjectDependencyNode is one project's direct dependency set, as emitted
// by the Dependency Builder.
type ProjectDependencyNode struct {
	ProjectPath         string      `json:"project_path"`
	ProjectDependencies []string    `json:"project_dependencies"`
	NumDependencies     int         `json:"num_dependencies"`
	RootClasses         []RootClass `json:"root_classes,omitempty"`
}

// BuildTask is one project's transitive, topologically-ordered dependency
// list as emitted by the Task Planner (and pruned by the Dirtiness Filter).
type BuildTask struct {
	ProjectPath       string   `json:"project_path"`
	ProjectBuildTasks []string `json:"project_build_tasks"`
	NumTasks          int      `json:"num_tasks"`
}
