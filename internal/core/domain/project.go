package domain

import "slices"

// ProjectView is the loaded project configuration: where the workspace is,
// how to invoke the build tool, which targets exist, and which kinds support
// fast builds.
type ProjectView struct {
	root            string
	buildBinary     string
	projectFlags    []string
	compilerCommand []string
	sourceSuffixes  []string
	targets         map[Label]Kind
	supportedKinds  map[Kind]bool
}

// NewProjectView creates a project view. Slices and maps are copied.
func NewProjectView(
	root, buildBinary string,
	projectFlags, compilerCommand, sourceSuffixes []string,
	targets map[Label]Kind,
	supportedKinds []Kind,
) *ProjectView {
	t := make(map[Label]Kind, len(targets))
	for l, k := range targets {
		t[l] = k
	}
	s := make(map[Kind]bool, len(supportedKinds))
	for _, k := range supportedKinds {
		s[k] = true
	}
	return &ProjectView{
		root:            root,
		buildBinary:     buildBinary,
		projectFlags:    slices.Clone(projectFlags),
		compilerCommand: slices.Clone(compilerCommand),
		sourceSuffixes:  slices.Clone(sourceSuffixes),
		targets:         t,
		supportedKinds:  s,
	}
}

// Root returns the workspace root directory.
func (v *ProjectView) Root() string {
	return v.root
}

// BuildBinary returns the configured build tool binary.
func (v *ProjectView) BuildBinary() string {
	return v.buildBinary
}

// ProjectFlags returns a copy of the project-level build flags.
func (v *ProjectView) ProjectFlags() []string {
	return slices.Clone(v.projectFlags)
}

// CompilerCommand returns a copy of the incremental compiler command template.
func (v *ProjectView) CompilerCommand() []string {
	return slices.Clone(v.compilerCommand)
}

// SourceSuffixes returns the file suffixes the incremental compiler handles.
func (v *ProjectView) SourceSuffixes() []string {
	return slices.Clone(v.sourceSuffixes)
}

// Target looks up the kind of a label in the project's build graph.
func (v *ProjectView) Target(label Label) (Kind, bool) {
	k, ok := v.targets[label]
	return k, ok
}

// SupportsFastBuilds reports whether fast builds are enabled for kind.
func (v *ProjectView) SupportsFastBuilds(kind Kind) bool {
	return v.supportedKinds[kind]
}
