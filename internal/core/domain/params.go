package domain

import "slices"

// BuildParameters holds the build binary and flags for a baseline build.
// Project-level flags come first, caller-supplied flags after, so that
// later flags override earlier ones in build tools with last-wins semantics.
type BuildParameters struct {
	buildBinary string
	flags       []string
}

// NewBuildParameters creates build parameters from the binary path and the
// project and caller flag lists. Both slices are copied.
func NewBuildParameters(buildBinary string, projectFlags, callerFlags []string) BuildParameters {
	flags := make([]string, 0, len(projectFlags)+len(callerFlags))
	flags = append(flags, projectFlags...)
	flags = append(flags, callerFlags...)
	return BuildParameters{
		buildBinary: buildBinary,
		flags:       flags,
	}
}

// BuildBinary returns the build tool binary path.
func (p BuildParameters) BuildBinary() string {
	return p.buildBinary
}

// Flags returns a copy of the ordered flag list.
func (p BuildParameters) Flags() []string {
	return slices.Clone(p.flags)
}
