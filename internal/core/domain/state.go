package domain

import (
	"maps"

	"go.trai.ch/fastbuild/internal/core/future"
)

// BuildState is the per-target build session. At most one live instance
// exists per Label in the orchestrator's map; it is replaced, never mutated,
// so concurrent readers always observe a consistent snapshot.
type BuildState struct {
	fut       *future.Future[BuildOutput]
	outputDir string
	params    BuildParameters
	completed *BuildOutput
	modified  FileSet
}

// NewBuildState creates the state for a freshly launched baseline build.
func NewBuildState(
	fut *future.Future[BuildOutput],
	outputDir string,
	params BuildParameters,
	modified FileSet,
) *BuildState {
	return &BuildState{
		fut:       fut,
		outputDir: outputDir,
		params:    params,
		modified:  maps.Clone(modified),
	}
}

// Future returns the in-flight or completed build future.
func (s *BuildState) Future() *future.Future[BuildOutput] {
	return s.fut
}

// OutputDir returns the compiler output directory owned by this target.
func (s *BuildState) OutputDir() string {
	return s.outputDir
}

// Params returns the parameters of the most recent baseline build.
func (s *BuildState) Params() BuildParameters {
	return s.params
}

// CompletedOutput returns the last successfully completed output, or nil.
func (s *BuildState) CompletedOutput() *BuildOutput {
	return s.completed
}

// ModifiedFiles returns the accumulated modified-file set. Callers must not
// mutate the returned map.
func (s *BuildState) ModifiedFiles() FileSet {
	return s.modified
}

// WithAdditionalModifiedFiles returns a snapshot with files unioned into the
// modified set.
func (s *BuildState) WithAdditionalModifiedFiles(files FileSet) *BuildState {
	next := *s
	next.modified = s.modified.Union(files)
	return &next
}

// WithCompletedOutput returns a snapshot whose incremental base is out.
// The accumulated modified set is retained; use WithConsumedOutput when the
// output was produced by a build that consumed the set.
func (s *BuildState) WithCompletedOutput(out *BuildOutput) *BuildState {
	next := *s
	next.completed = out
	return &next
}

// WithConsumedOutput returns a snapshot whose incremental base is out and
// whose modified set is reset to exactly the files observed since that
// output was produced.
func (s *BuildState) WithConsumedOutput(out *BuildOutput, modifiedSince FileSet) *BuildState {
	next := *s
	next.completed = out
	next.modified = maps.Clone(modifiedSince)
	return &next
}

// WithNewFuture returns a snapshot with a newly launched build future.
func (s *BuildState) WithNewFuture(fut *future.Future[BuildOutput]) *BuildState {
	next := *s
	next.fut = fut
	return &next
}
