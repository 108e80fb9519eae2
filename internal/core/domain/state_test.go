package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fastbuild/internal/core/domain"
	"go.trai.ch/fastbuild/internal/core/future"
)

func newTestState(modified domain.FileSet) *domain.BuildState {
	fut := future.Resolve(domain.BuildOutput{Artifact: "/tmp/a_deploy.jar"})
	params := domain.NewBuildParameters("bazel", []string{"--config=dev"}, nil)
	return domain.NewBuildState(fut, "/tmp/out", params, modified)
}

func TestBuildState_SnapshotsAreIndependent(t *testing.T) {
	original := newTestState(domain.NewFileSet("/w/A.java"))

	next := original.WithAdditionalModifiedFiles(domain.NewFileSet("/w/B.java"))

	// The original snapshot is unchanged.
	assert.Equal(t, []string{"/w/A.java"}, original.ModifiedFiles().Sorted())
	assert.Equal(t, []string{"/w/A.java", "/w/B.java"}, next.ModifiedFiles().Sorted())

	// Shared fields carry over.
	assert.Equal(t, original.OutputDir(), next.OutputDir())
	assert.Equal(t, original.Params(), next.Params())
	assert.Same(t, original.Future(), next.Future())
}

func TestBuildState_WithCompletedOutputKeepsModifiedSet(t *testing.T) {
	s := newTestState(domain.NewFileSet("/w/A.java"))
	out := &domain.BuildOutput{Artifact: "/tmp/b_deploy.jar"}

	next := s.WithCompletedOutput(out)
	require.NotNil(t, next.CompletedOutput())
	assert.Equal(t, out.Artifact, next.CompletedOutput().Artifact)
	assert.Equal(t, []string{"/w/A.java"}, next.ModifiedFiles().Sorted())
}

func TestBuildState_WithConsumedOutputResetsModifiedSet(t *testing.T) {
	s := newTestState(domain.NewFileSet("/w/A.java", "/w/B.java"))
	out := &domain.BuildOutput{Artifact: "/tmp/b_deploy.jar"}

	next := s.WithConsumedOutput(out, domain.NewFileSet("/w/C.java"))
	assert.Equal(t, []string{"/w/C.java"}, next.ModifiedFiles().Sorted())
}

func TestBuildState_ClonesInitialModifiedSet(t *testing.T) {
	modified := domain.NewFileSet("/w/A.java")
	s := newTestState(modified)

	modified["/w/B.java"] = struct{}{}
	assert.Equal(t, []string{"/w/A.java"}, s.ModifiedFiles().Sorted())
}

func TestBuildState_WithNewFuture(t *testing.T) {
	s := newTestState(domain.NewFileSet())
	fut := future.Fail[domain.BuildOutput](assert.AnError)

	next := s.WithNewFuture(fut)
	assert.Same(t, fut, next.Future())
	assert.NotSame(t, s.Future(), next.Future())
}
