package compilerd_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fastbuild/internal/adapters/compilerd"
	"go.trai.ch/fastbuild/internal/core/domain"
	"go.trai.ch/fastbuild/internal/core/future"
	"go.trai.ch/fastbuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fakeRunner struct {
	argv     []string
	exitCode int
	runs     int
}

func (r *fakeRunner) Run(_ context.Context, _ string, argv []string, _ []string, _ io.Writer) (int, error) {
	r.argv = argv
	r.runs++
	return r.exitCode, nil
}

func newTestCompiler(t *testing.T, runner compilerd.CommandRunner, command []string) *compilerd.Compiler {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().Write(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		return len(p), nil
	}).AnyTimes()
	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any()).Return(context.Background(), span).AnyTimes()

	view := domain.NewProjectView(
		"/workspace", "bazel",
		nil, command, []string{".java"},
		nil, nil,
	)
	return compilerd.NewCompiler(view, runner, log, tracer)
}

// baseState builds a state whose completed output points at a real artifact.
func baseState(t *testing.T, outputDir string, modified domain.FileSet) *domain.BuildState {
	t.Helper()
	artifact := filepath.Join(t.TempDir(), "hello_test_deploy.jar")
	require.NoError(t, os.WriteFile(artifact, []byte("jar"), domain.FilePerm))

	out := domain.BuildOutput{
		Artifact:   artifact,
		TargetData: map[domain.Label]domain.TargetInfo{},
	}
	fut := future.Resolve(out)
	state := domain.NewBuildState(fut, outputDir, domain.NewBuildParameters("bazel", nil, nil), nil)
	return state.WithConsumedOutput(&out, modified)
}

func TestCompiler_ExpandsCommand(t *testing.T) {
	runner := &fakeRunner{}
	c := newTestCompiler(t, runner, []string{"javac", "-cp", "{artifact}", "-d", "{output_dir}"})

	state := baseState(t, "/tmp/out-1", domain.NewFileSet(
		"/workspace/java/B.java",
		"/workspace/java/A.java",
	))

	out, err := c.Compile(context.Background(), domain.NewLabel("//a:b"), state).Result()
	require.NoError(t, err)

	artifact := state.CompletedOutput().Artifact
	assert.Equal(t, []string{
		"javac", "-cp", artifact, "-d", "/tmp/out-1",
		"/workspace/java/A.java", "/workspace/java/B.java",
	}, runner.argv)
	assert.Equal(t, artifact, out.Artifact)
	assert.NotZero(t, out.Fingerprint)
}

func TestCompiler_NoSourceChangesReturnsPriorOutput(t *testing.T) {
	runner := &fakeRunner{}
	c := newTestCompiler(t, runner, []string{"javac"})

	// Only a non-source file changed.
	state := baseState(t, "/tmp/out-1", domain.NewFileSet("/workspace/BUILD"))

	out, err := c.Compile(context.Background(), domain.NewLabel("//a:b"), state).Result()
	require.NoError(t, err)
	assert.Equal(t, state.CompletedOutput().Artifact, out.Artifact)
	assert.Zero(t, runner.runs)
}

func TestCompiler_NoCompletedOutputFails(t *testing.T) {
	c := newTestCompiler(t, &fakeRunner{}, []string{"javac"})

	fut, _ := future.New[domain.BuildOutput]()
	state := domain.NewBuildState(fut, "/tmp/out-1", domain.NewBuildParameters("bazel", nil, nil), nil)

	_, err := c.Compile(context.Background(), domain.NewLabel("//a:b"), state).Result()
	require.Error(t, err)
}

func TestCompiler_MissingBaseArtifactFails(t *testing.T) {
	c := newTestCompiler(t, &fakeRunner{}, []string{"javac"})

	state := baseState(t, "/tmp/out-1", domain.NewFileSet("/workspace/java/A.java"))
	require.NoError(t, os.Remove(state.CompletedOutput().Artifact))

	_, err := c.Compile(context.Background(), domain.NewLabel("//a:b"), state).Result()
	require.ErrorIs(t, err, domain.ErrArtifactMissing)
}

func TestCompiler_MissingCommandFails(t *testing.T) {
	c := newTestCompiler(t, &fakeRunner{}, nil)

	state := baseState(t, "/tmp/out-1", domain.NewFileSet("/workspace/java/A.java"))

	_, err := c.Compile(context.Background(), domain.NewLabel("//a:b"), state).Result()
	require.ErrorIs(t, err, domain.ErrNoCompilerCommand)
}

func TestCompiler_NonZeroExitFails(t *testing.T) {
	c := newTestCompiler(t, &fakeRunner{exitCode: 2}, []string{"javac"})

	state := baseState(t, "/tmp/out-1", domain.NewFileSet("/workspace/java/A.java"))

	_, err := c.Compile(context.Background(), domain.NewLabel("//a:b"), state).Result()
	require.ErrorIs(t, err, domain.ErrCompileFailed)
}
