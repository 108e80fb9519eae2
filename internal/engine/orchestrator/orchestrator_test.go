package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fastbuild/internal/core/domain"
	"go.trai.ch/fastbuild/internal/core/future"
	"go.trai.ch/fastbuild/internal/core/ports"
	"go.trai.ch/fastbuild/internal/core/ports/mocks"
	"go.trai.ch/fastbuild/internal/engine/orchestrator"
	"go.uber.org/mock/gomock"
)

var (
	testLabel       = domain.NewLabel("//java/com/example:hello_test")
	unsupportedKind = domain.NewLabel("//java/com/example:hello_lib")
)

type orchestratorTestMocks struct {
	tracker  *mocks.MockModifiedFileTracker
	baseline *mocks.MockBaselineBuilder
	compiler *mocks.MockIncrementalCompiler
	logger   *mocks.MockLogger
}

// setupOrchestratorTest creates an orchestrator over a fixed two-target view
// and permissive logger and tracer mocks.
func setupOrchestratorTest(t *testing.T, opts ...orchestrator.Option) (*orchestrator.Orchestrator, orchestratorTestMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := orchestratorTestMocks{
		tracker:  mocks.NewMockModifiedFileTracker(ctrl),
		baseline: mocks.NewMockBaselineBuilder(ctrl),
		compiler: mocks.NewMockIncrementalCompiler(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}

	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	m.logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	mockSpan := mocks.NewMockSpan(ctrl)
	mockSpan.EXPECT().End().AnyTimes()
	mockSpan.EXPECT().RecordError(gomock.Any()).AnyTimes()
	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Span) {
			return ctx, mockSpan
		},
	).AnyTimes()

	view := domain.NewProjectView(
		"/workspace", "bazel",
		[]string{"--config=dev"}, []string{"javac"}, []string{".java"},
		map[domain.Label]domain.Kind{
			testLabel:       domain.KindJavaTest,
			unsupportedKind: "java_library",
		},
		[]domain.Kind{domain.KindJavaTest},
	)

	opts = append([]orchestrator.Option{orchestrator.WithTempRoot(t.TempDir())}, opts...)
	o := orchestrator.New(view, m.tracker, m.baseline, m.compiler, m.logger, tracer, opts...)
	return o, m
}

// jarOutput writes a fake deploy jar and returns an output pointing at it.
func jarOutput(t *testing.T) domain.BuildOutput {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hello_test_deploy.jar")
	require.NoError(t, os.WriteFile(path, []byte("jar"), domain.FilePerm))
	return domain.BuildOutput{
		Artifact:   path,
		TargetData: map[domain.Label]domain.TargetInfo{testLabel: {Label: testLabel, Kind: domain.KindJavaTest}},
	}
}

func TestRequestBuild_UnknownTarget(t *testing.T) {
	o, _ := setupOrchestratorTest(t)

	_, err := o.RequestBuild(context.Background(), domain.NewLabel("//nope:nope"), "", nil)
	require.ErrorIs(t, err, domain.ErrUnknownTarget)
}

func TestRequestBuild_UnsupportedTargetKind(t *testing.T) {
	o, _ := setupOrchestratorTest(t)

	_, err := o.RequestBuild(context.Background(), unsupportedKind, "", nil)
	require.ErrorIs(t, err, domain.ErrUnsupportedTargetKind)
}

func TestRequestBuild_BaselineFirst(t *testing.T) {
	o, m := setupOrchestratorTest(t)
	out := jarOutput(t)

	m.tracker.EXPECT().ModifiedFiles(gomock.Any()).Return(domain.NewFileSet(), nil)

	var gotParams domain.BuildParameters
	m.baseline.EXPECT().Build(gomock.Any(), testLabel, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.Label, params domain.BuildParameters) *future.Future[domain.BuildOutput] {
			gotParams = params
			return future.Resolve(out)
		},
	)

	fut, err := o.RequestBuild(context.Background(), testLabel, "", []string{"--verbose_failures"})
	require.NoError(t, err)

	result, err := fut.Wait(context.Background())
	require.NoError(t, err)

	// Binary defaults from the project file; project flags precede caller flags.
	assert.Equal(t, "bazel", gotParams.BuildBinary())
	assert.Equal(t, []string{"--config=dev", "--verbose_failures"}, gotParams.Flags())

	assert.Equal(t, testLabel, result.Label)
	assert.Equal(t, out.Artifact, result.Artifact)
	assert.True(t, strings.HasPrefix(filepath.Base(result.OutputDir), domain.OutputDirPrefix))
	assert.DirExists(t, result.OutputDir)
}

func TestRequestBuild_FailedBaselineRetriesBaseline(t *testing.T) {
	o, m := setupOrchestratorTest(t)
	out := jarOutput(t)
	buildErr := errors.New("bazel exited with 1")

	m.tracker.EXPECT().ModifiedFiles(gomock.Any()).Return(domain.NewFileSet(), nil).Times(2)
	gomock.InOrder(
		m.baseline.EXPECT().Build(gomock.Any(), testLabel, gomock.Any()).
			Return(future.Fail[domain.BuildOutput](buildErr)),
		// No completed output exists yet, so the retry is another baseline
		// build rather than an incremental one.
		m.baseline.EXPECT().Build(gomock.Any(), testLabel, gomock.Any()).Return(future.Resolve(out)),
	)

	fut, err := o.RequestBuild(context.Background(), testLabel, "", nil)
	require.NoError(t, err)
	_, err = fut.Wait(context.Background())
	require.ErrorIs(t, err, buildErr)

	fut, err = o.RequestBuild(context.Background(), testLabel, "", nil)
	require.NoError(t, err)
	result, err := fut.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, out.Artifact, result.Artifact)
}

func TestRequestBuild_CoalescesConcurrentRequests(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		o, m := setupOrchestratorTest(t)
		out := jarOutput(t)

		fut, resolve := future.New[domain.BuildOutput]()
		m.tracker.EXPECT().ModifiedFiles(gomock.Any()).Return(domain.NewFileSet(), nil)
		m.baseline.EXPECT().Build(gomock.Any(), testLabel, gomock.Any()).Return(fut).Times(1)

		const callers = 8
		results := make(chan error, callers)
		for range callers {
			go func() {
				f, err := o.RequestBuild(context.Background(), testLabel, "", nil)
				if err != nil {
					results <- err
					return
				}
				_, err = f.Wait(context.Background())
				results <- err
			}()
		}

		// All callers are parked on the same in-flight future.
		synctest.Wait()
		resolve(out, nil)

		for range callers {
			require.NoError(t, <-results)
		}
	})
}

func TestRequestBuild_IncrementalAfterSuccess(t *testing.T) {
	o, m := setupOrchestratorTest(t)
	out := jarOutput(t)

	gomock.InOrder(
		m.tracker.EXPECT().ModifiedFiles(gomock.Any()).Return(domain.NewFileSet(), nil),
		m.tracker.EXPECT().ModifiedFiles(gomock.Any()).Return(domain.NewFileSet("/workspace/src/Hello.java"), nil),
	)
	m.baseline.EXPECT().Build(gomock.Any(), testLabel, gomock.Any()).Return(future.Resolve(out))

	var gotState *domain.BuildState
	m.compiler.EXPECT().Compile(gomock.Any(), testLabel, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.Label, state *domain.BuildState) *future.Future[domain.BuildOutput] {
			gotState = state
			return future.Resolve(out)
		},
	)

	fut, err := o.RequestBuild(context.Background(), testLabel, "", nil)
	require.NoError(t, err)
	first, err := fut.Wait(context.Background())
	require.NoError(t, err)

	fut, err = o.RequestBuild(context.Background(), testLabel, "", nil)
	require.NoError(t, err)
	second, err := fut.Wait(context.Background())
	require.NoError(t, err)

	require.NotNil(t, gotState)
	require.NotNil(t, gotState.CompletedOutput())
	assert.Equal(t, out.Artifact, gotState.CompletedOutput().Artifact)
	assert.Equal(t, []string{"/workspace/src/Hello.java"}, gotState.ModifiedFiles().Sorted())

	// The target keeps its output directory across builds.
	assert.Equal(t, first.OutputDir, second.OutputDir)
}

func TestRequestBuild_ModifiedFilesAccumulateAcrossFailure(t *testing.T) {
	o, m := setupOrchestratorTest(t)
	out := jarOutput(t)
	compileErr := errors.New("javac exited with 1")

	gomock.InOrder(
		m.tracker.EXPECT().ModifiedFiles(gomock.Any()).Return(domain.NewFileSet(), nil),
		m.tracker.EXPECT().ModifiedFiles(gomock.Any()).Return(domain.NewFileSet("/w/A.java"), nil),
		m.tracker.EXPECT().ModifiedFiles(gomock.Any()).Return(domain.NewFileSet("/w/B.java", "/w/C.java"), nil),
		m.tracker.EXPECT().ModifiedFiles(gomock.Any()).Return(domain.NewFileSet("/w/D.java"), nil),
	)
	m.baseline.EXPECT().Build(gomock.Any(), testLabel, gomock.Any()).Return(future.Resolve(out)).Times(1)

	var sets [][]string
	gomock.InOrder(
		m.compiler.EXPECT().Compile(gomock.Any(), testLabel, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ domain.Label, state *domain.BuildState) *future.Future[domain.BuildOutput] {
				sets = append(sets, state.ModifiedFiles().Sorted())
				return future.Fail[domain.BuildOutput](compileErr)
			},
		),
		m.compiler.EXPECT().Compile(gomock.Any(), testLabel, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ domain.Label, state *domain.BuildState) *future.Future[domain.BuildOutput] {
				sets = append(sets, state.ModifiedFiles().Sorted())
				return future.Resolve(out)
			},
		),
		m.compiler.EXPECT().Compile(gomock.Any(), testLabel, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ domain.Label, state *domain.BuildState) *future.Future[domain.BuildOutput] {
				sets = append(sets, state.ModifiedFiles().Sorted())
				return future.Resolve(out)
			},
		),
	)

	wait := func() error {
		fut, err := o.RequestBuild(context.Background(), testLabel, "", nil)
		require.NoError(t, err)
		_, err = fut.Wait(context.Background())
		return err
	}

	require.NoError(t, wait())                     // baseline
	require.ErrorIs(t, wait(), compileErr)         // incremental with {A}, fails
	require.NoError(t, wait())                     // retries on last good base with {A, B, C}
	require.NoError(t, wait())                     // success consumed the set, back to {D}

	require.Equal(t, [][]string{
		{"/w/A.java"},
		{"/w/A.java", "/w/B.java", "/w/C.java"},
		{"/w/D.java"},
	}, sets)
}

func TestRequestBuild_RebaselineOnFailurePolicy(t *testing.T) {
	o, m := setupOrchestratorTest(t, orchestrator.WithFailurePolicy(orchestrator.RebaselineOnFailure))
	out := jarOutput(t)
	buildErr := errors.New("bazel exited with 1")

	m.tracker.EXPECT().ModifiedFiles(gomock.Any()).Return(domain.NewFileSet(), nil).Times(3)
	gomock.InOrder(
		m.baseline.EXPECT().Build(gomock.Any(), testLabel, gomock.Any()).Return(future.Resolve(out)),
		m.compiler.EXPECT().Compile(gomock.Any(), testLabel, gomock.Any()).
			Return(future.Fail[domain.BuildOutput](buildErr)),
		// The failure discards the last good output, so the next request
		// starts over with a baseline build.
		m.baseline.EXPECT().Build(gomock.Any(), testLabel, gomock.Any()).Return(future.Resolve(out)),
	)

	var dirs []string
	for i := range 3 {
		fut, err := o.RequestBuild(context.Background(), testLabel, "", nil)
		require.NoError(t, err)
		result, err := fut.Wait(context.Background())
		if i == 1 {
			require.ErrorIs(t, err, buildErr)
		} else {
			require.NoError(t, err)
			dirs = append(dirs, result.OutputDir)
		}
	}

	// Rebaselining reuses the directory instead of leaking a fresh one.
	require.Len(t, dirs, 2)
	assert.Equal(t, dirs[0], dirs[1])
}

func TestRequestBuild_RebuildsWhenArtifactRemoved(t *testing.T) {
	o, m := setupOrchestratorTest(t)
	out := jarOutput(t)

	m.tracker.EXPECT().ModifiedFiles(gomock.Any()).Return(domain.NewFileSet(), nil).Times(2)
	m.baseline.EXPECT().Build(gomock.Any(), testLabel, gomock.Any()).Return(future.Resolve(out)).Times(2)

	fut, err := o.RequestBuild(context.Background(), testLabel, "", nil)
	require.NoError(t, err)
	_, err = fut.Wait(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.Remove(out.Artifact))

	fut, err = o.RequestBuild(context.Background(), testLabel, "", nil)
	require.NoError(t, err)
	_, err = fut.Wait(context.Background())
	require.NoError(t, err)
}

func TestRequestBuild_TrackerErrorFailsFuture(t *testing.T) {
	o, m := setupOrchestratorTest(t)
	trackerErr := errors.New("repository not found")

	m.tracker.EXPECT().ModifiedFiles(gomock.Any()).Return(nil, trackerErr)

	fut, err := o.RequestBuild(context.Background(), testLabel, "", nil)
	require.NoError(t, err)

	_, err = fut.Wait(context.Background())
	require.ErrorIs(t, err, trackerErr)
}

func TestDispose_RemovesOutputDirectory(t *testing.T) {
	o, m := setupOrchestratorTest(t)
	out := jarOutput(t)

	m.tracker.EXPECT().ModifiedFiles(gomock.Any()).Return(domain.NewFileSet(), nil)
	m.baseline.EXPECT().Build(gomock.Any(), testLabel, gomock.Any()).Return(future.Resolve(out))

	fut, err := o.RequestBuild(context.Background(), testLabel, "", nil)
	require.NoError(t, err)
	result, err := fut.Wait(context.Background())
	require.NoError(t, err)
	require.DirExists(t, result.OutputDir)

	o.Dispose(testLabel)
	assert.NoDirExists(t, result.OutputDir)

	// Disposing an unknown label is a no-op.
	o.Dispose(domain.NewLabel("//never:built"))
}

func TestClose_RejectsNewRequests(t *testing.T) {
	o, m := setupOrchestratorTest(t)
	out := jarOutput(t)

	m.tracker.EXPECT().ModifiedFiles(gomock.Any()).Return(domain.NewFileSet(), nil)
	m.baseline.EXPECT().Build(gomock.Any(), testLabel, gomock.Any()).Return(future.Resolve(out))

	fut, err := o.RequestBuild(context.Background(), testLabel, "", nil)
	require.NoError(t, err)
	result, err := fut.Wait(context.Background())
	require.NoError(t, err)

	o.Close()
	assert.NoDirExists(t, result.OutputDir)

	fut, err = o.RequestBuild(context.Background(), testLabel, "", nil)
	require.NoError(t, err)
	_, err = fut.Wait(context.Background())
	require.ErrorIs(t, err, domain.ErrOrchestratorClosed)
}
