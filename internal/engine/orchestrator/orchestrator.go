// Package orchestrator implements the per-target fast-build state machine.
package orchestrator

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/fastbuild/internal/core/domain"
	"go.trai.ch/fastbuild/internal/core/future"
	"go.trai.ch/fastbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// FailurePolicy controls what a request reuses after the previous build for
// the same target failed or was cancelled.
type FailurePolicy int

const (
	// ReuseLastGood falls back to the last successfully completed output.
	// The original failure is not re-reported; whoever awaited the failed
	// future has already observed it.
	ReuseLastGood FailurePolicy = iota

	// RebaselineOnFailure discards all prior output after a failure, so the
	// next request always runs a fresh baseline build.
	RebaselineOnFailure
)

// Orchestrator owns the mapping from Label to BuildState and decides, per
// request, between starting a baseline build, reusing the running build, or
// triggering incremental compilation.
type Orchestrator struct {
	view     *domain.ProjectView
	tracker  ports.ModifiedFileTracker
	baseline ports.BaselineBuilder
	compiler ports.IncrementalCompiler
	logger   ports.Logger
	tracer   ports.Tracer
	policy   FailurePolicy
	tmpRoot  string

	mu     sync.Mutex
	closed bool
	builds map[domain.Label]*buildEntry
}

// buildEntry serializes all state transitions for one label. The entry mutex
// is held across the whole decision, including the blocking modified-file
// query, so no two requests can decide to start a build for the same label.
type buildEntry struct {
	mu    sync.Mutex
	state *domain.BuildState
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithFailurePolicy sets the post-failure reuse policy.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

// WithTempRoot sets the directory under which per-target output directories
// are created. Defaults to the system temp directory.
func WithTempRoot(dir string) Option {
	return func(o *Orchestrator) { o.tmpRoot = dir }
}

// New creates an Orchestrator for the given project view and collaborators.
func New(
	view *domain.ProjectView,
	tracker ports.ModifiedFileTracker,
	baseline ports.BaselineBuilder,
	compiler ports.IncrementalCompiler,
	logger ports.Logger,
	tracer ports.Tracer,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		view:     view,
		tracker:  tracker,
		baseline: baseline,
		compiler: compiler,
		logger:   logger,
		tracer:   tracer,
		builds:   make(map[domain.Label]*buildEntry),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RequestBuild requests a fast build for label. Validation failures
// (ErrUnknownTarget, ErrUnsupportedTargetKind) are returned synchronously
// before any asynchronous work starts; every other failure, including output
// directory creation and modified-file query errors, surfaces through the
// returned future.
func (o *Orchestrator) RequestBuild(
	ctx context.Context,
	label domain.Label,
	buildBinary string,
	extraFlags []string,
) (*future.Future[domain.BuildResult], error) {
	kind, ok := o.view.Target(label)
	if !ok {
		return nil, zerr.With(domain.ErrUnknownTarget, "label", label.String())
	}
	if !o.view.SupportsFastBuilds(kind) {
		return nil, zerr.With(zerr.With(domain.ErrUnsupportedTargetKind, "label", label.String()), "kind", string(kind))
	}

	if buildBinary == "" {
		buildBinary = o.view.BuildBinary()
	}
	params := domain.NewBuildParameters(buildBinary, o.view.ProjectFlags(), extraFlags)

	state, err := o.computeState(ctx, label, params)
	if err != nil {
		return future.Fail[domain.BuildResult](err), nil
	}

	outputDir := state.OutputDir()
	return future.Transform(state.Future(), func(out domain.BuildOutput) (domain.BuildResult, error) {
		return domain.BuildResult{
			Label:      label,
			OutputDir:  outputDir,
			Artifact:   out.Artifact,
			TargetData: out.TargetData,
		}, nil
	}), nil
}

// computeState atomically transforms the map entry for label. Concurrent
// callers for the same label serialize on the entry mutex and therefore
// never create two build states from the same decision point.
func (o *Orchestrator) computeState(
	ctx context.Context,
	label domain.Label,
	params domain.BuildParameters,
) (*domain.BuildState, error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil, domain.ErrOrchestratorClosed
	}
	e, ok := o.builds[label]
	if !ok {
		e = &buildEntry{}
		o.builds[label] = e
	}
	o.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := o.updateBuild(ctx, label, params, e.state)
	if err != nil {
		return nil, err
	}
	e.state = next
	return next, nil
}

func (o *Orchestrator) updateBuild(
	ctx context.Context,
	label domain.Label,
	params domain.BuildParameters,
	existing *domain.BuildState,
) (*domain.BuildState, error) {
	if existing != nil && !existing.Future().IsDone() {
		// A build is still running for this label; coalesce the request
		// into the in-flight future instead of starting new work.
		return existing, nil
	}

	modified, err := o.tracker.ModifiedFiles(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrModifiedFileQuery.Error())
	}

	completed, consumed := o.completedOutput(existing)
	if completed == nil {
		return o.startBaseline(ctx, label, params, existing, modified)
	}

	var next *domain.BuildState
	if consumed {
		next = existing.WithConsumedOutput(completed, modified)
	} else {
		next = existing.WithAdditionalModifiedFiles(modified).WithCompletedOutput(completed)
	}

	o.logger.Info(fmt.Sprintf("incremental build of %s (%d modified files)", label, len(next.ModifiedFiles())))
	fut := o.compiler.Compile(ctx, label, next)
	o.traceBuild(ctx, "incremental "+label.String(), fut)
	return next.WithNewFuture(fut), nil
}

func (o *Orchestrator) startBaseline(
	ctx context.Context,
	label domain.Label,
	params domain.BuildParameters,
	existing *domain.BuildState,
	modified domain.FileSet,
) (*domain.BuildState, error) {
	var outputDir string
	if existing != nil {
		outputDir = existing.OutputDir()
	}
	if outputDir == "" {
		dir, err := os.MkdirTemp(o.tmpRoot, outputDirPattern(label))
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrOutputDirCreate.Error())
		}
		outputDir = dir
	}

	o.logger.Info(fmt.Sprintf("baseline build of %s", label))
	fut := o.baseline.Build(ctx, label, params)
	o.traceBuild(ctx, "baseline "+label.String(), fut)
	return domain.NewBuildState(fut, outputDir, params, modified), nil
}

// completedOutput resolves the output a new build can be based on.
// consumed reports whether that output is the result of the previous future,
// meaning the build that produced it consumed the accumulated modified set.
func (o *Orchestrator) completedOutput(existing *domain.BuildState) (out *domain.BuildOutput, consumed bool) {
	if existing == nil {
		return nil, false
	}

	result, err := existing.Future().Result()
	if err == nil {
		if result.ArtifactExists() {
			return &result, true
		}
		// Stale or externally cleaned output; rebuild from scratch.
		return nil, false
	}

	// The previous build failed or was cancelled. Whoever awaited that
	// future has already observed the error, so it is not re-reported here.
	if o.policy == RebaselineOnFailure {
		return nil, false
	}
	if prev := existing.CompletedOutput(); prev != nil && prev.ArtifactExists() {
		return prev, false
	}
	return nil, false
}

// traceBuild opens a span for a launched build and completes it with the
// build's outcome.
func (o *Orchestrator) traceBuild(ctx context.Context, name string, fut *future.Future[domain.BuildOutput]) {
	_, span := o.tracer.Start(ctx, name)
	go func() {
		if _, err := fut.Result(); err != nil {
			span.RecordError(err)
		}
		span.End()
	}()
}

// Dispose removes the build state for label, if any, and deletes its output
// directory. Deletion is best effort; the directory lives in the temp area
// and may be reclaimed by the OS.
func (o *Orchestrator) Dispose(label domain.Label) {
	o.mu.Lock()
	e, ok := o.builds[label]
	delete(o.builds, label)
	o.mu.Unlock()
	if !ok {
		return
	}

	e.mu.Lock()
	state := e.state
	e.state = nil
	e.mu.Unlock()

	if state == nil || state.OutputDir() == "" {
		return
	}
	if err := os.RemoveAll(state.OutputDir()); err != nil {
		o.logger.Warn(fmt.Sprintf("failed to remove output directory for %s: %v", label, err))
	}
}

// Close disposes all build states. Subsequent requests fail with
// ErrOrchestratorClosed through their returned future.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	labels := slices.Collect(maps.Keys(o.builds))
	o.mu.Unlock()

	for _, label := range labels {
		o.Dispose(label)
	}
}

func outputDirPattern(label domain.Label) string {
	return domain.OutputDirPrefix + strconv.FormatUint(xxhash.Sum64String(label.String()), 16) + "-"
}
