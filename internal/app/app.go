// Package app implements the application layer for fastbuild.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/fastbuild/internal/adapters/bazel"
	"go.trai.ch/fastbuild/internal/adapters/compilerd"
	"go.trai.ch/fastbuild/internal/adapters/shell"
	"go.trai.ch/fastbuild/internal/adapters/vcs"
	"go.trai.ch/fastbuild/internal/adapters/watcher"
	"go.trai.ch/fastbuild/internal/core/domain"
	"go.trai.ch/fastbuild/internal/core/future"
	"go.trai.ch/fastbuild/internal/core/ports"
	"go.trai.ch/fastbuild/internal/engine/orchestrator"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	runner       *shell.Runner
	logger       ports.Logger
	tracer       ports.Tracer
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, runner *shell.Runner, log ports.Logger, tracer ports.Tracer) *App {
	setupOTel()
	return &App{
		configLoader: loader,
		runner:       runner,
		logger:       log,
		tracer:       tracer,
	}
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	// Binary overrides the build binary from the project file.
	Binary string
	// Flags are appended after the project file's build flags.
	Flags []string
	// Rebaseline discards the last good build after a failure instead of
	// serving it while the next build runs.
	Rebaseline bool
}

// Build runs a fast build for each named target and waits for all of them.
//
// Output directories are left in place so a subsequent invocation can
// recompile into them; `fastbuild clean` removes them.
func (a *App) Build(ctx context.Context, targetNames []string, opts BuildOptions) error {
	if len(targetNames) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	view, orch, err := a.setup(opts)
	if err != nil {
		return err
	}

	type pending struct {
		label domain.Label
		fut   *future.Future[domain.BuildResult]
	}
	builds := make([]pending, 0, len(targetNames))
	for _, label := range domain.NewLabels(targetNames) {
		fut, err := orch.RequestBuild(ctx, label, opts.Binary, opts.Flags)
		if err != nil {
			return zerr.Wrap(err, fmt.Sprintf("cannot fast build %s", label))
		}
		builds = append(builds, pending{label: label, fut: fut})
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, b := range builds {
		g.Go(func() error {
			result, err := b.fut.Wait(ctx)
			if err != nil {
				return zerr.Wrap(err, fmt.Sprintf("build of %s failed", b.label))
			}
			a.logger.Info(fmt.Sprintf("%s built: %s", result.Label, a.display(view, result)))
			return nil
		})
	}
	return g.Wait()
}

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	Binary string
	Flags  []string
}

// Watch builds target once, then rebuilds it on every filesystem change under
// the project root until ctx is cancelled. Filesystem events replace the
// version control query as the modified-file source, so each rebuild sees
// exactly the files touched since the previous one.
func (a *App) Watch(ctx context.Context, targetName string, opts WatchOptions) error {
	view, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	tracker, err := watcher.NewTracker(a.logger)
	if err != nil {
		return zerr.Wrap(err, "failed to create filesystem watcher")
	}
	if err := tracker.Start(ctx, view.Root()); err != nil {
		return zerr.Wrap(err, "failed to watch project root")
	}
	defer func() {
		if err := tracker.Stop(); err != nil {
			a.logger.Warn(fmt.Sprintf("stopping watcher: %v", err))
		}
	}()

	orch := a.orchestrator(view, tracker, orchestrator.ReuseLastGood)
	defer orch.Close()

	label := domain.NewLabel(targetName)
	rebuild := func() {
		fut, err := orch.RequestBuild(ctx, label, opts.Binary, opts.Flags)
		if err != nil {
			a.logger.Error(err)
			return
		}
		result, err := fut.Wait(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				a.logger.Error(err)
			}
			return
		}
		a.logger.Info(fmt.Sprintf("%s built: %s", result.Label, a.display(view, result)))
	}

	rebuild()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tracker.Changes():
			rebuild()
		}
	}
}

// Clean removes the per-target output directories left behind by previous
// builds. It matches on the directory name pattern rather than tracking
// directories across processes.
func (a *App) Clean(_ context.Context) error {
	entries, err := os.ReadDir(os.TempDir())
	if err != nil {
		return zerr.Wrap(err, "failed to list temp directory")
	}

	var errs error
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), domain.OutputDirPrefix) {
			continue
		}
		path := filepath.Join(os.TempDir(), entry.Name())
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", path)))
			continue
		}
		a.logger.Info(fmt.Sprintf("removed %s", path))
	}
	return errs
}

func (a *App) setup(opts BuildOptions) (*domain.ProjectView, *orchestrator.Orchestrator, error) {
	view, err := a.configLoader.Load(".")
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to load configuration")
	}

	policy := orchestrator.ReuseLastGood
	if opts.Rebaseline {
		policy = orchestrator.RebaselineOnFailure
	}
	return view, a.orchestrator(view, vcs.NewTracker(view.Root()), policy), nil
}

func (a *App) orchestrator(
	view *domain.ProjectView,
	tracker ports.ModifiedFileTracker,
	policy orchestrator.FailurePolicy,
) *orchestrator.Orchestrator {
	builder := bazel.NewBuilder(view, a.runner, a.logger, a.tracer)
	compiler := compilerd.NewCompiler(view, a.runner, a.logger, a.tracer)
	return orchestrator.New(view, tracker, builder, compiler, a.logger, a.tracer,
		orchestrator.WithFailurePolicy(policy))
}

// display renders artifact paths relative to the project root where possible.
func (a *App) display(view *domain.ProjectView, result domain.BuildResult) string {
	if rel, err := filepath.Rel(view.Root(), result.Artifact); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return result.Artifact
}

// setupOTel registers a real SDK tracer provider so spans started through
// otel.Tracer carry proper span contexts.
func setupOTel() {
	otel.SetTracerProvider(sdktrace.NewTracerProvider())
}
