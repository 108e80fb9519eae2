// Package bazel implements the baseline builder on top of the external
// build tool.
package bazel

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.trai.ch/fastbuild/internal/core/domain"
	"go.trai.ch/fastbuild/internal/core/future"
	"go.trai.ch/fastbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// metadataOutputGroup is the output group carrying target metadata files.
const metadataOutputGroup = "default,fastbuild-info"

// CommandRunner runs a build-tool invocation and reports its exit code.
type CommandRunner interface {
	Run(ctx context.Context, dir string, argv []string, env []string, out io.Writer) (int, error)
}

// ResultSet gives access to the files a finished build produced. Close
// releases any bookkeeping the result set holds.
type ResultSet interface {
	ArtifactsFor(label domain.Label) ([]string, error)
	MetadataFiles() ([]string, error)
	Close() error
}

// Builder implements ports.BaselineBuilder by shelling out to the build tool
// and collecting the deploy artifact plus target metadata from its output.
type Builder struct {
	root    string
	runner  CommandRunner
	logger  ports.Logger
	tracer  ports.Tracer
	parser  *AspectParser
	results func() ResultSet
}

var _ ports.BaselineBuilder = (*Builder)(nil)

// NewBuilder creates a Builder rooted at the project workspace.
func NewBuilder(view *domain.ProjectView, runner CommandRunner, logger ports.Logger, tracer ports.Tracer) *Builder {
	b := &Builder{
		root:   view.Root(),
		runner: runner,
		logger: logger,
		tracer: tracer,
		parser: NewAspectParser(),
	}
	b.results = func() ResultSet { return newFSResultSet(b.root) }
	return b
}

// WithResults overrides how the builder locates build outputs.
// This is primarily used for testing.
func (b *Builder) WithResults(results func() ResultSet) *Builder {
	b.results = results
	return b
}

// Build runs a full build of label plus its deploy sibling and returns a
// future for the baseline output.
func (b *Builder) Build(
	ctx context.Context,
	label domain.Label,
	params domain.BuildParameters,
) *future.Future[domain.BuildOutput] {
	deploy := label.Deploy()
	argv := command(params, label, deploy)

	return future.Go(func() (domain.BuildOutput, error) {
		results := b.results()
		defer func() { _ = results.Close() }()

		ctx, span := b.tracer.Start(ctx, "build "+deploy.String())
		defer span.End()

		out, err := b.build(ctx, span, deploy, argv, results)
		if err != nil {
			span.RecordError(err)
		}
		return out, err
	})
}

func (b *Builder) build(
	ctx context.Context,
	span ports.Span,
	deploy domain.Label,
	argv []string,
	results ResultSet,
) (domain.BuildOutput, error) {
	code, err := b.runner.Run(ctx, b.root, argv, nil, span)
	if err != nil {
		return domain.BuildOutput{}, err
	}
	if code != 0 {
		return domain.BuildOutput{}, zerr.With(domain.ErrBuildFailed, "exit_code", code)
	}

	artifacts, err := results.ArtifactsFor(deploy)
	if err != nil {
		return domain.BuildOutput{}, err
	}
	if len(artifacts) != 1 {
		return domain.BuildOutput{}, zerr.With(zerr.With(domain.ErrArtifactCount,
			"label", deploy.String()), "count", len(artifacts))
	}
	artifact := artifacts[0]

	files, err := results.MetadataFiles()
	if err != nil {
		return domain.BuildOutput{}, err
	}
	targetData, err := b.collectTargetData(ctx, files)
	if err != nil {
		return domain.BuildOutput{}, err
	}

	fingerprint, err := domain.FingerprintFile(artifact)
	if err != nil {
		fingerprint = 0
	}

	return domain.BuildOutput{
		Artifact:    artifact,
		TargetData:  targetData,
		Fingerprint: fingerprint,
	}, nil
}

// collectTargetData parses metadata files concurrently. Files that fail to
// parse are skipped; the rest are merged in file order so later entries win
// on duplicate labels.
func (b *Builder) collectTargetData(ctx context.Context, files []string) (map[domain.Label]domain.TargetInfo, error) {
	infos := make([]*domain.TargetInfo, len(files))

	g, _ := errgroup.WithContext(ctx)
	var mu sync.Mutex
	for i, file := range files {
		g.Go(func() error {
			info, err := b.parser.ParseFile(file)
			if err != nil {
				b.logger.Warn(fmt.Sprintf("skipping metadata file %s: %v", file, err))
				return nil
			}
			mu.Lock()
			infos[i] = info
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	targetData := make(map[domain.Label]domain.TargetInfo, len(infos))
	for _, info := range infos {
		if info != nil {
			targetData[info.Label] = *info
		}
	}
	return targetData, nil
}

// command assembles the build-tool invocation: parameters first, then the
// target and its deploy sibling.
func command(params domain.BuildParameters, label, deploy domain.Label) []string {
	argv := []string{params.BuildBinary(), "build"}
	argv = append(argv, params.Flags()...)
	argv = append(argv, "--output_groups="+metadataOutputGroup)
	argv = append(argv, "--", label.String(), deploy.String())
	return argv
}
