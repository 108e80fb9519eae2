// Package compilerd implements the incremental compiler by invoking the
// project-configured compiler command over the modified source files.
package compilerd

import (
	"context"
	"io"
	"strings"

	"go.trai.ch/fastbuild/internal/core/domain"
	"go.trai.ch/fastbuild/internal/core/future"
	"go.trai.ch/fastbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Placeholders recognized in the configured compiler command.
const (
	artifactPlaceholder  = "{artifact}"
	outputDirPlaceholder = "{output_dir}"
)

// CommandRunner runs a compiler invocation and reports its exit code.
type CommandRunner interface {
	Run(ctx context.Context, dir string, argv []string, env []string, out io.Writer) (int, error)
}

// Compiler implements ports.IncrementalCompiler. It compiles the modified
// source files against the prior deploy artifact into the target's output
// directory, superseding the prior output without re-running the build tool.
type Compiler struct {
	root     string
	command  []string
	suffixes []string
	runner   CommandRunner
	logger   ports.Logger
	tracer   ports.Tracer
}

var _ ports.IncrementalCompiler = (*Compiler)(nil)

// NewCompiler creates a Compiler from the project view's compiler settings.
func NewCompiler(view *domain.ProjectView, runner CommandRunner, logger ports.Logger, tracer ports.Tracer) *Compiler {
	return &Compiler{
		root:     view.Root(),
		command:  view.CompilerCommand(),
		suffixes: view.SourceSuffixes(),
		runner:   runner,
		logger:   logger,
		tracer:   tracer,
	}
}

// Compile produces an updated BuildOutput from state's completed output and
// modified-file set. state is never mutated.
func (c *Compiler) Compile(
	ctx context.Context,
	label domain.Label,
	state *domain.BuildState,
) *future.Future[domain.BuildOutput] {
	base := state.CompletedOutput()
	if base == nil {
		return future.Fail[domain.BuildOutput](zerr.New("no completed output to compile against"))
	}
	if !base.ArtifactExists() {
		return future.Fail[domain.BuildOutput](zerr.With(domain.ErrArtifactMissing, "artifact", base.Artifact))
	}

	files := c.sourceFiles(state.ModifiedFiles())
	if len(files) == 0 {
		// Nothing the compiler handles changed; the prior output stands.
		return future.Resolve(*base)
	}
	if len(c.command) == 0 {
		return future.Fail[domain.BuildOutput](domain.ErrNoCompilerCommand)
	}

	artifact := base.Artifact
	targetData := base.TargetData
	argv := expandCommand(c.command, artifact, state.OutputDir())
	argv = append(argv, files...)

	return future.Go(func() (domain.BuildOutput, error) {
		ctx, span := c.tracer.Start(ctx, "compile "+label.String())
		defer span.End()

		code, err := c.runner.Run(ctx, c.root, argv, nil, span)
		if err != nil {
			span.RecordError(err)
			return domain.BuildOutput{}, err
		}
		if code != 0 {
			err := zerr.With(zerr.With(domain.ErrCompileFailed, "label", label.String()), "exit_code", code)
			span.RecordError(err)
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
	})
}

// sourceFiles filters the modified set down to files the compiler handles,
// in lexical order.
func (c *Compiler) sourceFiles(modified domain.FileSet) []string {
	var files []string
	for _, path := range modified.Sorted() {
		for _, suffix := range c.suffixes {
			if strings.HasSuffix(path, suffix) {
				files = append(files, path)
				break
			}
		}
	}
	return files
}

func expandCommand(command []string, artifact, outputDir string) []string {
	argv := make([]string, len(command))
	for i, arg := range command {
		arg = strings.ReplaceAll(arg, artifactPlaceholder, artifact)
		arg = strings.ReplaceAll(arg, outputDirPlaceholder, outputDir)
		argv[i] = arg
	}
	return argv
}
