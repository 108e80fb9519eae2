package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownTarget is returned when a requested label is not part of the project view.
	ErrUnknownTarget = zerr.New("unknown target, is it listed in the project view?")

	// ErrUnsupportedTargetKind is returned when fast builds are not supported for the target's kind.
	ErrUnsupportedTargetKind = zerr.New("fast builds are not supported for this target kind")

	// ErrBuildFailed is returned when the underlying build tool exits with a non-zero status.
	ErrBuildFailed = zerr.New("build tool failed building deploy artifact")

	// ErrCompileFailed is returned when the incremental compiler command fails.
	ErrCompileFailed = zerr.New("incremental compile failed")

	// ErrArtifactCount is returned when a build produced zero or more than one deploy artifact.
	ErrArtifactCount = zerr.New("expected exactly one deploy artifact")

	// ErrArtifactMissing is returned when a previously built artifact no longer exists on disk.
	ErrArtifactMissing = zerr.New("deploy artifact missing on disk")

	// ErrOutputDirCreate is returned when the compiler output directory cannot be created.
	ErrOutputDirCreate = zerr.New("failed to create compiler output directory")

	// ErrModifiedFileQuery is returned when the modified-file tracker cannot produce a result.
	ErrModifiedFileQuery = zerr.New("failed to collect modified files")

	// ErrMetadataParseFailed is returned when a target metadata file cannot be parsed.
	ErrMetadataParseFailed = zerr.New("failed to parse target metadata file")

	// ErrConfigReadFailed is returned when the project file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read project file")

	// ErrConfigParseFailed is returned when the project file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse project file")

	// ErrConfigNotFound is returned when no project file can be found.
	ErrConfigNotFound = zerr.New("could not find fastbuild.yaml")

	// ErrNoCompilerCommand is returned when the project view has no incremental compiler command.
	ErrNoCompilerCommand = zerr.New("no compiler command configured")

	// ErrNoTargetsSpecified is returned when no targets are specified for the build command.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrOrchestratorClosed is returned when a build is requested after shutdown.
	ErrOrchestratorClosed = zerr.New("orchestrator is closed")
)
