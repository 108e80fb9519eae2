package domain

import (
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// TargetInfo describes a single target as reported by the build tool's
// metadata output group.
type TargetInfo struct {
	Label   Label
	Kind    Kind
	Sources []string
	Deps    []Label
}

// BuildOutput is the immutable artifact descriptor produced by a completed
// baseline or incremental build. Later builds supersede it; it is never
// edited in place.
type BuildOutput struct {
	// Artifact is the path of the deploy artifact on local disk.
	Artifact string
	// TargetData maps labels to their metadata, last writer wins on
	// duplicate keys during collection.
	TargetData map[Label]TargetInfo
	// Fingerprint is the xxhash of the artifact contents at build time,
	// zero if it could not be computed.
	Fingerprint uint64
}

// ArtifactExists reports whether the deploy artifact is still present on disk.
func (o BuildOutput) ArtifactExists() bool {
	_, err := os.Stat(o.Artifact)
	return err == nil
}

// FingerprintFile computes the xxhash fingerprint of the file at path.
func FingerprintFile(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // artifact path produced by the build tool
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// BuildResult is the caller-visible outcome of a build request.
type BuildResult struct {
	Label      Label
	OutputDir  string
	Artifact   string
	TargetData map[Label]TargetInfo
}
