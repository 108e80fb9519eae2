package bazel

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/fastbuild/internal/core/domain"
)

const (
	// binDirName is the build tool's convenience symlink for built outputs.
	binDirName = "bazel-bin"

	// metadataSuffix marks target metadata files produced by the
	// fastbuild-info output group.
	metadataSuffix = ".fastbuild-info.txt"
)

// fsResultSet locates build outputs under the workspace's bin directory.
type fsResultSet struct {
	root string
}

func newFSResultSet(root string) *fsResultSet {
	return &fsResultSet{root: root}
}

// ArtifactsFor returns the produced files for label: every file in the
// label's package output directory whose name matches the target name.
func (r *fsResultSet) ArtifactsFor(label domain.Label) ([]string, error) {
	pkgDir := filepath.Join(r.root, binDirName, label.PackagePath())
	entries, err := os.ReadDir(pkgDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var artifacts []string
	for _, e := range entries {
		if !e.IsDir() && e.Name() == label.TargetName() {
			artifacts = append(artifacts, filepath.Join(pkgDir, e.Name()))
		}
	}
	return artifacts, nil
}

// MetadataFiles returns all metadata files under the bin directory.
func (r *fsResultSet) MetadataFiles() ([]string, error) {
	binDir := filepath.Join(r.root, binDirName)

	var files []string
	err := filepath.WalkDir(binDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable directories
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), metadataSuffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *fsResultSet) Close() error {
	return nil
}
