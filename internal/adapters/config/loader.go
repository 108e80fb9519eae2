// Package config provides the project-view loader for fastbuild.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/fastbuild/internal/core/domain"
	"go.trai.ch/fastbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Defaults applied when fastbuild.yaml leaves fields unset.
var (
	defaultBuildBinary    = "bazel"
	defaultSourceSuffixes = []string{".java"}
	defaultSupportedKinds = []domain.Kind{domain.KindJavaTest}
)

// Loader implements ports.ConfigLoader using a YAML project file.
type Loader struct {
	logger ports.Logger
}

var _ ports.ConfigLoader = (*Loader)(nil)

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load walks up from cwd until it finds fastbuild.yaml and returns the
// parsed project view.
func (l *Loader) Load(cwd string) (*domain.ProjectView, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // path discovered by walking up from cwd
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	var file projectFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	return buildView(configPath, &file), nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		configPath := filepath.Join(currentDir, domain.ProjectFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached the filesystem root.
			return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
		}
		currentDir = parentDir
	}
}

func buildView(configPath string, file *projectFile) *domain.ProjectView {
	root := filepath.Dir(configPath)
	if file.Root != "" {
		if filepath.IsAbs(file.Root) {
			root = file.Root
		} else {
			root = filepath.Join(root, file.Root)
		}
	}

	binary := file.Build.Binary
	if binary == "" {
		binary = defaultBuildBinary
	}

	suffixes := file.Compiler.Suffixes
	if len(suffixes) == 0 {
		suffixes = defaultSourceSuffixes
	}

	kinds := make([]domain.Kind, 0, len(file.SupportedKinds))
	for _, k := range file.SupportedKinds {
		kinds = append(kinds, domain.Kind(k))
	}
	if len(kinds) == 0 {
		kinds = defaultSupportedKinds
	}

	targets := make(map[domain.Label]domain.Kind, len(file.Targets))
	for label, kind := range file.Targets {
		targets[domain.NewLabel(label)] = domain.Kind(kind)
	}

	return domain.NewProjectView(
		root,
		binary,
		file.Build.Flags,
		file.Compiler.Command,
		suffixes,
		targets,
		kinds,
	)
}
