package ports

import "go.trai.ch/fastbuild/internal/core/domain"

// ConfigLoader defines the interface for loading the project view.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration starting from the given working
	// directory and returns the project view.
	Load(cwd string) (*domain.ProjectView, error)
}
