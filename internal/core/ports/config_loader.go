package ports

import "go.trai.ch/rig/internal/core/domain"

// ConfigLoader defines the interface for loading package descriptors.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the descriptors of the workspace containing cwd and returns the
	// unvalidated package graph.
	Load(cwd string) (*domain.Graph, error)

	// DiscoverRoot walks up from cwd to find the workspace root.
	// Returns the directory of the top-most rig.yaml listing packages, else the nearest rig.yaml.
	DiscoverRoot(cwd string) (string, error)
}

// ProfileLoader resolves the settings record supplied by the invoking environment.
type ProfileLoader interface {
	// LoadProfile reads the profile at path (optional), applies the key=value
	// overrides on top and fills missing axes from detection.
	LoadProfile(path string, overrides []string) (domain.Settings, error)
}
