package ports

import "go.trai.ch/rig/internal/core/domain"

// BuildInfoStore defines the interface for storing and retrieving build information.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildInfoStore interface {
	// Get retrieves the build info for a package and build type.
	// Returns nil, nil if not found.
	Get(root, pkg string, bt domain.BuildType) (*domain.BuildInfo, error)

	// Put stores the build info.
	Put(root string, info domain.BuildInfo) error

	// Clear removes every stored record under root.
	Clear(root string) error
}
