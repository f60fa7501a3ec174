package ports

import "go.trai.ch/rig/internal/core/domain"

// Hasher defines the interface for computing input hashes.
//
//go:generate mockgen -destination=mocks/mock_hasher.go -package=mocks -source=hasher.go
type Hasher interface {
	// ComputeInputHash hashes everything that influences the build of unit:
	// exported sources, descriptor fields, settings, options and dependency hashes.
	ComputeInputHash(unit domain.BuildUnit, depHashes []string) (string, error)
}
