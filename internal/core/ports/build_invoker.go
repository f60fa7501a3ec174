package ports

import (
	"context"
	"io"

	"go.trai.ch/rig/internal/core/domain"
)

// BuildInvoker drives the external configure and build steps of one package.
//
//go:generate mockgen -source=build_invoker.go -destination=mocks/mock_build_invoker.go -package=mocks
type BuildInvoker interface {
	// Invoke generates the toolchain file and runs configure then build.
	// Failures are reported as domain.ErrBuildFailed with a diagnostic tail.
	Invoke(ctx context.Context, unit domain.BuildUnit, stdout, stderr io.Writer) error
}
