package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for output rendering.
// It decouples telemetry collection from presentation logic,
// allowing the same event stream to drive either a rich TUI or linear CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	// For asynchronous renderers (like TUI), this may launch background goroutines.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and prepare for shutdown.
	// It should flush any buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	// For synchronous renderers, this may return immediately.
	Wait() error

	// OnPlanEmit is called when the scheduler has planned the package graph.
	// packages: list of all package names in build order
	// deps: dependency map (package -> list of dependencies)
	// targets: the user-requested packages
	OnPlanEmit(packages []string, deps map[string][]string, targets []string)

	// OnPackageStart is called when a package build begins.
	// spanID: unique identifier for this package build
	// parentID: spanID of the parent span (empty if root)
	// name: package name
	// startTime: when the build started
	OnPackageStart(spanID, parentID, name string, startTime time.Time)

	// OnPackageLog is called when a build emits output.
	// spanID: identifier for the package build
	// data: raw log bytes (may contain partial lines or ANSI sequences)
	OnPackageLog(spanID string, data []byte)

	// OnPackageComplete is called when a package build finishes.
	// spanID: identifier for the package build
	// endTime: when the build completed
	// cached: true if the build was skipped because nothing changed
	// err: nil if successful, error otherwise
	OnPackageComplete(spanID string, endTime time.Time, cached bool, err error)
}
