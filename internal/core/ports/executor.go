// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Command is an external process invocation.
type Command struct {
	// Args is the program followed by its arguments.
	Args []string

	// Dir is the working directory.
	Dir string

	// Env holds extra environment variables in "KEY=VALUE" format.
	Env []string
}

// Executor defines the interface for running external processes.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command to completion, streaming its output.
	// It returns an error if the process cannot start or exits non-zero.
	Execute(ctx context.Context, cmd Command, stdout, stderr io.Writer) error
}
