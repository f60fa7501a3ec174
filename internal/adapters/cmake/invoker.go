// Package cmake drives the configure and build steps of a package with CMake.
package cmake

import (
	"cmp"
	"context"
	"io"
	"os"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultGenerator is the CMake generator used when none is configured.
	DefaultGenerator = "Ninja"

	// DefaultProgram is the CMake executable looked up on PATH.
	DefaultProgram = "cmake"

	// diagnosticLines is how much trailing output is attached to a build failure.
	diagnosticLines = 30
)

var _ ports.BuildInvoker = (*Invoker)(nil)

// Invoker implements ports.BuildInvoker.
type Invoker struct {
	executor  ports.Executor
	generator string
	program   string
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithGenerator selects the CMake generator. Empty keeps the default.
func WithGenerator(generator string) Option {
	return func(i *Invoker) {
		if generator != "" {
			i.generator = generator
		}
	}
}

// WithProgram selects the CMake executable. Empty keeps the default.
func WithProgram(program string) Option {
	return func(i *Invoker) {
		if program != "" {
			i.program = program
		}
	}
}

// NewInvoker creates a new Invoker running commands through executor.
func NewInvoker(executor ports.Executor, opts ...Option) *Invoker {
	i := &Invoker{
		executor:  executor,
		generator: DefaultGenerator,
		program:   DefaultProgram,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Generator returns the configured CMake generator.
func (i *Invoker) Generator() string {
	return i.generator
}

// Program returns the configured CMake executable.
func (i *Invoker) Program() string {
	return i.program
}

// Invoke creates the build and generators directories, writes the toolchain file
// and runs the configure then build steps. The unit's generator and program take
// precedence over the configured ones. It does not retry.
func (i *Invoker) Invoke(ctx context.Context, unit domain.BuildUnit, stdout, stderr io.Writer) error {
	name := unit.Name()
	generator := cmp.Or(unit.Generator, i.generator)
	program := cmp.Or(unit.Program, i.program)

	if err := writeToolchain(unit); err != nil {
		return buildError(err, name, "toolchain", "")
	}

	tail := newTailBuffer(diagnosticLines)
	out := io.MultiWriter(stdout, tail)
	errOut := io.MultiWriter(stderr, tail)

	configure := ports.Command{
		Args: []string{
			program,
			"-S", unit.Layout.SourceDir,
			"-B", unit.Layout.BuildDir,
			"-G", generator,
			"-DCMAKE_TOOLCHAIN_FILE=" + unit.Layout.ToolchainFile(),
		},
		Dir: unit.Layout.SourceDir,
	}
	if err := i.executor.Execute(ctx, configure, out, errOut); err != nil {
		return buildError(err, name, "configure", tail.String())
	}

	build := ports.Command{
		Args: []string{program, "--build", unit.Layout.BuildDir},
		Dir:  unit.Layout.SourceDir,
	}
	if err := i.executor.Execute(ctx, build, out, errOut); err != nil {
		return buildError(err, name, "build", tail.String())
	}

	return nil
}

func writeToolchain(unit domain.BuildUnit) error {
	if err := os.MkdirAll(unit.Layout.BuildDir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrToolchainWriteFailed.Error()), "path", unit.Layout.BuildDir)
	}
	if err := os.MkdirAll(unit.Layout.GeneratorsDir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrToolchainWriteFailed.Error()), "path", unit.Layout.GeneratorsDir)
	}

	content, err := RenderToolchain(unit)
	if err != nil {
		return zerr.Wrap(err, domain.ErrToolchainWriteFailed.Error())
	}

	path := unit.Layout.ToolchainFile()
	if err := os.WriteFile(path, content, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrToolchainWriteFailed.Error()), "path", path)
	}
	return nil
}

func buildError(cause error, pkg, step, diagnostic string) error {
	err := zerr.With(zerr.Wrap(cause, domain.ErrBuildFailed.Error()), "package", pkg)
	err = zerr.With(err, "step", step)
	if diagnostic != "" {
		err = zerr.With(err, "diagnostic", diagnostic)
	}
	return err
}
