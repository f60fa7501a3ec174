// Package shell runs external commands for the build invoker.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor. Commands run in a pseudo terminal so
// compilers keep their colored diagnostics; where no pty is available the
// process writes to plain pipes.
type Executor struct{}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs cmd and waits for it. Output is streamed to stdout (and to
// stderr when running without a pty).
func (e *Executor) Execute(ctx context.Context, cmd ports.Command, stdout, stderr io.Writer) error {
	if len(cmd.Args) == 0 {
		return domain.ErrEmptyCommand
	}

	env := resolveEnvironment(os.Environ(), cmd.Env)
	name := cmd.Args[0]

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args[1:]...) //nolint:gosec // arguments are built by the invoker
	c.Args[0] = name
	c.Dir = cmd.Dir
	c.Env = env

	wait, err := start(c, stdout, stderr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCommandStartFailed.Error()), "command", name)
	}

	if err := wait(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.With(zerr.Wrap(err, domain.ErrCommandFailed.Error()), "command", name)
		return zerr.With(err, "exit_code", exitCode)
	}
	return nil
}

// start launches c and returns a function waiting for both the process and its output.
func start(c *exec.Cmd, stdout, stderr io.Writer) (func() error, error) {
	ptmx, err := pty.Start(c)
	if errors.Is(err, pty.ErrUnsupported) {
		c.Stdout = stdout
		c.Stderr = stderr
		if err := c.Start(); err != nil {
			return nil, err
		}
		return c.Wait, nil
	}
	if err != nil {
		return nil, err
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		// The pty merges both streams.
		_, _ = io.Copy(stdout, ptmx)
	}()

	return func() error {
		err := c.Wait()
		<-ioDone
		return err
	}, nil
}

// inheritedEnvVars are the only variables taken from the calling environment.
// Everything else that influences a build must come from the command itself.
var inheritedEnvVars = []string{
	"HOME", "USER", "PATH", "TERM", "TMPDIR", "LANG",
	"CC", "CXX", "CFLAGS", "CXXFLAGS", "LDFLAGS", "PKG_CONFIG_PATH",
	"SYSTEMROOT", "ProgramFiles", "ProgramFiles(x86)",
}

// resolveEnvironment filters sysEnv to the inherited variables and applies extra on top.
// A PATH in extra is prepended to the inherited one.
func resolveEnvironment(sysEnv, extra []string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok && slices.Contains(inheritedEnvVars, k) {
			envMap[k] = v
		}
	}

	for _, entry := range extra {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" && envMap["PATH"] != "" {
			v = v + string(os.PathListSeparator) + envMap["PATH"]
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath resolves file against the PATH found in env rather than the process PATH.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
			break
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func isExecutable(file string) bool {
	d, err := os.Stat(file)
	if err != nil {
		return false
	}
	m := d.Mode()
	return !m.IsDir() && m&0o111 != 0
}
