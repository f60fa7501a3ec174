// Package linear provides a synchronous, line-buffered renderer for CI environments.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/rig/internal/ui/output"
	"go.trai.ch/rig/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer for CI/non-interactive environments.
// It outputs linear, chronological logs with package name prefixes.
// Build output goes to stdout, lifecycle messages to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu       sync.Mutex
	packages map[string]*packageState // spanID -> package state
}

type packageState struct {
	name      string
	startTime time.Time
	partial   bytes.Buffer
}

// NewRenderer creates a new Renderer. Nil writers default to os.Stdout and os.Stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout:   stdout,
		stderr:   stderr,
		output:   output.NewPlain(stderr),
		packages: make(map[string]*packageState),
	}
}

// Start is a no-op for linear renderer (synchronous).
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes all partial lines.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, pkg := range r.packages {
		r.flushPartialLocked(pkg)
	}
	return nil
}

// Wait is a no-op for linear renderer (synchronous).
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the planned packages.
func (r *Renderer) OnPlanEmit(packages []string, _ map[string][]string, targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	scope := "all packages"
	if len(targets) > 0 {
		scope = strings.Join(targets, ", ")
	}
	_, _ = fmt.Fprintf(r.stderr, "Planning to build %d package(s) for %s: %s\n",
		len(packages), scope, strings.Join(packages, " "+style.Arrow+" "))
}

// OnPackageStart prints a start message.
func (r *Renderer) OnPackageStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.packages[spanID] = &packageState{name: name, startTime: startTime}
	_, _ = fmt.Fprintf(r.stderr, "%s Building...\n", r.prefix(name))
}

// OnPackageLog buffers output and prints complete lines with the package prefix.
func (r *Renderer) OnPackageLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pkg, ok := r.packages[spanID]
	if !ok {
		return
	}

	pkg.partial.Write(data)
	for {
		i := bytes.IndexByte(pkg.partial.Bytes(), '\n')
		if i < 0 {
			return
		}
		line := pkg.partial.Next(i + 1)
		r.printLineLocked(pkg.name, line)
	}
}

// OnPackageComplete flushes the partial line and prints the outcome.
func (r *Renderer) OnPackageComplete(spanID string, endTime time.Time, cached bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pkg, ok := r.packages[spanID]
	if !ok {
		return
	}
	r.flushPartialLocked(pkg)
	delete(r.packages, spanID)

	duration := endTime.Sub(pkg.startTime).Round(time.Millisecond)
	prefix := r.prefix(pkg.name)

	switch {
	case err != nil:
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n",
			prefix, r.glyph(style.Cross, style.Red), duration, err)
	case cached:
		_, _ = fmt.Fprintf(r.stderr, "%s %s Up to date\n",
			prefix, r.glyph(style.Tilde, style.Muted))
	default:
		_, _ = fmt.Fprintf(r.stderr, "%s %s Built in %v\n",
			prefix, r.glyph(style.Check, style.Green), duration)
	}
}

func (r *Renderer) prefix(name string) string {
	return r.output.String("[" + name + "]").Faint().String()
}

func (r *Renderer) glyph(symbol string, color lipgloss.Color) string {
	return r.output.String(symbol).Foreground(r.output.Color(string(color))).String()
}

// flushPartialLocked must be called with r.mu held.
func (r *Renderer) flushPartialLocked(pkg *packageState) {
	if pkg.partial.Len() > 0 {
		r.printLineLocked(pkg.name, pkg.partial.Bytes())
		pkg.partial.Reset()
	}
}

// printLineLocked must be called with r.mu held.
func (r *Renderer) printLineLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", name, line)
}
