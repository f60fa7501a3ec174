package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/rig/internal/core/ports"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer wraps the TUI Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a new TUI renderer.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the TUI in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop renders the summary and quits.
func (r *Renderer) Stop() error {
	r.program.Send(MsgDone{})
	return nil
}

// Wait blocks until the TUI has terminated. A program killed by
// cancellation is not an error of its own; the build reports it.
func (r *Renderer) Wait() error {
	err := <-r.errCh
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// OnPlanEmit forwards the plan to the TUI.
func (r *Renderer) OnPlanEmit(packages []string, deps map[string][]string, targets []string) {
	r.program.Send(MsgPlan{Packages: packages, Dependencies: deps, Targets: targets})
}

// OnPackageStart forwards package start events to the TUI.
func (r *Renderer) OnPackageStart(spanID, parentID, name string, startTime time.Time) {
	r.program.Send(MsgPackageStart{SpanID: spanID, ParentID: parentID, Name: name, StartTime: startTime})
}

// OnPackageLog forwards build output to the TUI.
func (r *Renderer) OnPackageLog(spanID string, data []byte) {
	r.program.Send(MsgPackageLog{SpanID: spanID, Data: data})
}

// OnPackageComplete forwards package completion events to the TUI.
func (r *Renderer) OnPackageComplete(spanID string, endTime time.Time, cached bool, err error) {
	r.program.Send(MsgPackageComplete{SpanID: spanID, EndTime: endTime, Cached: cached, Err: err})
}

// Program returns the underlying tea.Program for testing.
func (r *Renderer) Program() *tea.Program {
	return r.program
}
