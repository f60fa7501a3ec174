// Package tui provides the interactive terminal renderer for rig builds.
package tui

import (
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/rig/internal/ui/output"
)

const defaultTickInterval = 100 * time.Millisecond

// NewModel creates a new TUI model drawing to w (stderr when nil).
func NewModel(w io.Writer) Model {
	lipgloss.SetColorProfile(output.New(w).Profile)

	return Model{
		PackageMap:   make(map[string]*PackageNode),
		SpanMap:      make(map[string]*PackageNode),
		FollowMode:   true,
		TickInterval: defaultTickInterval,
	}
}
