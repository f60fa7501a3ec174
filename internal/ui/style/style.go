// Package style holds the colors and glyphs shared by the logger and the renderers.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/rig/internal/core/domain"
)

// Palette.
var (
	Accent = lipgloss.Color("#2F80ED")
	Muted  = lipgloss.Color("#6B7280")
	Text   = lipgloss.Color("#F9FAFB")
	Green  = lipgloss.Color("#16A34A")
	Red    = lipgloss.Color("#DC2626")
	Yellow = lipgloss.Color("#D97706")
)

// Glyphs.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
	Circle  = "○"
	Arrow   = "→"
)

// StateGlyph returns the glyph and color used to display a package state.
func StateGlyph(s domain.PackageState) (string, lipgloss.Color) {
	switch s {
	case domain.StateBuilt:
		return Check, Green
	case domain.StateCached:
		return Tilde, Muted
	case domain.StateFailed:
		return Cross, Red
	case domain.StateLayoutResolved:
		return Dot, Accent
	default:
		return Circle, Muted
	}
}
