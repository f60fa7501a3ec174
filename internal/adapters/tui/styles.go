package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/rig/internal/ui/style"
)

var (
	pendingStyle = lipgloss.NewStyle().
			Foreground(style.Muted)

	runningStyle = lipgloss.NewStyle().
			Foreground(style.Accent).
			Bold(true)

	builtStyle = lipgloss.NewStyle().
			Foreground(style.Green)

	failedStyle = lipgloss.NewStyle().
			Foreground(style.Red)

	cachedStyle = lipgloss.NewStyle().
			Foreground(style.Muted).
			Faint(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(style.Accent).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(style.Muted)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Accent).
			Foreground(style.Text)

	failureTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Background(style.Red).
				Foreground(style.Text)

	listStyle = lipgloss.NewStyle().
			PaddingRight(1)

	logStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(style.Muted).
			PaddingLeft(1)
)
