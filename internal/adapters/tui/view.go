package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/ui/style"
)

// View renders the UI. Once the run is over only the summary remains on screen.
func (m *Model) View() string {
	if m.Done {
		return m.summary()
	}
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.packageList(),
		m.logPane(),
	)
}

func (m *Model) packageList() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("PACKAGES") + "\n\n")

	start := m.ListOffset
	end := min(m.ListOffset+m.ListHeight, len(m.Rows))
	start = min(start, end)

	for i := start; i < end; i++ {
		s.WriteString(m.renderRow(i, m.Rows[i]) + "\n")
	}

	return listStyle.Width(m.ListWidth).Render(s.String())
}

func (m *Model) renderRow(index int, row *TreeNode) string {
	pkg := row.Package
	glyph, rowStyle := statusGlyph(pkg.Status)

	cursor := "  "
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if pkg.Status == StatusPending || pkg.Status == StatusRunning {
			rowStyle = selectedStyle
		}
	}

	fold := " "
	if len(row.Children) > 0 && !row.Expanded {
		fold = "+"
	}

	line := fmt.Sprintf("%s%s%s %s", strings.Repeat("  ", row.Depth), fold, glyph, pkg.Name)
	if d := m.elapsed(pkg); d > 0 {
		line += mutedStyle.Render(" " + formatDuration(d))
	}
	return cursor + rowStyle.Render(line)
}

func (m *Model) logPane() string {
	pkg := m.Selected()
	if pkg == nil {
		return logStyle.Render(titleStyle.Render("LOGS (Waiting...)"))
	}

	mode := " (Following)"
	if !m.FollowMode {
		mode = " (Manual)"
	}
	header := titleStyle.Render("LOGS: " + pkg.Name + mode)
	if pkg.Status == StatusFailed {
		header = failureTitleStyle.Render("FAILED: " + pkg.Name + mode)
	}

	lines := pkg.Log.Tail(m.LogHeight - 1)
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, max(m.LogWidth, 1), "…")
	}

	return logStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		strings.Join(lines, "\n"),
	))
}

// summary renders one line per package in plan order plus the totals.
func (m *Model) summary() string {
	var s strings.Builder
	counts := make(map[PackageStatus]int)

	for _, pkg := range m.Packages {
		counts[pkg.Status]++
		glyph, rowStyle := statusGlyph(pkg.Status)
		line := rowStyle.Render(glyph + " " + pkg.Name)
		if d := m.elapsed(pkg); d > 0 && pkg.Status != StatusCached {
			line += mutedStyle.Render(" " + formatDuration(d))
		}
		if pkg.Status == StatusFailed && pkg.Err != nil {
			line += rowStyle.Render(": " + pkg.Err.Error())
		}
		s.WriteString(line + "\n")
	}

	fmt.Fprintf(&s, "%d built, %d cached, %d failed\n",
		counts[StatusBuilt], counts[StatusCached], counts[StatusFailed])
	return s.String()
}

func (m *Model) elapsed(pkg *PackageNode) time.Duration {
	switch {
	case pkg.StartTime.IsZero():
		return 0
	case pkg.EndTime.IsZero():
		return m.clock().Sub(pkg.StartTime)
	default:
		return pkg.EndTime.Sub(pkg.StartTime)
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

// statusGlyph maps a display status onto the shared package state glyphs.
func statusGlyph(s PackageStatus) (string, lipgloss.Style) {
	switch s {
	case StatusRunning:
		return style.Dot, runningStyle
	case StatusBuilt:
		glyph, _ := style.StateGlyph(domain.StateBuilt)
		return glyph, builtStyle
	case StatusCached:
		glyph, _ := style.StateGlyph(domain.StateCached)
		return glyph, cachedStyle
	case StatusFailed:
		glyph, _ := style.StateGlyph(domain.StateFailed)
		return glyph, failedStyle
	default:
		glyph, _ := style.StateGlyph(domain.StateDeclared)
		return glyph, pendingStyle
	}
}
