package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	listWidthRatio     = 0.3
	logPaneBorderWidth = 3
)

// PackageStatus is the display state of a package.
type PackageStatus string

const (
	// StatusPending indicates the package is waiting for its dependencies.
	StatusPending PackageStatus = "Pending"
	// StatusRunning indicates the package is being built.
	StatusRunning PackageStatus = "Running"
	// StatusBuilt indicates the package was built.
	StatusBuilt PackageStatus = "Built"
	// StatusCached indicates the package was up to date.
	StatusCached PackageStatus = "Cached"
	// StatusFailed indicates the package failed.
	StatusFailed PackageStatus = "Failed"
)

// PackageNode is the live state of one planned package.
type PackageNode struct {
	Name      string
	Status    PackageStatus
	StartTime time.Time
	EndTime   time.Time
	Err       error
	Log       *LogView
}

// Model represents the main TUI state.
type Model struct {
	Packages   []*PackageNode
	PackageMap map[string]*PackageNode
	SpanMap    map[string]*PackageNode
	Roots      []*TreeNode
	Rows       []*TreeNode

	SelectedIdx int
	ListOffset  int
	ListHeight  int
	ListWidth   int
	LogWidth    int
	LogHeight   int
	FollowMode  bool
	Done        bool

	TickInterval time.Duration
	disableTick  bool
	now          func() time.Time
}

// WithDisableTick turns off the elapsed-time tick loop.
func (m Model) WithDisableTick() Model {
	m.disableTick = true
	return m
}

// WithClock replaces the clock used for elapsed times.
func (m Model) WithClock(now func() time.Time) Model {
	m.now = now
	return m
}

// Init starts the tick loop.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	if m.disableTick || m.TickInterval <= 0 {
		return nil
	}
	return tea.Tick(m.TickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) clock() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now()
}

// Selected returns the package of the selected row, or nil.
func (m *Model) Selected() *PackageNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Rows) {
		return m.Rows[m.SelectedIdx].Package
	}
	return nil
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

// selectPackage moves the cursor to the first visible row showing name.
func (m *Model) selectPackage(name string) {
	for i, row := range m.Rows {
		if row.Package.Name == name {
			m.SelectedIdx = i
			m.ensureVisible()
			return
		}
	}
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // message dispatch
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.ListWidth = int(float64(msg.Width) * listWidthRatio)
		m.LogWidth = msg.Width - m.ListWidth - logPaneBorderWidth

		headerHeight := lipgloss.Height(titleStyle.Render("PACKAGES") + "\n\n")
		m.ListHeight = msg.Height - headerHeight
		m.LogHeight = msg.Height - headerHeight
		m.ensureVisible()

	case tickMsg:
		if m.Done {
			return m, nil
		}
		return m, m.tick()

	case MsgPlan:
		m.Packages = make([]*PackageNode, len(msg.Packages))
		m.PackageMap = make(map[string]*PackageNode, len(msg.Packages))
		m.SpanMap = make(map[string]*PackageNode)
		for i, name := range msg.Packages {
			m.Packages[i] = &PackageNode{Name: name, Status: StatusPending, Log: NewLogView(0)}
			m.PackageMap[name] = m.Packages[i]
		}
		m.Roots = buildTree(msg.Packages, msg.Targets, msg.Dependencies, m.PackageMap)
		m.Rows = flattenTree(m.Roots)
		m.SelectedIdx = 0
		m.ListOffset = 0

	case MsgPackageStart:
		if node, ok := m.PackageMap[msg.Name]; ok {
			node.Status = StatusRunning
			node.StartTime = msg.StartTime
			m.SpanMap[msg.SpanID] = node
			if m.FollowMode {
				m.selectPackage(msg.Name)
			}
		}

	case MsgPackageLog:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			_, _ = node.Log.Write(msg.Data)
		}

	case MsgPackageComplete:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			node.EndTime = msg.EndTime
			node.Err = msg.Err
			switch {
			case msg.Err != nil:
				node.Status = StatusFailed
			case msg.Cached:
				node.Status = StatusCached
			default:
				node.Status = StatusBuilt
			}
		}

	case MsgDone:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "k", "up":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
			m.FollowMode = false
			m.ensureVisible()
		}
	case "j", "down":
		if m.SelectedIdx < len(m.Rows)-1 {
			m.SelectedIdx++
			m.FollowMode = false
			m.ensureVisible()
		}
	case "enter", " ":
		if m.SelectedIdx < len(m.Rows) {
			row := m.Rows[m.SelectedIdx]
			if len(row.Children) > 0 {
				row.Expanded = !row.Expanded
				m.Rows = flattenTree(m.Roots)
			}
		}
	case "esc":
		m.FollowMode = true
		for _, pkg := range m.Packages {
			if pkg.Status == StatusRunning {
				m.selectPackage(pkg.Name)
				break
			}
		}
	}
	return nil
}
