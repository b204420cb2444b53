// Package tui is a terminal front end for a dashboard session: the attack
// map drawn with box characters, mouse picking and a prioritized attack
// table.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dd0wney/cluso-attackmap/pkg/dashboard"
	"github.com/dd0wney/cluso-attackmap/pkg/severity"
)

// PanStep is the screen distance moved per arrow key
const PanStep = 2 * CellWidth

// Rows above and below the map
const (
	headerLines = 2
	footerLines = 3
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	selectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#facc15")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	levelStyles = map[severity.Level]lipgloss.Style{
		severity.LevelCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true),
		severity.LevelHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("#f97316")),
		severity.LevelMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
		severity.LevelLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981")),
	}
)

// Model is the bubbletea model for one session
type Model struct {
	session   *dashboard.Session
	canvas    *Canvas
	attacks   table.Model
	help      help.Model
	keys      KeyMap
	showTable bool
	width     int
	height    int
	message   string
	err       error
}

// NewModel creates a model over a session. The session is only touched
// from Update and View.
func NewModel(sess *dashboard.Session) Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "ID", Width: 38},
		{Title: "Type", Width: 10},
		{Title: "Severity", Width: 8},
		{Title: "Score", Width: 5},
		{Title: "Level", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	m := Model{
		session: sess,
		canvas:  NewCanvas(0, 0),
		attacks: t,
		help:    help.New(),
		keys:    DefaultKeyMap(),
	}
	m.refreshTable()
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && !m.showTable {
			m.click(msg.X, msg.Y-headerLines)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Table):
			m.showTable = !m.showTable
			m.refreshTable()
			return m, nil
		}

		if m.showTable {
			var cmd tea.Cmd
			m.attacks, cmd = m.attacks.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.ZoomIn):
			m.session.ZoomIn()
		case key.Matches(msg, m.keys.ZoomOut):
			m.session.ZoomOut()
		case key.Matches(msg, m.keys.Reset):
			m.session.Reset()
			m.message = ""
		case key.Matches(msg, m.keys.Left):
			m.session.Pan(PanStep, 0)
		case key.Matches(msg, m.keys.Right):
			m.session.Pan(-PanStep, 0)
		case key.Matches(msg, m.keys.Up):
			m.session.Pan(0, PanStep)
		case key.Matches(msg, m.keys.Down):
			m.session.Pan(0, -PanStep)
		}
	}

	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.canvas = NewCanvas(width, max(height-headerLines-footerLines, 0))
	m.attacks.SetHeight(max(height-headerLines-footerLines-2, 3))
}

// click picks the node under a map cell
func (m *Model) click(col, row int) {
	p := ScreenAt(col, row)
	ev, err := m.session.Click(p.X, p.Y)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil

	if !ev.Selected {
		m.message = ""
		return
	}

	var b strings.Builder
	b.WriteString(ev.NodeID)
	if ev.Node != nil {
		if ev.Node.IP != "" {
			fmt.Fprintf(&b, " %s", ev.Node.IP)
		}
		if ev.Node.Type != "" {
			fmt.Fprintf(&b, " (%s)", ev.Node.Type)
		}
	}
	if len(ev.Attacks) > 0 {
		types := make([]string, 0, len(ev.Attacks))
		for _, a := range ev.Attacks {
			types = append(types, string(a.Type))
		}
		fmt.Fprintf(&b, " • %d attack(s): %s", len(ev.Attacks), strings.Join(types, ", "))
	}
	m.message = b.String()
}

func (m *Model) refreshTable() {
	ranked := m.session.Prioritized()
	rows := make([]table.Row, 0, len(ranked))
	for i, r := range ranked {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			r.Attack.ID,
			string(r.Attack.Type),
			string(r.Attack.Severity),
			strconv.Itoa(r.Score),
			string(r.Level),
		})
	}
	m.attacks.SetRows(rows)
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Attack Map"))
	s.WriteString("\n")
	s.WriteString(m.renderStatus())
	s.WriteString("\n")

	if m.showTable {
		s.WriteString(m.attacks.View())
	} else {
		s.WriteString(m.renderMap())
	}

	s.WriteString("\n")
	switch {
	case m.err != nil:
		s.WriteString(errorStyle.Render("✗ " + m.err.Error()))
	case m.message != "":
		s.WriteString(selectionStyle.Render("◉ " + m.message))
	}
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return s.String()
}

func (m Model) renderStatus() string {
	snap := m.session.Snapshot()
	sum := m.session.Summary()

	level := severity.Classify(sum.NetworkScore)
	risk := levelStyles[level].Render(fmt.Sprintf("%d (%s)", sum.NetworkScore, level))

	return statusStyle.Render(fmt.Sprintf("%s • %d nodes • %d attacks • zoom %.2f • risk ",
		snap.State, snap.Nodes, snap.Attacks, snap.Zoom)) + risk
}

func (m Model) renderMap() string {
	plan, err := m.session.Plan()
	if err != nil {
		msg := err.Error()
		if errors.Is(err, dashboard.ErrNotReady) && m.session.Err() != nil {
			msg = m.session.Err().Error()
		}
		return errorStyle.Render(msg)
	}
	m.canvas.Draw(plan)
	return m.canvas.Render()
}
