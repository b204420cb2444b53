package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dd0wney/cluso-attackmap/pkg/dashboard"
	"golang.org/x/term"
)

// Run starts the full-screen dashboard and blocks until the user quits
func Run(sess *dashboard.Session, opts ...tea.ProgramOption) error {
	m := NewModel(sess)

	// Size the first frame before the terminal reports it
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		m.resize(w, h)
	}

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

// IsTerminal reports whether stdout is an interactive terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
