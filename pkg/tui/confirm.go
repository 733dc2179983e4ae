package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skillwright/skillwright/pkg/matrix"
	"github.com/skillwright/skillwright/pkg/validate"
	"github.com/skillwright/skillwright/pkg/wizard"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// confirmModel shows the finished selection with its validation report and
// waits for confirm, back, or cancel.
type confirmModel struct {
	matrix    *matrix.Matrix
	selection matrix.Selection
	report    *validate.Report

	response wizard.Response
	done     bool
}

func newConfirmModel(m *matrix.Matrix, selection matrix.Selection, report *validate.Report) *confirmModel {
	return &confirmModel{matrix: m, selection: selection, report: report}
}

func (m *confirmModel) Init() tea.Cmd {
	return nil
}

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Cancel):
		m.response = wizard.Response{Action: wizard.Cancel}
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Back):
		m.response = wizard.Response{Action: wizard.Back}
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Select):
		m.response = wizard.Response{Action: wizard.Advance}
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *confirmModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Your selection"))
	b.WriteString("\n\n")

	if len(m.selection) == 0 {
		b.WriteString(reasonStyle.Render("  (nothing selected)") + "\n")
	}
	for _, id := range m.selection {
		name := id
		if s, ok := m.matrix.Skill(id); ok && s.Name != "" {
			name = s.Name
		}
		b.WriteString(selectedStyle.Render("  ✓ ") + name)
		if alias, ok := m.matrix.Aliases.Reverse(id); ok {
			b.WriteString(reasonStyle.Render(" (" + alias + ")"))
		}
		b.WriteString("\n")
	}

	for _, issue := range m.report.Errors {
		b.WriteString(errorStyle.Render("  ✗ "+issue.Message) + "\n")
	}
	for _, issue := range m.report.Warnings {
		b.WriteString(warningStyle.Render("  ⚠ "+issue.Message) + "\n")
	}

	b.WriteString("\n")
	if m.report.Valid() {
		b.WriteString(helpStyle.Render("enter confirm · b back · esc cancel"))
	} else {
		b.WriteString(helpStyle.Render("enter fix errors · b back · esc abort"))
	}
	return b.String()
}
