// Package tui renders wizard prompts in the terminal using bubbletea. It is
// a pure presentation layer: every option arrives already annotated with
// disabled/discouraged/recommended state and this package never recomputes
// those flags.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skillwright/skillwright/pkg/wizard"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	selectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	disabledStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	reasonStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	recommendedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	discouragedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// item is one selectable row.
type item struct {
	id    string
	title string

	selected    bool
	disabled    bool
	reason      string
	recommended bool
	discouraged bool
	hint        string
}

// selectModel is a single-choice list prompt. It resolves to exactly one
// wizard.Response when the user acts.
type selectModel struct {
	title     string
	items     []item
	cursor    int
	allowBack bool
	allowSkip bool

	response wizard.Response
	done     bool
}

func newSelectModel(title string, items []item, allowBack, allowSkip bool) *selectModel {
	m := &selectModel{
		title:     title,
		items:     items,
		allowBack: allowBack,
		allowSkip: allowSkip,
	}
	// Start on the first enabled row.
	for i, it := range m.items {
		if !it.disabled {
			m.cursor = i
			break
		}
	}
	return m
}

func (m *selectModel) Init() tea.Cmd {
	return nil
}

func (m *selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Cancel):
		m.response = wizard.Response{Action: wizard.Cancel}
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Up):
		m.move(-1)
	case key.Matches(keyMsg, keys.Down):
		m.move(1)
	case key.Matches(keyMsg, keys.Back):
		if m.allowBack {
			m.response = wizard.Response{Action: wizard.Back}
			m.done = true
			return m, tea.Quit
		}
	case key.Matches(keyMsg, keys.Skip):
		if m.allowSkip {
			m.response = wizard.Response{Action: wizard.Skip}
			m.done = true
			return m, tea.Quit
		}
	case key.Matches(keyMsg, keys.Select):
		if len(m.items) == 0 {
			return m, nil
		}
		current := m.items[m.cursor]
		if current.disabled {
			return m, nil
		}
		m.response = wizard.Response{Action: wizard.Advance, Value: current.id}
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// move advances the cursor, wrapping around and stepping over disabled rows.
func (m *selectModel) move(delta int) {
	if len(m.items) == 0 {
		return
	}
	for i := 0; i < len(m.items); i++ {
		m.cursor = (m.cursor + delta + len(m.items)) % len(m.items)
		if !m.items[m.cursor].disabled {
			return
		}
	}
}

func (m *selectModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, it := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("❯ ")
		}

		label := it.title
		switch {
		case it.disabled:
			label = disabledStyle.Render(label)
		case it.selected:
			label = selectedStyle.Render(label + " ✓")
		}

		var marks []string
		if it.recommended {
			marks = append(marks, recommendedStyle.Render("★ recommended"))
		}
		if it.discouraged {
			marks = append(marks, discouragedStyle.Render("⚠ discouraged"))
		}

		b.WriteString(cursor + label)
		if len(marks) > 0 {
			b.WriteString("  " + strings.Join(marks, "  "))
		}
		b.WriteString("\n")

		if it.reason != "" {
			b.WriteString(reasonStyle.Render("    "+it.reason) + "\n")
		} else if it.hint != "" && i == m.cursor {
			b.WriteString(reasonStyle.Render("    "+it.hint) + "\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m *selectModel) helpLine() string {
	parts := []string{"↑/↓ move", "enter select"}
	if m.allowSkip {
		parts = append(parts, "s skip")
	}
	if m.allowBack {
		parts = append(parts, "b back")
	}
	parts = append(parts, "esc cancel")
	return strings.Join(parts, " · ")
}

// truncate shortens a description for single-line hints.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return fmt.Sprintf("%s...", s[:n-3])
}
