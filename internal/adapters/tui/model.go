// Package tui is the interactive terminal host for a session.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spockhart/spockhart/internal/app/dto"
	"github.com/spockhart/spockhart/internal/app/usecases"
	"github.com/spockhart/spockhart/internal/core/flow"
)

const (
	brand   = "Spockhart"
	tagline = "half logic • half human"
)

// exportDoneMsg reports the result of an async export
type exportDoneMsg struct{ err error }

// Model is the bubbletea model wrapping a SessionController.
type Model struct {
	ctx        context.Context
	controller *usecases.SessionController
	snapshot   string

	view      dto.StepView
	cursor    int
	status    string
	exporting bool
}

// New creates a model for controller. snapshot names the exported file in
// the status line.
func New(ctx context.Context, controller *usecases.SessionController, snapshot string) Model {
	return Model{
		ctx:        ctx,
		controller: controller,
		snapshot:   snapshot,
		view:       controller.View(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.status = "Export failed: " + msg.err.Error()
		} else {
			m.status = "Saved " + m.snapshot
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.view.Choices)-1 {
			m.cursor++
		}
	case "r":
		m.controller.Restart(m.ctx)
		m.status = ""
		m.refresh()
	case "d":
		if m.view.AtReveal {
			return m.export()
		}
	case "enter", " ":
		return m.choose()
	}
	return m, nil
}

func (m Model) choose() (tea.Model, tea.Cmd) {
	if len(m.view.Choices) == 0 {
		return m, nil
	}
	if m.view.Choices[m.cursor].Action == flow.ActionExport {
		return m.export()
	}
	if err := m.controller.Select(m.ctx, m.cursor); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = ""
	m.refresh()
	return m, nil
}

func (m Model) export() (tea.Model, tea.Cmd) {
	if m.exporting {
		return m, nil
	}
	m.exporting = true
	m.status = "Exporting..."
	controller, ctx := m.controller, m.ctx
	return m, func() tea.Msg {
		return exportDoneMsg{err: controller.Export(ctx)}
	}
}

func (m *Model) refresh() {
	m.view = m.controller.View()
	m.cursor = 0
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", brand, tagline)
	b.WriteString(m.view.Prompt + "\n")
	if m.view.Note != "" {
		b.WriteString(m.view.Note + "\n")
	}
	b.WriteString("\n")

	if m.view.AtReveal && m.view.Reflection != "" {
		b.WriteString(box(m.view.Reflection))
		b.WriteString("\n")
	}

	for i, c := range m.view.Choices {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%s\n", marker, c.Label)
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString("↑/↓ move • enter choose • r restart")
	if m.view.AtReveal {
		b.WriteString(" • d download")
	}
	b.WriteString(" • q quit\n")
	return b.String()
}

func box(text string) string {
	lines := wrap(text, 60)
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	var b strings.Builder
	b.WriteString("┌" + strings.Repeat("─", width+2) + "┐\n")
	for _, l := range lines {
		pad := width - len([]rune(l))
		b.WriteString("│ " + l + strings.Repeat(" ", pad) + " │\n")
	}
	b.WriteString("└" + strings.Repeat("─", width+2) + "┘\n")
	return b.String()
}

func wrap(text string, width int) []string {
	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len([]rune(line))+1+len([]rune(word)) > width:
			lines = append(lines, line)
			line = word
		default:
			line += " " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
