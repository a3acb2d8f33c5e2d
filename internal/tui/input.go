package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

type inputModel struct {
	textarea textarea.Model
	label    string
}

func newInputModel(label, prefill string) inputModel {
	ta := textarea.New()
	ta.Placeholder = "TASKCODE: what are you doing?"
	ta.Focus()
	ta.CharLimit = 200
	ta.SetWidth(60)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	if prefill != "" {
		ta.SetValue(prefill)
	}

	return inputModel{
		textarea: ta,
		label:    label,
	}
}

func (m inputModel) Update(msg tea.Msg) (inputModel, tea.Cmd) {
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	help := helpStyle.Render("Enter: save • Esc: cancel")
	return titleStyle.Render(m.label) + "\n" + m.textarea.View() + "\n" + help
}

func (m inputModel) Value() string {
	return strings.TrimSpace(m.textarea.Value())
}

// parseEntry splits "CODE: text" into a task code and text. Input without a
// leading code is returned as text only.
func parseEntry(input string) (taskcode, text string) {
	input = strings.TrimSpace(input)
	code, rest, ok := strings.Cut(input, ":")
	if !ok || code == "" || strings.ContainsAny(code, " \t") {
		return "", input
	}
	return code, strings.TrimSpace(rest)
}
