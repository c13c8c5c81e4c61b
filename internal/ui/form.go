package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// openForm opens the add/edit modal on the active tab, pre-filled with values.
func (m *Model) openForm(values []string) tea.Cmd {
	s := m.current().screen
	fields := s.Fields()

	inputs := make([]textinput.Model, len(fields))
	for i, field := range fields {
		in := textinput.New()
		in.Placeholder = field.Placeholder
		in.CharLimit = field.CharLimit
		in.Width = FormInputWidth
		if i < len(values) {
			in.SetValue(values[i])
		}
		inputs[i] = in
	}

	m.form = &formState{tab: m.active, inputs: inputs}
	m.notice = notice{}
	if len(inputs) == 0 {
		return nil
	}
	return m.form.inputs[0].Focus()
}

func (f *formState) values() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = in.Value()
	}
	return out
}

// renderForm renders the add/edit modal.
func (m Model) renderForm() string {
	styles := m.theme.Styles()
	f := m.form
	s := m.tabs[f.tab].screen

	var b strings.Builder

	title := fmt.Sprintf("New %s", s.Noun())
	if f.edit {
		title = fmt.Sprintf("Edit %s #%s", s.Noun(), f.id)
	}
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 40)))
	b.WriteString("\n\n")

	fields := s.Fields()
	labelWidth := 0
	for _, field := range fields {
		labelWidth = max(labelWidth, len(field.Label)+2)
	}
	for i, field := range fields {
		label := fmt.Sprintf("%-*s", labelWidth, field.Label+":")
		if i == f.focus {
			label = styles.AccentText.Render(label)
		} else {
			label = styles.MutedText.Render(label)
		}
		b.WriteString(label)
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}

	switch {
	case f.submitting:
		b.WriteString(styles.WarningText.Render(m.spinner.View() + " Saving..."))
		b.WriteString("\n\n")
	case m.notice.isErr && m.notice.text != "":
		b.WriteString(styles.DangerText.Render(m.notice.text))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.FaintText.Render("enter save · tab next field · esc cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(ModalWidth).
		Render(b.String())

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// renderConfirm renders the delete confirmation dialog.
func (m Model) renderConfirm() string {
	styles := m.theme.Styles()
	c := m.confirm
	s := m.tabs[c.tab].screen

	var b strings.Builder
	b.WriteString(styles.DangerText.Render(fmt.Sprintf("Delete %s?", s.Noun())))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(strings.Join(c.row.Cells, " · ")))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("y") + styles.MutedText.Render(" delete   "))
	b.WriteString(styles.AccentText.Render("n") + styles.MutedText.Render(" keep"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Danger)).
		Padding(1, 2).
		Width(ModalWidth).
		Render(b.String())

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
