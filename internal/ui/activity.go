package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/listkeeper/internal/logtail"
)

// activityState backs the log overlay.
type activityState struct {
	lines   []string
	err     error
	loading bool
}

type activityMsg struct {
	lines []string
	err   error
}

func (m *Model) openActivity() tea.Cmd {
	if m.logPath == "" {
		return m.notify("Logging is disabled (log_file is empty)", false)
	}
	m.activity = &activityState{loading: true}
	return loadActivityCmd(m.logPath)
}

func loadActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Tail(path, ActivityLines)
		return activityMsg{lines: lines, err: err}
	}
}

// handleActivityKey reloads on r and closes on anything else.
func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Refresh) {
		m.activity.loading = true
		return m, loadActivityCmd(m.logPath)
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.activity = nil
	return m, nil
}

// renderActivity shows the newest log lines that fit on screen.
func (m Model) renderActivity() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	a := m.activity
	height := m.height - 1
	visible := max(height-2, 0)
	innerWidth := max(m.width-2, 0)

	var lines []string
	switch {
	case a.err != nil:
		lines = []string{styles.DangerText.Render(truncate(a.err.Error(), innerWidth))}
	case len(a.lines) == 0 && !a.loading:
		lines = []string{styles.MutedText.Render("No activity logged yet.")}
	default:
		start := max(len(a.lines)-visible, 0)
		for _, line := range a.lines[start:] {
			style := styles.Text
			if logtail.Classify(line) == logtail.Failure {
				style = styles.DangerText
			}
			lines = append(lines, style.Render(truncate(line, innerWidth)))
		}
	}

	box := m.renderTitledBox("Activity · "+truncateMiddle(m.logPath, 50), strings.Join(lines, "\n"), m.width, height, true)

	bar := NewBgStyle(m.theme.Surface)
	barStyles := m.theme.Styles().WithBackground(m.theme.Surface)
	hint := bar.Render("r", barStyles.AccentText) + bar.Sep(":") + bar.Render("Reload", barStyles.MutedText) +
		bar.Spaces(2) + bar.Render("any key", barStyles.AccentText) + bar.Sep(":") + bar.Render("Close", barStyles.MutedText)
	footer := barStyles.Header.Width(m.width).Render(hint)

	return lipgloss.JoinVertical(lipgloss.Left, box, footer)
}
