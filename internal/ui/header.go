package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the top status bar: logo, tabs and sync state.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("listkeeper", styles.Logo)}

	var tabs []string
	for i, t := range m.tabs {
		label := fmt.Sprintf("%s %d", t.screen.Title(), t.screen.Len())
		if i == m.active {
			tabs = append(tabs, bg.Render("["+label+"]", styles.AccentText.Bold(true)))
		} else {
			tabs = append(tabs, bg.Render(label, styles.MutedText))
		}
	}
	parts = append(parts, strings.Join(tabs, bg.Sep(" ")))

	s := m.current().screen
	if s.Remote() {
		parts = append(parts, bg.Render("REMOTE", styles.InfoText.Bold(true))+
			bg.Space()+bg.Render(truncateMiddle(s.Source(), 40), styles.FaintText))
	} else {
		parts = append(parts, bg.Render("MEMORY", styles.FaintText))
	}

	if m.busy(m.active) {
		sp := m.spinner
		sp.Style = styles.WarningText
		parts = append(parts, sp.View()+bg.Space()+bg.Render("SYNCING", styles.WarningText.Bold(true)))
	}

	if cs, ok := s.(cartScreen); ok {
		parts = append(parts, bg.Render(fmt.Sprintf("CART %d", cs.CartCount()), styles.SuccessText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(strings.Join(parts, sep))
}

// renderCommandBar renders the key hints bar.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	commands := []cmd{
		{"a", "Add"},
		{"e", "Edit"},
		{"d", "Delete"},
	}
	s := m.current().screen
	if _, ok := s.(cartScreen); ok {
		commands = append(commands, cmd{"c", "Cart"})
	}
	if s.Remote() {
		commands = append(commands, cmd{"r", "Reload"})
	}
	commands = append(commands,
		cmd{"j/k", "Navigate"},
		cmd{"L", "Log"},
		cmd{"Tab", "List"},
		cmd{"?", "More"},
		cmd{"q", "Quit"},
	)

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderNotice renders the notification line at the bottom of the screen.
func (m Model) renderNotice() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var text string
	switch {
	case m.notice.text == "":
	case m.notice.isErr:
		text = bg.Render(truncate(m.notice.text, m.width-2), styles.DangerText)
	default:
		text = bg.Render(truncate(m.notice.text, m.width-2), styles.SuccessText)
	}
	return styles.Header.Width(m.width).Render(text)
}

// truncate truncates a string to max runes with ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// truncateMiddle truncates a string in the middle, preserving start and end.
func truncateMiddle(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 5 {
		return string(r[:max])
	}
	// Keep more of the end (collection name) than the start
	endLen := (max - 3) * 2 / 3
	startLen := max - 3 - endLen
	return string(r[:startLen]) + "..." + string(r[len(r)-endLen:])
}
