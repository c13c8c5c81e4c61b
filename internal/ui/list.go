package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderList renders the active tab's records inside a titled box.
func (m Model) renderList(height int) string {
	t := m.current()
	rows := t.screen.Rows()
	title := fmt.Sprintf("%s (%d)", t.screen.Title(), len(rows))

	// The pane dims while a sync is outstanding.
	focused := !m.busy(m.active)
	bgColor := m.theme.SurfaceAlt
	if focused {
		bgColor = m.theme.FocusBg
	}
	innerWidth := m.width - 2
	visible := height - 2

	if len(rows) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(bgColor)).
			Render(fmt.Sprintf("No %ss yet. Press a to add one.", t.screen.Noun()))
		return m.renderTitledBox(title, empty, m.width, height, focused)
	}

	offset := scrollOffset(t.selected, len(rows), visible)
	end := min(len(rows), offset+visible)

	lines := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		selected := i == t.selected
		lineBg := bgColor
		if selected {
			lineBg = m.theme.SelectionBg
		}
		content := m.formatRow(rows[i], innerWidth, lineBg, selected)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(lineBg)).
			Width(innerWidth).
			Render(content))
	}
	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, height, focused)
}

// scrollOffset returns the first visible row so that selected stays in view.
func scrollOffset(selected, total, visible int) int {
	if visible <= 0 || total <= visible {
		return 0
	}
	offset := selected - visible + 1
	if offset < 0 {
		offset = 0
	}
	if offset > total-visible {
		offset = total - visible
	}
	return offset
}

// formatRow formats a record row: "#ID First · Second".
// When selected is true, uses SelectionText for all text to ensure contrast.
func (m Model) formatRow(row Row, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)

	var idStyle, textStyle, sepStyle, detailStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		idStyle, textStyle, sepStyle, detailStyle = selText, selText, selText, selText
	} else {
		styles := m.theme.Styles()
		idStyle = styles.MutedText
		textStyle = styles.Text
		sepStyle = styles.FaintText
		detailStyle = styles.AccentText
	}

	idStr := "#" + row.ID.String()
	out := bg.Render(idStr, idStyle)
	if len(row.Cells) == 0 {
		return out
	}

	detail := strings.Join(row.Cells[1:], " · ")
	nameWidth := max(width-len(idStr)-len([]rune(detail))-5, 10)
	out += bg.Space() + bg.Render(truncate(row.Cells[0], nameWidth), textStyle)
	if detail != "" {
		out += bg.Render(" · ", sepStyle) + bg.Render(detail, detailStyle)
	}
	return out
}

// renderTitledBox renders content in a box with the title embedded in the top border:
// ┌─── Title ───┐
// When focused is true, uses BorderFocus color and FocusBg background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-2, 0))
	titleLen := len([]rune(title))
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	lines := make([]string, 0, max(boxHeight, 0))
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}
