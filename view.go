package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/keyrig/keyrig/internal/gpg"
)

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

func (m model) View() string {
	if m.exiting {
		return ""
	}
	if m.mode == modeSplash {
		return m.viewSplash()
	}

	width, height := m.width, m.height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	header := m.viewHeader(width)
	footer := m.viewPrompt(width)

	bodyLines := height - 2 // header and prompt
	marginLines := 0
	if m.margin {
		marginLines = 1
	}

	var body string
	if m.mode == modeOptions {
		body = m.viewOptions(width, bodyLines)
	} else {
		body = m.viewTable(width, bodyLines, marginLines)
	}

	return header + "\n" + body + "\n" + footer
}

func (m model) viewHeader(width int) string {
	var pub, sec string
	if m.repo.active == gpg.Secret {
		pub = m.theme.tab.Render(" pub ")
		sec = m.theme.tabActive.Render("[sec]")
	} else {
		pub = m.theme.tabActive.Render("[pub]")
		sec = m.theme.tab.Render(" sec ")
	}
	title := m.theme.title.Render("keyrig")
	counts := ""
	if n := len(m.table.groups); n > 0 {
		counts = m.theme.tab.Render(fmt.Sprintf("%d/%d", m.table.selected+1, n))
	}
	left := title + "  " + pub + " " + sec
	return padBetween(left, counts, width)
}

// viewTable renders the visible slice of row groups as two aligned
// columns.
func (m *model) viewTable(width, lines, margin int) string {
	m.table.ensureVisible(lines, margin)
	groups := m.table.groups
	if len(groups) == 0 {
		return lipgloss.Place(width, lines, lipgloss.Center, lipgloss.Center,
			m.theme.tab.Render("no keys"))
	}

	// Key column width comes from the widest visible key-info line.
	keyWidth := 0
	for i := m.table.vscroll; i < len(groups); i++ {
		for _, line := range groups[i].keyInfo {
			if w := runewidth.StringWidth(line); w > keyWidth {
				keyWidth = w
			}
		}
	}

	var out []string
	for i := m.table.vscroll; i < len(groups) && len(out) < lines; i++ {
		g := groups[i]
		selected := i == m.table.selected
		offset := m.table.hscroll[i]
		for line := 0; line < g.height() && len(out) < lines; line++ {
			var keyCell, userCell string
			if line < len(g.keyInfo) {
				keyCell = shiftLeft(g.keyInfo[line], offset)
			}
			if line < len(g.userInfo) {
				userCell = shiftLeft(g.userInfo[line], offset)
			}
			keyCell = runewidth.FillRight(runewidth.Truncate(keyCell, keyWidth, ""), keyWidth)
			userCell = runewidth.Truncate(userCell, width-keyWidth-2, "")

			var row string
			switch {
			case selected:
				row = m.theme.selected.Render(
					runewidth.FillRight(keyCell+"  "+userCell, width))
			case g.key.IsDefault:
				row = m.theme.defaultKey.Render(keyCell) + "  " + m.theme.userInfo.Render(userCell)
			default:
				row = m.theme.keyInfo.Render(keyCell) + "  " + m.theme.userInfo.Render(userCell)
			}
			out = append(out, row)
		}
		if margin > 0 && len(out) < lines {
			out = append(out, "")
		}
	}
	for len(out) < lines {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

// viewOptions renders the popup menu centered in the body area.
func (m model) viewOptions(width, lines int) string {
	var rows []string
	for i, item := range m.options.items {
		label := item.label
		if i == m.options.selected {
			label = m.theme.optionPick.Render("> " + label + " ")
		} else {
			label = "  " + label
		}
		rows = append(rows, label)
	}
	menu := m.theme.optionsFrame.Render(strings.Join(rows, "\n"))
	help := m.theme.tab.Render(runewidth.Truncate(m.registry.helpLine(bindModeOptions), width, ""))
	box := lipgloss.JoinVertical(lipgloss.Center, menu, help)
	return lipgloss.Place(width, lines, lipgloss.Center, lipgloss.Center, box)
}

func (m model) viewPrompt(width int) string {
	left := m.prompt.text
	if m.prompt.outputType != outputNone && !m.prompt.isInput() {
		left = m.prompt.outputType.String() + left
	}
	left = m.promptStyleFor().Render(left)

	var right string
	switch {
	case m.inputError != "":
		right = m.theme.promptErr.Render(outputFailure.String() + m.inputError)
	case m.busy:
		right = m.spin.View() + m.theme.modeTag.Render("working")
	case m.mode == modeVisual:
		right = m.theme.modeTag.Render("-- VISUAL --")
	case m.mode == modeCopy:
		right = m.theme.modeTag.Render("-- COPY --")
	}
	return padBetween(left, right, width)
}

func (m model) promptStyleFor() lipgloss.Style {
	if m.prompt.isInput() {
		return m.theme.promptInput
	}
	return m.theme.promptStyle(m.prompt.outputType)
}

// shiftLeft drops the first n cells of a line, for horizontal row
// scrolling.
func shiftLeft(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if n >= len(runes) {
		return ""
	}
	return string(runes[n:])
}

// padBetween joins left and right with enough spaces to fill width,
// measuring printed cells, not bytes.
func padBetween(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
