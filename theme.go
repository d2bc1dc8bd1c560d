package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ---------------------------------------------------------------------------
// Styling
// ---------------------------------------------------------------------------

// namedColors maps the config's color names to ANSI256 values.
var namedColors = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"cyan":    "6",
	"white":   "7",
	"gray":    "245",
}

type theme struct {
	title     lipgloss.Style
	tab       lipgloss.Style
	tabActive lipgloss.Style

	keyInfo      lipgloss.Style
	userInfo     lipgloss.Style
	selected     lipgloss.Style
	defaultKey   lipgloss.Style
	promptInput  lipgloss.Style
	promptOK     lipgloss.Style
	promptWarn   lipgloss.Style
	promptErr    lipgloss.Style
	optionsFrame lipgloss.Style
	optionPick   lipgloss.Style
	modeTag      lipgloss.Style
	splash       lipgloss.Style
}

// newTheme builds the style set. Style "plain" and terminals without
// color support both render unstyled.
func newTheme(style, color string) theme {
	colored := style == "colored" && termenv.ColorProfile() != termenv.Ascii
	var t theme
	if !colored {
		plain := lipgloss.NewStyle()
		t.title, t.tab, t.tabActive = plain, plain, plain.Bold(true)
		t.keyInfo, t.userInfo, t.defaultKey = plain, plain, plain
		t.selected = plain.Reverse(true)
		t.promptInput, t.promptOK, t.promptWarn, t.promptErr = plain, plain, plain, plain
		t.optionsFrame = plain.Border(lipgloss.NormalBorder()).Padding(0, 1)
		t.optionPick = plain.Reverse(true)
		t.modeTag = plain.Bold(true)
		t.splash = plain
		return t
	}

	accentName := strings.ToLower(color)
	code, ok := namedColors[accentName]
	if !ok {
		code = namedColors["gray"]
	}
	accent := lipgloss.Color(code)

	t.title = lipgloss.NewStyle().Bold(true).Foreground(accent)
	t.tab = lipgloss.NewStyle().Faint(true)
	t.tabActive = lipgloss.NewStyle().Bold(true).Foreground(accent)
	t.keyInfo = lipgloss.NewStyle().Foreground(accent)
	t.userInfo = lipgloss.NewStyle()
	t.selected = lipgloss.NewStyle().Reverse(true)
	t.defaultKey = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	t.promptInput = lipgloss.NewStyle().Bold(true)
	t.promptOK = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	t.promptWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	t.promptErr = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	t.optionsFrame = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1)
	t.optionPick = lipgloss.NewStyle().Reverse(true)
	t.modeTag = lipgloss.NewStyle().Bold(true).Foreground(accent)
	t.splash = lipgloss.NewStyle().Foreground(accent)
	return t
}

func (t theme) promptStyle(o outputType) lipgloss.Style {
	switch o {
	case outputSuccess, outputAction:
		return t.promptOK
	case outputWarning:
		return t.promptWarn
	case outputFailure:
		return t.promptErr
	default:
		return t.promptInput
	}
}
