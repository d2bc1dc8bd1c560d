package main

import (
	"github.com/charmbracelet/lipgloss"
)

// splashFrameCount is how many ticks the splash screen stays up before
// the table appears. Any key skips it.
const splashFrameCount = 4

var splashBanner = []string{
	`  _                    _       `,
	` | | _____ _   _ _ __(_) __ _ `,
	` | |/ / _ \ | | | '__| |/ _' |`,
	` |   <  __/ |_| | |  | | (_| |`,
	` |_|\_\___|\__, |_|  |_|\__, |`,
	`           |___/        |___/ `,
	``,
	`   a terminal for your keyring`,
}

func (m model) viewSplash() string {
	width, height := m.width, m.height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	banner := ""
	for i, line := range splashBanner {
		if i > 0 {
			banner += "\n"
		}
		banner += line
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		m.theme.splash.Render(banner))
}
