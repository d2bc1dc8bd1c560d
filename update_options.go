package main

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ---------------------------------------------------------------------------
// Options menu handling
// ---------------------------------------------------------------------------

// handleOptionsKey drives the popup menu. While the menu is open,
// scroll commands move the highlight and :options runs the
// highlighted entry.
func (m model) handleOptionsKey(key string) (tea.Model, tea.Cmd) {
	line, ok := m.registry.lookup(bindModeOptions, key)
	if !ok {
		return m, nil
	}
	cmd, err := parseCommand(line)
	if err != nil {
		m.setError(err)
		return m, nil
	}

	switch cmd := cmd.(type) {
	case cmdScroll:
		switch cmd.direction {
		case "up":
			m.options.previous()
		case "down":
			m.options.next()
		}
		return m, nil

	case cmdShowOptions:
		item, ok := m.options.current()
		if !ok {
			return m, nil
		}
		m.mode = m.prevMode
		inner, err := parseCommand(item.command)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		return m.runCommand(inner)

	default:
		return m.runCommand(cmd)
	}
}
