package main

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ---------------------------------------------------------------------------
// Command and search input
// ---------------------------------------------------------------------------

// handlePromptKey edits the active prompt. Search filters the table
// live on every edit; a command line only acts on enter.
func (m model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any edit clears a parse error left by a rejected line.
	m.inputError = ""

	switch msg.String() {
	case "esc", "ctrl+c":
		m.prompt.clear()
		m.mode = modeNormal
		if m.rows.query != "" {
			m.rows.query = ""
			m.refreshTable()
		}
		return m, nil

	case "enter":
		if m.mode == modeSearch {
			// Keep the filter applied and return to navigation.
			m.prompt.clear()
			m.mode = modeNormal
			return m, nil
		}
		line := m.prompt.text
		cmd, err := parseCommand(line)
		if err != nil {
			// The line stays on the prompt for correction; the error
			// shows beside it until the next edit.
			m.inputError = err.Error()
			return m, nil
		}
		m.prompt.remember(line)
		m.prompt.clear()
		m.mode = modeNormal
		return m.runCommand(cmd)

	case "up":
		if m.mode == modeCommand {
			m.prompt.previousFromHistory()
		}
		return m, nil

	case "down":
		if m.mode == modeCommand {
			m.prompt.nextFromHistory()
		}
		return m, nil

	case "backspace":
		m.prompt.backspace()
		if !m.prompt.isInput() {
			m.mode = modeNormal
		}
		if m.mode == modeSearch || m.rows.query != m.prompt.searchQuery() {
			m.rows.query = m.prompt.searchQuery()
			m.refreshTable()
		}
		return m, nil

	case "tab":
		// Switch between command and search input in place.
		if m.mode == modeCommand {
			m.mode = modeSearch
			m.prompt.enable(searchPrefix, "")
		} else {
			m.mode = modeCommand
			m.prompt.enable(commandPrefix, "")
			m.rows.query = ""
			m.refreshTable()
		}
		return m, nil
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		for _, r := range msg.Runes {
			m.prompt.typeRune(r)
		}
		if msg.Type == tea.KeySpace {
			m.prompt.typeRune(' ')
		}
		if m.mode == modeSearch {
			m.rows.query = m.prompt.searchQuery()
			m.refreshTable()
		}
	}
	return m, nil
}
