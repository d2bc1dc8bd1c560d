package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/keyrig/keyrig/internal/gpg"
)

// ---------------------------------------------------------------------------
// Update loop
// ---------------------------------------------------------------------------

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		m.prompt.tick(time.Time(msg))
		if m.mode == modeSplash {
			m.splashFrames--
			if m.splashFrames <= 0 {
				m.mode = modeNormal
			}
		}
		return m, tickCmd(m.config.tickInterval())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case keysLoadedMsg:
		if m.loading > 0 {
			m.loading--
		}
		m.busy = m.loading > 0
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.repo.store(msg.keyType, msg.keys)
		// Fresh keyring contents invalidate per-key detail overrides.
		m.rows.overrides = make(map[string]detailLevel)
		if msg.keyType == m.repo.active {
			m.refreshTable()
		}
		return m, nil

	case engineDoneMsg:
		if msg.err != nil {
			m.busy = false
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus(msg.status)
		// Keyring contents changed; reload both tabs.
		return m, m.reloadKeyrings()

	case exportDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus("exported to " + msg.path)
		return m, nil

	case copyToClipboardMsg:
		m.busy = false
		return m, copyCmd(msg.text, msg.what)

	case selectResolvedMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.selectOutput = msg.value
		return m, tea.Quit

	case copyDoneMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus(msg.what + " copied to clipboard")
		return m, nil

	case pasteMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.busy = true
		return m, func() tea.Msg {
			n, err := m.repo.engine.ImportBytes([]byte(msg.content))
			return engineDoneMsg{op: "import", status: statusImported(n), err: err}
		}

	case filesPickedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if len(msg.paths) == 0 {
			m.setWarning("no file selected")
			return m, nil
		}
		m.busy = true
		return m, importCmd(m.repo.engine, msg.paths)

	case execDoneMsg:
		if msg.err != nil {
			m.busy = false
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus(msg.op + " finished")
		return m, m.reloadKeyrings()

	case configReloadedMsg:
		cmd := waitForConfigChange(m.watcher, m.configPath)
		if msg.err != nil {
			m.setError(msg.err)
			return m, cmd
		}
		m.applyConfig(msg.cfg)
		m.setStatus("configuration reloaded")
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// reloadKeyrings issues a load for both tabs and keeps the model busy
// until the last of them lands.
func (m *model) reloadKeyrings() tea.Cmd {
	m.loading = 2
	m.busy = true
	return tea.Batch(
		loadKeysCmd(m.repo.engine, gpg.Public),
		loadKeysCmd(m.repo.engine, gpg.Secret),
	)
}

// applyConfig swaps in a freshly loaded config. Bindings rebuild from
// scratch, so removed custom bindings stop working immediately.
func (m *model) applyConfig(cfg appConfig) {
	m.config = cfg
	registry := newKeyRegistry()
	applyKeybindings(registry, cfg)
	m.registry = registry
	m.theme = newTheme(cfg.General.Style, cfg.General.Color)
	if level, err := parseDetailLevel(cfg.General.DetailLevel); err == nil {
		m.rows.level = level
	}
	m.refreshTable()
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Any key dismisses the splash screen.
	if m.mode == modeSplash {
		m.mode = modeNormal
		return m, nil
	}

	// A pending confirmation swallows the next key: y runs the wrapped
	// command, anything else cancels it.
	if m.pending != nil {
		pending := m.pending
		m.pending = nil
		if key == "y" || key == "Y" || key == "enter" {
			return m.runCommand(pending)
		}
		m.prompt.clear()
		m.setWarning("cancelled: " + pending.describe())
		return m, nil
	}

	// In selection mode enter resolves the requested value for the
	// highlighted key and exits.
	if m.selectActive && key == "enter" && (m.mode == modeNormal || m.mode == modeVisual) {
		return m.runCommand(cmdCopy{target: m.selectTarget})
	}

	switch m.mode {
	case modeCommand, modeSearch:
		return m.handlePromptKey(msg)
	case modeOptions:
		return m.handleOptionsKey(key)
	case modeCopy:
		return m.handleBoundKey(bindModeCopy, key)
	case modeVisual:
		return m.handleBoundKey(bindModeVisual, key)
	default:
		return m.handleBoundKey(bindModeNormal, key)
	}
}

// handleBoundKey resolves a key through the registry and runs the
// bound colon command.
func (m model) handleBoundKey(mode, key string) (tea.Model, tea.Cmd) {
	line, ok := m.registry.lookup(mode, key)
	if !ok {
		return m, nil
	}
	cmd, err := parseCommand(line)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	return m.runCommand(cmd)
}

func statusImported(n int) string {
	if n == 1 {
		return "imported 1 key"
	}
	return fmt.Sprintf("imported %d keys", n)
}
