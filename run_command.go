package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/keyrig/keyrig/internal/gpg"
)

// ---------------------------------------------------------------------------
// Command execution
// ---------------------------------------------------------------------------

// runCommand applies a parsed command to the model. Engine-backed
// operations return worker commands instead of blocking here; at most
// one engine operation runs at a time.
func (m model) runCommand(cmd command) (tea.Model, tea.Cmd) {
	if m.busy && isEngineCommand(cmd) {
		m.setWarning("an operation is already in progress")
		return m, nil
	}

	switch cmd := cmd.(type) {
	case cmdNone:
		m.prompt.clear()
		return m, nil

	case cmdQuit:
		m.exiting = true
		return m, tea.Quit

	case cmdConfirm:
		if _, ok := cmd.inner.(cmdNone); ok {
			return m, nil
		}
		m.pending = m.resolveSelected(cmd.inner)
		m.prompt.setOutput(outputAction, m.pending.describe()+"? (y/n)")
		return m, nil

	case cmdRefresh:
		return m, m.reloadKeyrings()

	case cmdRefreshKeys:
		m.busy = true
		return m, refreshKeysCmd(m.repo.engine)

	case cmdList:
		m.repo.setActive(cmd.keyType)
		m.table.reset(buildRowGroups(m.repo.keys(), m.rows))
		return m, nil

	case cmdImport:
		if len(cmd.paths) == 0 {
			// No paths given; pick files with the configured explorer.
			return m, pickImportFilesCmd(m.config.General.FileExplorer)
		}
		m.busy = true
		return m, importCmd(m.repo.engine, cmd.paths)

	case cmdImportClip:
		m.busy = true
		return m, importClipboardCmd(m.repo.engine)

	case cmdExport:
		patterns := cmd.patterns
		if len(patterns) == 0 {
			key, ok := m.selectedKey()
			if !ok {
				m.setWarning("no key selected")
				return m, nil
			}
			patterns = []string{key.Fingerprint()}
		}
		m.busy = true
		return m, exportCmd(m.repo.engine, cmd.keyType, patterns)

	case cmdDelete:
		keyType, keyID := cmd.keyType, cmd.keyID
		if keyID == "" {
			key, ok := m.selectedKey()
			if !ok {
				m.setWarning("no key selected")
				return m, nil
			}
			keyType, keyID = m.repo.active, key.Fingerprint()
		}
		m.busy = true
		return m, deleteCmd(m.repo.engine, keyType, keyID)

	case cmdSign:
		keyID, ok := m.targetKeyID(cmd.keyID)
		if !ok {
			return m, nil
		}
		m.busy = true
		return m, signCmd(m.repo.engine, keyID, m.config.Gpg.DefaultKey)

	case cmdEdit:
		keyID, ok := m.targetKeyID(cmd.keyID)
		if !ok {
			return m, nil
		}
		m.busy = true
		return m, editKeyCmd(m.repo.engine, keyID)

	case cmdGenerate:
		m.busy = true
		return m, generateKeyCmd(m.repo.engine)

	case cmdReceive:
		m.busy = true
		return m, receiveCmd(m.repo.engine, cmd.keyIDs)

	case cmdSend:
		keyID, ok := m.targetKeyID(cmd.keyID)
		if !ok {
			return m, nil
		}
		m.busy = true
		return m, sendCmd(m.repo.engine, keyID)

	case cmdCopy:
		return m.runCopy(cmd.target)

	case cmdPaste:
		return m, pasteCmd()

	case cmdToggleDetail:
		if cmd.all {
			m.rows.level = m.rows.level.next()
			m.rows.overrides = map[string]detailLevel{}
		} else {
			key, ok := m.selectedKey()
			if !ok {
				m.setWarning("no key selected")
				return m, nil
			}
			// A second toggle removes the override and restores the
			// keyring-wide level.
			fpr := key.Fingerprint()
			if _, ok := m.rows.overrides[fpr]; ok {
				delete(m.rows.overrides, fpr)
			} else {
				m.rows.overrides[fpr] = m.rows.level.next()
			}
		}
		m.refreshTable()
		return m, nil

	case cmdSet:
		return m.runSet(cmd.option, cmd.value)

	case cmdGet:
		return m.runGet(cmd.option)

	case cmdSwitchMode:
		return m.switchMode(cmd.mode)

	case cmdSearch:
		m.prevMode = m.mode
		m.mode = modeSearch
		m.prompt.enable(searchPrefix, cmd.query)
		m.rows.query = cmd.query
		m.refreshTable()
		return m, nil

	case cmdInput:
		m.mode = modeCommand
		m.prompt.enable(commandPrefix, cmd.prefill)
		return m, nil

	case cmdNextTab, cmdPrevTab:
		// Two tabs; next and previous both flip.
		if m.repo.active == gpg.Public {
			m.repo.setActive(gpg.Secret)
		} else {
			m.repo.setActive(gpg.Public)
		}
		m.table.reset(buildRowGroups(m.repo.keys(), m.rows))
		return m, nil

	case cmdMinimize:
		m.rows.minimized = true
		m.refreshTable()
		return m, nil

	case cmdMaximize:
		m.rows.minimized = false
		m.refreshTable()
		return m, nil

	case cmdScroll:
		m.runScroll(cmd)
		return m, nil

	case cmdShowOptions:
		var key *gpg.Key
		if selected, ok := m.selectedKey(); ok {
			key = &selected
		}
		m.options = buildOptionsMenu(key, m.repo.active, m.rows.minimized)
		if m.mode != modeOptions {
			m.prevMode = m.mode
		}
		m.mode = modeOptions
		return m, nil

	case cmdShowOutput:
		m.prompt.setOutput(cmd.kind, cmd.message)
		return m, nil

	case cmdStyle:
		return m.runStyle(cmd.name)
	}
	return m, nil
}

// resolveSelected fills in the selected key for commands queued behind
// a confirmation, so the prompt names the actual target.
func (m *model) resolveSelected(cmd command) command {
	key, ok := m.selectedKey()
	if !ok {
		return cmd
	}
	switch c := cmd.(type) {
	case cmdDelete:
		if c.keyID == "" {
			c.keyType, c.keyID = m.repo.active, key.Fingerprint()
		}
		return c
	case cmdSend:
		if c.keyID == "" {
			c.keyID = key.Fingerprint()
		}
		return c
	}
	return cmd
}

// targetKeyID resolves a command's key argument: explicit IDs are
// looked up in the loaded keyrings and widened to the fingerprint when
// known, an empty argument means the selected key.
func (m *model) targetKeyID(arg string) (string, bool) {
	if arg != "" {
		if key, ok := m.repo.find(arg); ok {
			return key.Fingerprint(), true
		}
		return arg, true
	}
	key, ok := m.selectedKey()
	if !ok {
		m.setWarning("no key selected")
		return "", false
	}
	return key.Fingerprint(), true
}

func (m *model) selectedKey() (gpg.Key, bool) {
	group := m.table.selectedGroup()
	if group == nil {
		return gpg.Key{}, false
	}
	return group.key, true
}

func isEngineCommand(cmd command) bool {
	switch cmd.(type) {
	case cmdRefresh, cmdRefreshKeys, cmdImport, cmdImportClip, cmdExport,
		cmdDelete, cmdSign, cmdEdit, cmdGenerate, cmdReceive, cmdSend, cmdPaste:
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// Mode switching
// ---------------------------------------------------------------------------

func (m model) switchMode(mode appMode) (tea.Model, tea.Cmd) {
	if mode == modeCopy {
		if _, ok := m.selectedKey(); !ok {
			m.setWarning("no key selected")
			return m, nil
		}
	}
	if mode != m.mode && (mode == modeCopy || mode == modeOptions) {
		m.prevMode = m.mode
	}
	m.mode = mode
	if mode == modeNormal {
		m.prompt.clear()
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Copy targets
// ---------------------------------------------------------------------------

func (m model) runCopy(target copyTarget) (tea.Model, tea.Cmd) {
	key, ok := m.selectedKey()
	if !ok {
		m.setWarning("no key selected")
		return m, nil
	}
	group := m.table.selectedGroup()
	if m.mode == modeCopy {
		m.mode = modeNormal
	}

	// The exported key comes from the engine; everything else is
	// already on screen.
	if target == copyKey {
		if m.selectActive {
			m.busy = true
			return m, selectExportCmd(m.repo.engine, m.repo.active, key.Fingerprint())
		}
		m.busy = true
		engine, keyType, fpr := m.repo.engine, m.repo.active, key.Fingerprint()
		return m, func() tea.Msg {
			data, err := engine.ExportBytes(keyType, fpr)
			if err != nil {
				return copyDoneMsg{err: err}
			}
			return copyToClipboardMsg{text: string(data), what: target.String()}
		}
	}

	var value string
	switch target {
	case copyKeyID:
		value = key.ID()
	case copyFingerprint:
		value = key.Fingerprint()
	case copyUserID:
		if len(key.UserIDs) > 0 {
			value = key.UserIDs[0].String()
		}
	case copyRow1:
		value = strings.Join(group.keyInfo, "\n")
	case copyRow2:
		value = strings.Join(group.userInfo, "\n")
	}
	if m.selectActive {
		m.selectOutput = value
		return m, tea.Quit
	}
	return m, copyCmd(value, target.String())
}

type copyToClipboardMsg struct {
	text string
	what string
}

type selectResolvedMsg struct {
	value string
	err   error
}

func selectExportCmd(engine *gpg.Context, keyType gpg.KeyType, pattern string) tea.Cmd {
	return func() tea.Msg {
		data, err := engine.ExportBytes(keyType, pattern)
		return selectResolvedMsg{value: string(data), err: err}
	}
}

// ---------------------------------------------------------------------------
// set / get options
// ---------------------------------------------------------------------------

func (m model) runSet(option, value string) (tea.Model, tea.Cmd) {
	switch option {
	case "armor":
		switch value {
		case "toggle", "":
			m.repo.engine.Armor = !m.repo.engine.Armor
		case "true", "yes", "on":
			m.repo.engine.Armor = true
		case "false", "no", "off":
			m.repo.engine.Armor = false
		default:
			m.setError(&userError{msg: fmt.Sprintf("invalid armor value %q", value)})
			return m, nil
		}
		m.setStatus("armor: " + boolWord(m.repo.engine.Armor))
		return m, nil

	case "color":
		m.config.General.Color = value
		m.theme = newTheme(m.config.General.Style, value)
		m.setStatus("color: " + value)
		return m, nil

	case "style":
		return m.runStyle(value)

	case "detail", "level":
		level, err := parseDetailLevel(value)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.rows.level = level
		m.rows.overrides = map[string]detailLevel{}
		m.refreshTable()
		m.setStatus("detail: " + level.String())
		return m, nil

	case "margin":
		if value == "toggle" || value == "" {
			m.margin = !m.margin
		} else {
			m.margin = value == "true" || value == "1"
		}
		return m, nil

	case "size", "minimize", "minimized":
		if value == "toggle" || value == "" {
			m.rows.minimized = !m.rows.minimized
		} else {
			m.rows.minimized = value == "true" || value == "minimized"
		}
		m.refreshTable()
		return m, nil

	case "tick", "tick_rate":
		// The tick rate only changes through the config file, where
		// the reload path validates it.
		m.setError(&userError{msg: "tick rate is read-only; edit the config file"})
		return m, nil
	}
	m.setError(&userError{msg: fmt.Sprintf("unknown option %q", option)})
	return m, nil
}

func (m model) runGet(option string) (tea.Model, tea.Cmd) {
	var value string
	switch option {
	case "armor":
		value = boolWord(m.repo.engine.Armor)
	case "color":
		value = m.config.General.Color
	case "style":
		value = m.config.General.Style
	case "detail", "level":
		value = m.rows.level.String()
	case "margin":
		value = boolWord(m.margin)
	case "size", "minimize", "minimized":
		if m.rows.minimized {
			value = "minimized"
		} else {
			value = "maximized"
		}
	case "mode":
		value = m.mode.String()
	case "tick", "tick_rate":
		value = fmt.Sprintf("%dms", m.config.General.TickRate)
	default:
		m.setError(&userError{msg: fmt.Sprintf("unknown option %q", option)})
		return m, nil
	}
	m.setStatus(option + ": " + value)
	return m, nil
}

func (m model) runStyle(name string) (tea.Model, tea.Cmd) {
	switch name {
	case "toggle":
		if m.config.General.Style == "plain" {
			name = "colored"
		} else {
			name = "plain"
		}
	case "plain", "colored":
	default:
		m.setError(&userError{msg: fmt.Sprintf("invalid style %q", name)})
		return m, nil
	}
	m.config.General.Style = name
	m.theme = newTheme(name, m.config.General.Color)
	m.setStatus("style: " + name)
	return m, nil
}

func boolWord(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

// ---------------------------------------------------------------------------
// Scrolling
// ---------------------------------------------------------------------------

func (m *model) runScroll(cmd cmdScroll) {
	if cmd.row {
		switch cmd.direction {
		case "right":
			m.table.scrollRow(cmd.amount)
		case "left":
			m.table.scrollRow(-cmd.amount)
		}
		return
	}
	switch cmd.direction {
	case "up":
		m.table.previous(cmd.amount)
	case "down":
		m.table.next(cmd.amount)
	case "top":
		m.table.top()
	case "bottom":
		m.table.bottom()
	}
}
