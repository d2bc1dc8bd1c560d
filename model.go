package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/keyrig/keyrig/internal/gpg"
)

// ---------------------------------------------------------------------------
// Modes
// ---------------------------------------------------------------------------

type appMode int

const (
	modeNormal appMode = iota
	modeVisual
	modeCopy
	modeCommand
	modeSearch
	modeOptions
	modeSplash
)

func (m appMode) String() string {
	switch m {
	case modeNormal:
		return "normal"
	case modeVisual:
		return "visual"
	case modeCopy:
		return "copy"
	case modeCommand:
		return "command"
	case modeSearch:
		return "search"
	case modeOptions:
		return "options"
	case modeSplash:
		return "splash"
	default:
		return "unknown"
	}
}

func parseAppMode(s string) (appMode, error) {
	switch s {
	case "normal", "n":
		return modeNormal, nil
	case "visual", "v":
		return modeVisual, nil
	case "copy", "c":
		return modeCopy, nil
	default:
		return modeNormal, &userError{msg: fmt.Sprintf("invalid mode: %q", s)}
	}
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type model struct {
	config     appConfig
	configPath string
	watcher    *fsnotify.Watcher

	repo     *keyRepository
	table    keyTable
	prompt   prompt
	registry *keyRegistry
	theme    theme

	mode     appMode
	prevMode appMode // mode to restore when copy/options close

	rows   rowOptions
	margin bool // one blank line around the table

	pending command       // confirmation pending a y/n answer
	busy    bool          // an engine worker is in flight
	loading int           // keyring loads still in flight
	spin    spinner.Model // busy indicator

	inputError string // parse failure shown next to the retained input

	options optionsMenu

	width  int
	height int

	splashFrames int

	// selection mode: print the chosen value and exit instead of
	// copying to the clipboard.
	selectTarget copyTarget
	selectActive bool
	selectOutput string

	exiting bool
}

func newModel(cfg appConfig, configPath string, engine *gpg.Context) model {
	registry := newKeyRegistry()
	applyKeybindings(registry, cfg)

	level := detailMinimum
	if parsed, err := parseDetailLevel(cfg.General.DetailLevel); err == nil {
		level = parsed
	}

	mode := modeNormal
	if cfg.General.Splash {
		mode = modeSplash
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return model{
		config:     cfg,
		configPath: configPath,
		repo:       newKeyRepository(engine, cfg.Gpg.DefaultKey),
		table:      newKeyTable(),
		registry:   registry,
		theme:      newTheme(cfg.General.Style, cfg.General.Color),
		mode:       mode,
		prevMode:   modeNormal,
		rows: rowOptions{
			level:     level,
			overrides: map[string]detailLevel{},
		},
		spin:         spin,
		loading:      2,
		splashFrames: splashFrameCount,
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		loadKeysCmd(m.repo.engine, gpg.Public),
		loadKeysCmd(m.repo.engine, gpg.Secret),
		tickCmd(m.config.tickInterval()),
		m.spin.Tick,
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForConfigChange(m.watcher, m.configPath))
	}
	return tea.Batch(cmds...)
}

// refreshTable rebuilds the row groups from the repository using the
// current render options.
func (m *model) refreshTable() {
	m.table.setGroups(buildRowGroups(m.repo.keys(), m.rows))
}

func (m *model) setStatus(text string) {
	m.prompt.setOutput(outputSuccess, text)
}

func (m *model) setWarning(text string) {
	m.prompt.setOutput(outputWarning, text)
}

func (m *model) setError(err error) {
	m.prompt.setOutput(outputFailure, err.Error())
}
