package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// ---------------------------------------------------------------------------
// Application configuration (TOML-based)
// ---------------------------------------------------------------------------

type generalConfig struct {
	Splash       bool   `toml:"splash"`
	TickRate     int    `toml:"tick_rate"` // milliseconds
	Color        string `toml:"color"`
	Style        string `toml:"style"` // plain | colored
	FileExplorer string `toml:"file_explorer"`
	DetailLevel  string `toml:"detail_level"`
}

type gpgConfig struct {
	Armor      bool   `toml:"armor"`
	Homedir    string `toml:"homedir"`
	Outdir     string `toml:"outdir"`
	Outfile    string `toml:"outfile"`
	DefaultKey string `toml:"default_key"`
}

// keybindingConfig maps a set of keys to a colon command, optionally
// restricted to specific modes.
type keybindingConfig struct {
	Keys    []string `toml:"keys"`
	Command string   `toml:"command"`
	Modes   []string `toml:"modes"`
}

type appConfig struct {
	General     generalConfig      `toml:"general"`
	Gpg         gpgConfig          `toml:"gpg"`
	Keybindings []keybindingConfig `toml:"keybinding"`
}

const defaultConfigTOML = `# keyrig configuration

[general]
splash = false
tick_rate = 250
color = "gray"
style = "plain"
file_explorer = "xplr"
detail_level = "minimum"

[gpg]
armor = false
homedir = ""
outdir = ""
outfile = "{type}_{query}.{ext}"
default_key = ""

# Custom key bindings run a colon command, e.g.:
# [[keybinding]]
# keys = ["y"]
# command = ":refresh"
`

func defaultConfig() appConfig {
	var cfg appConfig
	// The default file is the single source of default values.
	if _, err := toml.Decode(defaultConfigTOML, &cfg); err != nil {
		panic(fmt.Sprintf("invalid built-in config: %v", err))
	}
	return cfg
}

// configDir returns the keyrig config directory, honoring
// XDG_CONFIG_HOME via os.UserConfigDir.
func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "keyrig"), nil
}

func defaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "keyrig.toml"), nil
}

// loadConfig reads the config at path, writing the commented default
// file first when none exists. An empty path uses the default
// location.
func loadConfig(path string) (appConfig, string, error) {
	cfg := defaultConfig()
	if path == "" {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return cfg, "", err
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
				return cfg, path, fmt.Errorf("create config dir: %w", mkErr)
			}
			if wErr := os.WriteFile(path, []byte(defaultConfigTOML), 0o644); wErr != nil {
				return cfg, path, fmt.Errorf("write default config: %w", wErr)
			}
		}
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return defaultConfig(), path, fmt.Errorf("parse config: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return defaultConfig(), path, err
	}
	return cfg, path, nil
}

func validateConfig(cfg appConfig) error {
	if cfg.General.TickRate < 10 {
		return fmt.Errorf("tick_rate %dms is below the 10ms floor", cfg.General.TickRate)
	}
	switch cfg.General.Style {
	case "plain", "colored":
	default:
		return fmt.Errorf("invalid style %q", cfg.General.Style)
	}
	if _, err := parseDetailLevel(cfg.General.DetailLevel); err != nil {
		return err
	}
	for _, kb := range cfg.Keybindings {
		if len(kb.Keys) == 0 {
			return fmt.Errorf("keybinding for %q has no keys", kb.Command)
		}
		if _, err := parseCommand(kb.Command); err != nil {
			return fmt.Errorf("keybinding %v: %w", kb.Keys, err)
		}
	}
	return nil
}

// applyKeybindings registers the config's custom bindings on top of
// the defaults.
func applyKeybindings(reg *keyRegistry, cfg appConfig) {
	for _, kb := range cfg.Keybindings {
		reg.register(binding{
			Keys:    kb.Keys,
			Command: kb.Command,
			Help:    kb.Command,
			Modes:   kb.Modes,
		})
	}
}

func (c appConfig) tickInterval() time.Duration {
	return time.Duration(c.General.TickRate) * time.Millisecond
}

// ---------------------------------------------------------------------------
// Live reload
// ---------------------------------------------------------------------------

type configReloadedMsg struct {
	cfg appConfig
	err error
}

// newConfigWatcher watches the config file for writes. The returned
// watcher feeds waitForConfigChange commands; a nil watcher disables
// live reload.
func newConfigWatcher(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors replace the file, which drops a
	// watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// waitForConfigChange blocks on the watcher until the config file is
// rewritten, then reloads it. The update loop re-issues the command
// after each message.
func waitForConfigChange(watcher *fsnotify.Watcher, path string) tea.Cmd {
	if watcher == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Name != path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				// Editors write in bursts; give the file a moment to
				// settle before parsing.
				time.Sleep(50 * time.Millisecond)
				cfg, _, err := loadConfig(path)
				return configReloadedMsg{cfg: cfg, err: err}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return configReloadedMsg{err: err}
			}
		}
	}
}
