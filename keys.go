package main

import "strings"

// ---------------------------------------------------------------------------
// Keybinding registry: actions are colon commands, keys are data.
// Nothing in the dispatch path hardwires a physical key to an action;
// handlers only ever ask the registry what a key means in a mode.
// ---------------------------------------------------------------------------

type binding struct {
	// Keys are bubbletea key names ("q", "ctrl+r", "shift+tab").
	Keys []string
	// Command is the colon-command the binding runs.
	Command string
	Help    string
	// Modes the binding applies to; empty means normal and visual.
	Modes []string
}

type keyRegistry struct {
	byMode map[string]map[string]*binding
	order  []*binding
}

const (
	bindModeNormal  = "normal"
	bindModeVisual  = "visual"
	bindModeCopy    = "copy"
	bindModeOptions = "options"
)

func newKeyRegistry() *keyRegistry {
	r := &keyRegistry{byMode: make(map[string]map[string]*binding)}
	for _, b := range defaultBindings() {
		r.register(b)
	}
	return r
}

// register adds a binding, overriding earlier ones on key conflicts so
// config-supplied bindings win over the defaults.
func (r *keyRegistry) register(b binding) {
	modes := b.Modes
	if len(modes) == 0 {
		modes = []string{bindModeNormal, bindModeVisual}
	}
	stored := b
	stored.Modes = modes
	r.order = append(r.order, &stored)
	for _, mode := range modes {
		if r.byMode[mode] == nil {
			r.byMode[mode] = make(map[string]*binding)
		}
		for _, key := range stored.Keys {
			r.byMode[mode][normalizeChord(key)] = &stored
		}
	}
}

// normalizeChord canonicalizes multi-key chord names ("Ctrl+R",
// "Shift+Tab") without touching single runes: g and G are distinct
// keys.
func normalizeChord(key string) string {
	if len([]rune(key)) == 1 {
		return key
	}
	return strings.ToLower(key)
}

// lookup resolves a key press in a mode to its command string.
func (r *keyRegistry) lookup(mode, key string) (string, bool) {
	m := r.byMode[mode]
	if m == nil {
		return "", false
	}
	b, ok := m[normalizeChord(key)]
	if !ok {
		return "", false
	}
	return b.Command, true
}

// bindings returns every registered binding in registration order.
func (r *keyRegistry) bindings() []*binding {
	return r.order
}

// helpLine summarizes a mode's bindings as "keys help" pairs, in
// registration order, for the options popup footer.
func (r *keyRegistry) helpLine(mode string) string {
	var parts []string
	for _, b := range r.bindings() {
		for _, m := range b.Modes {
			if m == mode {
				parts = append(parts, strings.Join(b.Keys, "/")+" "+b.Help)
				break
			}
		}
	}
	return strings.Join(parts, "  ")
}

// defaultBindings is the stock keymap. The config file can extend or
// shadow any entry.
func defaultBindings() []binding {
	return []binding{
		{Keys: []string{"o", " ", "enter"}, Command: ":options", Help: "show options"},
		{Keys: []string{"up", "k"}, Command: ":scroll up 1", Help: "previous row"},
		{Keys: []string{"down", "j"}, Command: ":scroll down 1", Help: "next row"},
		{Keys: []string{"alt+right", "alt+l"}, Command: ":scroll row right 1", Help: "scroll row right"},
		{Keys: []string{"alt+left", "alt+h"}, Command: ":scroll row left 1", Help: "scroll row left"},
		{Keys: []string{"pgup"}, Command: ":scroll up 5", Help: "page up"},
		{Keys: []string{"pgdown"}, Command: ":scroll down 5", Help: "page down"},
		{Keys: []string{"g", "home"}, Command: ":scroll top", Help: "jump to first row"},
		{Keys: []string{"G", "end"}, Command: ":scroll bottom", Help: "jump to last row"},
		{Keys: []string{"tab"}, Command: ":next", Help: "next tab"},
		{Keys: []string{"shift+tab"}, Command: ":previous", Help: "previous tab"},
		{Keys: []string{"n"}, Command: ":normal", Help: "switch to normal mode"},
		{Keys: []string{"v"}, Command: ":visual", Help: "switch to visual mode"},
		{Keys: []string{"c"}, Command: ":copy", Help: "switch to copy mode"},
		{Keys: []string{"p", "ctrl+v"}, Command: ":paste", Help: "paste from clipboard"},
		{Keys: []string{"x"}, Command: ":export", Help: "export the selected key"},
		{Keys: []string{"s"}, Command: ":sign", Help: "sign the selected key"},
		{Keys: []string{"e"}, Command: ":edit", Help: "edit the selected key"},
		{Keys: []string{"i"}, Command: ":input import ", Help: "import key(s)"},
		{Keys: []string{"I"}, Command: ":import-clipboard", Help: "import from clipboard"},
		{Keys: []string{"f"}, Command: ":input receive ", Help: "receive key(s)"},
		{Keys: []string{"u"}, Command: ":confirm send", Help: "send the selected key"},
		{Keys: []string{"d", "backspace"}, Command: ":confirm delete", Help: "delete the selected key"},
		{Keys: []string{"ctrl+g"}, Command: ":generate", Help: "generate a new key pair"},
		{Keys: []string{"ctrl+r"}, Command: ":refresh keys", Help: "refresh keys from keyserver"},
		{Keys: []string{"a"}, Command: ":set armor toggle", Help: "toggle armored output"},
		{Keys: []string{"1"}, Command: ":set detail minimum", Help: "minimum detail"},
		{Keys: []string{"2"}, Command: ":set detail standard", Help: "standard detail"},
		{Keys: []string{"3"}, Command: ":set detail full", Help: "full detail"},
		{Keys: []string{"t"}, Command: ":toggle", Help: "toggle detail (selected)"},
		{Keys: []string{"T"}, Command: ":toggle all", Help: "toggle detail (all)"},
		{Keys: []string{"`"}, Command: ":set margin toggle", Help: "toggle table margin"},
		{Keys: []string{"m"}, Command: ":set size toggle", Help: "toggle table size"},
		{Keys: []string{"ctrl+s"}, Command: ":style toggle", Help: "toggle style"},
		{Keys: []string{"/"}, Command: ":search", Help: "search"},
		{Keys: []string{":"}, Command: ":input", Help: "run command"},
		{Keys: []string{"r", "f5"}, Command: ":refresh", Help: "refresh the application"},
		{Keys: []string{"q", "ctrl+c", "esc"}, Command: ":quit", Help: "quit"},

		// Copy mode targets.
		{Keys: []string{"x"}, Command: ":copy key", Help: "copy exported key", Modes: []string{bindModeCopy}},
		{Keys: []string{"i"}, Command: ":copy key_id", Help: "copy key ID", Modes: []string{bindModeCopy}},
		{Keys: []string{"f"}, Command: ":copy key_fingerprint", Help: "copy fingerprint", Modes: []string{bindModeCopy}},
		{Keys: []string{"u"}, Command: ":copy key_user_id", Help: "copy user ID", Modes: []string{bindModeCopy}},
		{Keys: []string{"1"}, Command: ":copy row1", Help: "copy table row (1)", Modes: []string{bindModeCopy}},
		{Keys: []string{"2"}, Command: ":copy row2", Help: "copy table row (2)", Modes: []string{bindModeCopy}},
		{Keys: []string{"c", "q", "esc", "ctrl+c"}, Command: ":normal", Help: "back to normal mode", Modes: []string{bindModeCopy}},

		// Options menu.
		{Keys: []string{"up", "k"}, Command: ":scroll up 1", Help: "previous option", Modes: []string{bindModeOptions}},
		{Keys: []string{"down", "j"}, Command: ":scroll down 1", Help: "next option", Modes: []string{bindModeOptions}},
		{Keys: []string{"enter", " ", "o"}, Command: ":options", Help: "run option", Modes: []string{bindModeOptions}},
		{Keys: []string{"q", "esc", "ctrl+c"}, Command: ":normal", Help: "close options", Modes: []string{bindModeOptions}},
	}
}
