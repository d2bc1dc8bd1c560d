package main

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/keyrig/keyrig/internal/gpg"
)

// ---------------------------------------------------------------------------
// Typed commands
// ---------------------------------------------------------------------------

// command is a parsed action from the colon grammar. Descriptions feed
// the confirmation prompt and the options menu.
type command interface {
	describe() string
}

type (
	cmdNone    struct{}
	cmdQuit    struct{}
	cmdRefresh struct{}
	// cmdRefreshKeys asks the keyserver for updates to local keys.
	cmdRefreshKeys struct{}
	cmdList        struct{ keyType gpg.KeyType }
	cmdImport      struct{ paths []string }
	cmdImportClip  struct{}
	cmdExport      struct {
		keyType  gpg.KeyType
		patterns []string
	}
	cmdDelete struct {
		keyType gpg.KeyType
		keyID   string
	}
	cmdSign     struct{ keyID string }
	cmdEdit     struct{ keyID string }
	cmdGenerate struct{}
	cmdReceive  struct{ keyIDs []string }
	cmdSend     struct{ keyID string }
	cmdCopy     struct{ target copyTarget }
	cmdPaste    struct{}
	// cmdToggleDetail bumps the detail level of the selected key, or
	// of every key when all is set.
	cmdToggleDetail struct{ all bool }
	cmdSet          struct{ option, value string }
	cmdGet          struct{ option string }
	cmdSwitchMode   struct{ mode appMode }
	cmdSearch       struct{ query string }
	cmdNextTab      struct{}
	cmdPrevTab      struct{}
	cmdMinimize     struct{}
	cmdMaximize     struct{}
	cmdScroll       struct {
		direction string
		row       bool
		amount    int
	}
	cmdShowOptions struct{}
	cmdShowOutput  struct {
		kind    outputType
		message string
	}
	// cmdConfirm wraps a destructive command awaiting an explicit
	// confirmation key-press.
	cmdConfirm struct{ inner command }
	cmdStyle   struct{ name string }
	// cmdInput enables command-mode input, optionally pre-filled.
	cmdInput struct{ prefill string }
)

func (cmdNone) describe() string        { return "close" }
func (cmdQuit) describe() string        { return "quit" }
func (cmdRefresh) describe() string     { return "refresh the application" }
func (cmdRefreshKeys) describe() string { return "refresh keys from the keyserver" }
func (c cmdList) describe() string      { return fmt.Sprintf("list keys (%s)", c.keyType) }
func (c cmdImport) describe() string {
	if len(c.paths) == 0 {
		return "import key(s) from file"
	}
	return fmt.Sprintf("import %d file(s)", len(c.paths))
}
func (cmdImportClip) describe() string { return "import from clipboard" }
func (c cmdExport) describe() string {
	if len(c.patterns) == 0 {
		return fmt.Sprintf("export all the keys (%s)", c.keyType)
	}
	return fmt.Sprintf("export the selected key (%s)", c.keyType)
}
func (c cmdDelete) describe() string { return fmt.Sprintf("delete the selected key (%s)", c.keyType) }
func (cmdSign) describe() string     { return "sign the selected key" }
func (cmdEdit) describe() string     { return "edit the selected key" }
func (cmdGenerate) describe() string { return "generate a new key pair" }
func (c cmdReceive) describe() string {
	return fmt.Sprintf("receive %d key(s) from the keyserver", len(c.keyIDs))
}
func (cmdSend) describe() string   { return "send the selected key to the keyserver" }
func (c cmdCopy) describe() string { return "copy " + c.target.String() }
func (cmdPaste) describe() string  { return "paste from clipboard" }
func (c cmdToggleDetail) describe() string {
	if c.all {
		return "toggle detail (all)"
	}
	return "toggle detail (selected)"
}
func (c cmdSet) describe() string {
	switch c.option {
	case "armor":
		return setToggleVerb(c.value) + " armored output"
	case "color":
		return "set the accent color"
	case "margin":
		return "toggle the table margin"
	case "detail":
		return "set detail level to " + c.value
	case "style":
		return "set style to " + c.value
	}
	return fmt.Sprintf("set %s to %s", c.option, c.value)
}
func (c cmdGet) describe() string        { return "show the value of " + c.option }
func (c cmdSwitchMode) describe() string { return "switch to " + c.mode.String() + " mode" }
func (c cmdSearch) describe() string     { return "search" }
func (cmdNextTab) describe() string      { return "select the next tab" }
func (cmdPrevTab) describe() string      { return "select the previous tab" }
func (cmdMinimize) describe() string     { return "minimize the table" }
func (cmdMaximize) describe() string     { return "maximize the table" }
func (c cmdScroll) describe() string     { return "scroll " + c.direction }
func (cmdShowOptions) describe() string  { return "show options" }
func (c cmdShowOutput) describe() string { return c.message }
func (c cmdConfirm) describe() string    { return c.inner.describe() }
func (c cmdStyle) describe() string      { return "switch style to " + c.name }
func (cmdInput) describe() string        { return "enter a command" }

func setToggleVerb(value string) string {
	if value == "true" {
		return "enable"
	}
	return "disable"
}

// ---------------------------------------------------------------------------
// Copy targets
// ---------------------------------------------------------------------------

type copyTarget int

const (
	copyKey copyTarget = iota
	copyKeyID
	copyFingerprint
	copyUserID
	copyRow1
	copyRow2
)

func (t copyTarget) String() string {
	switch t {
	case copyKey:
		return "exported key"
	case copyKeyID:
		return "key ID"
	case copyFingerprint:
		return "key fingerprint"
	case copyUserID:
		return "user ID"
	case copyRow1:
		return "table row (1)"
	case copyRow2:
		return "table row (2)"
	}
	return "unknown"
}

func parseCopyTarget(s string) (copyTarget, error) {
	switch strings.ToLower(s) {
	case "key":
		return copyKey, nil
	case "key_id", "id":
		return copyKeyID, nil
	case "key_fingerprint", "fingerprint", "fpr":
		return copyFingerprint, nil
	case "key_user_id", "user":
		return copyUserID, nil
	case "row1", "1":
		return copyRow1, nil
	case "row2", "2":
		return copyRow2, nil
	}
	return copyKey, fmt.Errorf("invalid copy target %q", s)
}

// ---------------------------------------------------------------------------
// Parser
// ---------------------------------------------------------------------------

// userError is a rejected input: bad syntax, unknown command, wrong
// arguments. It never mutates state; the input buffer stays editable.
type userError struct {
	msg        string
	suggestion string
}

func (e *userError) Error() string {
	if e.suggestion != "" {
		return fmt.Sprintf("%s (did you mean %q?)", e.msg, e.suggestion)
	}
	return e.msg
}

// commandNames lists every recognized command name, used for
// suggestions on unknown input.
var commandNames = []string{
	"confirm", "output", "out", "options", "opt", "list", "ls",
	"import", "import-clipboard", "export", "exp", "delete", "del",
	"sign", "edit", "generate", "gen", "receive", "send", "copy", "c",
	"paste", "p", "toggle", "t", "scroll", "set", "s", "get", "g",
	"mode", "m", "normal", "n", "visual", "v", "input", "search",
	"next", "previous", "prev", "minimize", "min", "maximize", "max",
	"style", "refresh", "r", "quit", "q", "q!", "none",
}

// parseCommand interprets one line of the colon grammar. Command names
// are case-sensitive; a failed parse reports a userError and leaves
// everything untouched.
func parseCommand(input string) (command, error) {
	input = strings.TrimPrefix(input, commandPrefix)
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return cmdNone{}, nil
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "confirm":
		if len(args) == 0 {
			return cmdConfirm{inner: cmdNone{}}, nil
		}
		inner, err := parseCommand(strings.Join(args, " "))
		if err != nil {
			return nil, err
		}
		return cmdConfirm{inner: inner}, nil
	case "output", "out":
		if len(args) == 0 {
			return nil, &userError{msg: "output requires a type"}
		}
		return cmdShowOutput{kind: parseOutputType(args[0]), message: strings.Join(args[1:], " ")}, nil
	case "options", "opt":
		return cmdShowOptions{}, nil
	case "list", "ls":
		keyType := gpg.Public
		if len(args) > 0 {
			var err error
			if keyType, err = gpg.ParseKeyType(args[0]); err != nil {
				return nil, &userError{msg: err.Error()}
			}
		}
		return cmdList{keyType: keyType}, nil
	case "import":
		// Without paths the configured file explorer picks them.
		return cmdImport{paths: args}, nil
	case "import-clipboard":
		return cmdImportClip{}, nil
	case "export", "exp":
		keyType := gpg.Public
		patterns := args
		if len(args) > 0 {
			if kt, err := gpg.ParseKeyType(args[0]); err == nil {
				keyType = kt
				patterns = args[1:]
			}
		}
		return cmdExport{keyType: keyType, patterns: normalizeKeyIDs(patterns)}, nil
	case "delete", "del":
		keyType := gpg.Public
		rest := args
		if len(args) > 0 {
			if kt, err := gpg.ParseKeyType(args[0]); err == nil {
				keyType = kt
				rest = args[1:]
			}
		}
		var keyID string
		if len(rest) > 0 {
			keyID = normalizeKeyID(rest[0])
		}
		return cmdDelete{keyType: keyType, keyID: keyID}, nil
	case "sign":
		return cmdSign{keyID: firstOrEmpty(args)}, nil
	case "edit":
		return cmdEdit{keyID: firstOrEmpty(args)}, nil
	case "generate", "gen":
		return cmdGenerate{}, nil
	case "receive":
		if len(args) == 0 {
			return nil, &userError{msg: "receive requires at least one key ID"}
		}
		return cmdReceive{keyIDs: normalizeKeyIDs(args)}, nil
	case "send":
		if len(args) > 1 {
			return nil, &userError{msg: "send takes at most one key ID"}
		}
		return cmdSend{keyID: normalizeKeyID(firstOrEmpty(args))}, nil
	case "copy", "c":
		if len(args) == 0 {
			return cmdSwitchMode{mode: modeCopy}, nil
		}
		target, err := parseCopyTarget(args[0])
		if err != nil {
			return nil, &userError{msg: err.Error()}
		}
		return cmdCopy{target: target}, nil
	case "paste", "p":
		return cmdPaste{}, nil
	case "toggle", "t":
		return cmdToggleDetail{all: len(args) > 0 && args[0] == "all"}, nil
	case "scroll":
		return parseScroll(args)
	case "set", "s":
		if len(args) < 1 {
			return nil, &userError{msg: "set requires an option"}
		}
		return cmdSet{option: args[0], value: strings.Join(args[1:], " ")}, nil
	case "get", "g":
		if len(args) != 1 {
			return nil, &userError{msg: "get requires exactly one option"}
		}
		return cmdGet{option: args[0]}, nil
	case "mode", "m":
		if len(args) != 1 {
			return nil, &userError{msg: "mode requires a name"}
		}
		mode, err := parseAppMode(args[0])
		if err != nil {
			return nil, &userError{msg: err.Error()}
		}
		return cmdSwitchMode{mode: mode}, nil
	case "normal", "n":
		return cmdSwitchMode{mode: modeNormal}, nil
	case "visual", "v":
		return cmdSwitchMode{mode: modeVisual}, nil
	case "input":
		// Keep the raw remainder: prefills like "import " carry a
		// meaningful trailing space.
		rest, _ := strings.CutPrefix(strings.TrimLeft(input, " "), "input")
		return cmdInput{prefill: strings.TrimPrefix(rest, " ")}, nil
	case "search":
		return cmdSearch{query: strings.Join(args, " ")}, nil
	case "next":
		return cmdNextTab{}, nil
	case "previous", "prev":
		return cmdPrevTab{}, nil
	case "minimize", "min":
		return cmdMinimize{}, nil
	case "maximize", "max":
		return cmdMaximize{}, nil
	case "style":
		if len(args) != 1 {
			return nil, &userError{msg: "style requires a name"}
		}
		return cmdStyle{name: args[0]}, nil
	case "refresh", "r":
		if len(args) > 0 && args[0] == "keys" {
			return cmdRefreshKeys{}, nil
		}
		return cmdRefresh{}, nil
	case "quit", "q", "q!":
		return cmdQuit{}, nil
	case "none":
		return cmdNone{}, nil
	}
	return nil, unknownCommand(name)
}

func parseScroll(args []string) (command, error) {
	row := false
	if len(args) > 0 && args[0] == "row" {
		row = true
		args = args[1:]
	}
	if len(args) == 0 {
		return nil, &userError{msg: "scroll requires a direction"}
	}
	direction := args[0]
	switch direction {
	case "up", "u":
		direction = "up"
	case "down", "d":
		direction = "down"
	case "left", "l":
		direction = "left"
	case "right", "r":
		direction = "right"
	case "top", "bottom":
	default:
		return nil, &userError{msg: fmt.Sprintf("invalid scroll direction %q", direction)}
	}
	amount := 1
	if len(args) > 1 {
		if _, err := fmt.Sscanf(args[1], "%d", &amount); err != nil || amount < 1 {
			return nil, &userError{msg: fmt.Sprintf("invalid scroll amount %q", args[1])}
		}
	}
	return cmdScroll{direction: direction, row: row, amount: amount}, nil
}

// unknownCommand builds the UserError for an unrecognized name, with a
// closest-match suggestion when one is plausibly a typo.
func unknownCommand(name string) error {
	best, bestDist := "", 3
	for _, candidate := range commandNames {
		if d := levenshtein.ComputeDistance(name, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return &userError{
		msg:        fmt.Sprintf("unknown command %q", name),
		suggestion: best,
	}
}

func normalizeKeyID(id string) string {
	if rest, ok := strings.CutPrefix(id, "0x"); ok {
		return "0x" + strings.ToUpper(rest)
	}
	return id
}

func normalizeKeyIDs(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = normalizeKeyID(id)
	}
	return out
}

func firstOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
