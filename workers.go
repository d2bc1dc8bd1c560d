package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/keyrig/keyrig/internal/gpg"
)

// ---------------------------------------------------------------------------
// Messages and worker commands
//
// Engine calls block on gpg, so every operation runs inside a tea.Cmd
// and reports back with a typed message. The update loop stays free of
// blocking work.
// ---------------------------------------------------------------------------

type tickMsg time.Time

type keysLoadedMsg struct {
	keyType gpg.KeyType
	keys    []gpg.Key
	err     error
}

// engineDoneMsg reports a fire-and-forget engine operation. A reload
// of the affected keyring follows on success.
type engineDoneMsg struct {
	op     string
	status string
	err    error
}

type exportDoneMsg struct {
	path string
	err  error
}

type copyDoneMsg struct {
	what string
	err  error
}

type pasteMsg struct {
	content string
	err     error
}

// execDoneMsg reports an interactive gpg session (edit, generate)
// that suspended the TUI.
type execDoneMsg struct {
	op  string
	err error
}

// filesPickedMsg carries the paths chosen in the file explorer.
type filesPickedMsg struct {
	paths []string
	err   error
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func loadKeysCmd(engine *gpg.Context, keyType gpg.KeyType) tea.Cmd {
	return func() tea.Msg {
		keys, err := engine.ListKeys(keyType, "")
		return keysLoadedMsg{keyType: keyType, keys: keys, err: err}
	}
}

func importCmd(engine *gpg.Context, paths []string) tea.Cmd {
	return func() tea.Msg {
		n, err := engine.Import(paths)
		return engineDoneMsg{op: "import", status: fmt.Sprintf("imported %d key(s)", n), err: err}
	}
}

func importClipboardCmd(engine *gpg.Context) tea.Cmd {
	return func() tea.Msg {
		content, err := clipboard.ReadAll()
		if err != nil {
			return engineDoneMsg{op: "import", err: fmt.Errorf("read clipboard: %w", err)}
		}
		n, err := engine.ImportBytes([]byte(content))
		return engineDoneMsg{op: "import", status: fmt.Sprintf("imported %d key(s)", n), err: err}
	}
}

func exportCmd(engine *gpg.Context, keyType gpg.KeyType, patterns []string) tea.Cmd {
	return func() tea.Msg {
		path, err := engine.Export(keyType, patterns)
		return exportDoneMsg{path: path, err: err}
	}
}

func deleteCmd(engine *gpg.Context, keyType gpg.KeyType, keyID string) tea.Cmd {
	return func() tea.Msg {
		err := engine.Delete(keyType, keyID)
		return engineDoneMsg{op: "delete", status: "key deleted", err: err}
	}
}

func signCmd(engine *gpg.Context, keyID, localUser string) tea.Cmd {
	return func() tea.Msg {
		err := engine.Sign(keyID, localUser)
		return engineDoneMsg{op: "sign", status: "key signed", err: err}
	}
}

func receiveCmd(engine *gpg.Context, keyIDs []string) tea.Cmd {
	return func() tea.Msg {
		err := engine.Receive(keyIDs)
		return engineDoneMsg{op: "receive", status: "key(s) received", err: err}
	}
}

func sendCmd(engine *gpg.Context, keyID string) tea.Cmd {
	return func() tea.Msg {
		err := engine.Send(keyID)
		return engineDoneMsg{op: "send", status: "key sent to keyserver", err: err}
	}
}

func refreshKeysCmd(engine *gpg.Context) tea.Cmd {
	return func() tea.Msg {
		err := engine.RefreshKeys()
		return engineDoneMsg{op: "refresh", status: "keyring refreshed", err: err}
	}
}

func copyCmd(text, what string) tea.Cmd {
	return func() tea.Msg {
		err := clipboard.WriteAll(text)
		return copyDoneMsg{what: what, err: err}
	}
}

func pasteCmd() tea.Cmd {
	return func() tea.Msg {
		content, err := clipboard.ReadAll()
		return pasteMsg{content: content, err: err}
	}
}

// pickImportFilesCmd suspends the TUI and runs the configured file
// explorer, capturing the selection it prints on stdout.
func pickImportFilesCmd(explorer string) tea.Cmd {
	tmp, err := os.CreateTemp("", "keyrig-pick-*")
	if err != nil {
		return func() tea.Msg { return filesPickedMsg{err: err} }
	}
	tmp.Close()
	c := exec.Command("sh", "-c", explorer+" > "+tmp.Name())
	return tea.ExecProcess(c, func(err error) tea.Msg {
		defer os.Remove(tmp.Name())
		if err != nil {
			return filesPickedMsg{err: err}
		}
		data, err := os.ReadFile(tmp.Name())
		if err != nil {
			return filesPickedMsg{err: err}
		}
		var paths []string
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				paths = append(paths, line)
			}
		}
		return filesPickedMsg{paths: paths}
	})
}

func editKeyCmd(engine *gpg.Context, keyID string) tea.Cmd {
	return tea.ExecProcess(engine.EditCommand(keyID), func(err error) tea.Msg {
		return execDoneMsg{op: "edit", err: err}
	})
}

func generateKeyCmd(engine *gpg.Context) tea.Cmd {
	return tea.ExecProcess(engine.GenerateCommand(), func(err error) tea.Msg {
		return execDoneMsg{op: "generate", err: err}
	})
}
