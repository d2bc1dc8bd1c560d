package main

import (
	"strings"
	"testing"

	"github.com/keyrig/keyrig/internal/gpg"
)

func TestEveryModeReturnsToNormal(t *testing.T) {
	cases := []struct {
		name  string
		enter []string
		leave []string
	}{
		{"visual", []string{"v"}, []string{"n"}},
		{"copy", []string{"c"}, []string{"esc"}},
		{"command", []string{":"}, []string{"esc"}},
		{"search", []string{"/"}, []string{"esc"}},
		{"options", []string{"o"}, []string{"q"}},
	}
	for _, tc := range cases {
		m := newTestModel()
		m = pressKeys(m, tc.enter...)
		if m.mode == modeNormal {
			t.Errorf("%s: did not leave normal mode", tc.name)
			continue
		}
		m = pressKeys(m, tc.leave...)
		if m.mode != modeNormal {
			t.Errorf("%s: stuck in %s", tc.name, m.mode)
		}
	}
}

func TestQuitKeyCancelsActiveInput(t *testing.T) {
	m := newTestModel()
	m = press(m, ":")
	if m.mode != modeCommand {
		t.Fatalf("mode = %s", m.mode)
	}
	m = press(m, "esc")
	if m.exiting {
		t.Error("esc during input must cancel the input, not quit")
	}
	if m.mode != modeNormal {
		t.Errorf("mode after cancel = %s", m.mode)
	}

	// A literal q is just text while input is active.
	m = press(m, ":")
	m = press(m, "q")
	if m.exiting {
		t.Error("typing q into the prompt must not quit")
	}
	if m.prompt.text != ":q" {
		t.Errorf("prompt = %q", m.prompt.text)
	}
}

func TestQuitFromNormalMode(t *testing.T) {
	m := newTestModel()
	m = press(m, "q")
	if !m.exiting {
		t.Error("q in normal mode should quit")
	}
}

func TestConfirmFlow(t *testing.T) {
	m := newTestModel()
	m = press(m, "d")
	if m.pending == nil {
		t.Fatal("delete should wait for confirmation")
	}
	if m.prompt.outputType != outputAction {
		t.Errorf("prompt type = %v", m.prompt.outputType)
	}
	if m.busy {
		t.Error("nothing should run before the confirmation")
	}

	// Anything but y cancels.
	m = press(m, "n")
	if m.pending != nil || m.busy {
		t.Error("cancel left the confirmation pending")
	}

	m = press(m, "d")
	m = press(m, "y")
	if m.pending != nil {
		t.Error("confirmation not consumed")
	}
	if !m.busy {
		t.Error("confirmed delete should start the engine worker")
	}
}

func TestCommandLineRuns(t *testing.T) {
	m := newTestModel()
	m = press(m, ":")
	m = typeString(m, "set detail standard")
	m = press(m, "enter")
	if m.mode != modeNormal {
		t.Errorf("mode after enter = %s", m.mode)
	}
	if m.rows.level != detailStandard {
		t.Errorf("detail level = %s", m.rows.level)
	}
}

func TestUnknownCommandReportsAndSuggests(t *testing.T) {
	m := newTestModel()
	m = press(m, ":")
	m = typeString(m, "expor")
	m = press(m, "enter")
	if m.mode != modeCommand {
		t.Fatalf("rejected line must stay editable, mode = %s", m.mode)
	}
	if m.prompt.text != ":expor" {
		t.Errorf("prompt = %q, want the line retained", m.prompt.text)
	}
	if !strings.Contains(m.inputError, "did you mean") {
		t.Errorf("missing suggestion: %q", m.inputError)
	}
	if m.busy || m.exiting {
		t.Error("rejected input must not change state")
	}

	// Finishing the word in place runs the corrected command.
	m = typeString(m, "t")
	if m.inputError != "" {
		t.Errorf("editing should clear the error, got %q", m.inputError)
	}
	m = press(m, "enter")
	if m.mode != modeNormal {
		t.Errorf("mode after corrected enter = %s", m.mode)
	}
	if !m.busy {
		t.Error("corrected export should start the worker")
	}
}

func TestSearchFiltersLive(t *testing.T) {
	m := newTestModel()
	m = press(m, "/")
	if m.mode != modeSearch {
		t.Fatalf("mode = %s", m.mode)
	}
	m = typeString(m, "second")
	if len(m.table.groups) != 1 {
		t.Fatalf("filter matched %d rows", len(m.table.groups))
	}
	// Enter keeps the filter; esc clears it.
	m = press(m, "enter")
	if m.mode != modeNormal || len(m.table.groups) != 1 {
		t.Error("enter should keep the filter applied")
	}
	m = press(m, "/")
	m = press(m, "esc")
	if len(m.table.groups) != 3 {
		t.Errorf("esc should clear the filter, got %d rows", len(m.table.groups))
	}
}

func TestTabSwitchResetsSelection(t *testing.T) {
	m := newTestModel()
	m.repo.store(gpg.Secret, testKeyring()[:1])
	m = pressKeys(m, "j", "j")
	if m.table.selected != 2 {
		t.Fatalf("selected = %d", m.table.selected)
	}
	m = press(m, "tab")
	if m.repo.active != gpg.Secret {
		t.Error("tab should switch to the secret keyring")
	}
	if m.table.selected != 0 {
		t.Errorf("selection not reset: %d", m.table.selected)
	}
}

func TestDetailPresetKeys(t *testing.T) {
	m := newTestModel()
	m = press(m, "3")
	if m.rows.level != detailFull {
		t.Errorf("level = %s, want full", m.rows.level)
	}
	m = press(m, "1")
	if m.rows.level != detailMinimum {
		t.Errorf("level = %s, want minimum", m.rows.level)
	}
}

func TestToggleKeyOverridesSelected(t *testing.T) {
	m := newTestModel()
	m = press(m, "t")
	fpr := testKeyring()[0].Fingerprint()
	if got := m.rows.overrides[fpr]; got != detailStandard {
		t.Errorf("override = %s, want standard", got)
	}
	// Global toggle clears per-key overrides.
	m = press(m, "T")
	if len(m.rows.overrides) != 0 {
		t.Error("global toggle should drop overrides")
	}
	if m.rows.level != detailStandard {
		t.Errorf("global level = %s", m.rows.level)
	}
}

func TestToggleTwiceRestoresEffectiveLevel(t *testing.T) {
	m := newTestModel()
	before := m.rows.level
	m = pressKeys(m, "t", "t")
	if len(m.rows.overrides) != 0 {
		t.Error("second toggle should remove the override")
	}
	if m.rows.level != before {
		t.Errorf("keyring-wide level changed to %s", m.rows.level)
	}
}

func TestReloadDropsDetailOverrides(t *testing.T) {
	m := newTestModel()
	m = press(m, "t")
	if len(m.rows.overrides) != 1 {
		t.Fatalf("overrides = %d, want 1", len(m.rows.overrides))
	}
	next, _ := m.Update(keysLoadedMsg{keyType: gpg.Public, keys: testKeyring()})
	m = next.(model)
	if len(m.rows.overrides) != 0 {
		t.Error("fresh keyring contents should drop per-key overrides")
	}
}

func TestBusyHoldsUntilBothKeyringsLoad(t *testing.T) {
	m := newTestModel()
	m = press(m, "r")
	if !m.busy {
		t.Fatal("refresh should mark the model busy")
	}
	next, _ := m.Update(keysLoadedMsg{keyType: gpg.Public, keys: testKeyring()})
	m = next.(model)
	if !m.busy {
		t.Error("busy must hold while the secret keyring loads")
	}
	next, _ = m.Update(keysLoadedMsg{keyType: gpg.Secret})
	m = next.(model)
	if m.busy {
		t.Error("busy should clear after the last load")
	}
}

func TestPickedFilesStartImport(t *testing.T) {
	m := newTestModel()
	next, _ := m.Update(filesPickedMsg{paths: []string{"/tmp/key.asc"}})
	m = next.(model)
	if !m.busy {
		t.Error("picked files should start the import worker")
	}

	empty := newTestModel()
	next, _ = empty.Update(filesPickedMsg{})
	empty = next.(model)
	if empty.busy {
		t.Error("an empty selection must not start a worker")
	}
	if empty.prompt.outputType != outputWarning {
		t.Errorf("prompt type = %v, want warning", empty.prompt.outputType)
	}
}

func TestCopyModeRequiresSelection(t *testing.T) {
	m := newTestModel()
	m.repo.store(gpg.Public, nil)
	m.refreshTable()
	m = press(m, "c")
	if m.mode == modeCopy {
		t.Error("copy mode with no keys should be refused")
	}
}

func TestCopyModeKeyReturnsToNormal(t *testing.T) {
	m := newTestModel()
	m = press(m, "c")
	if m.mode != modeCopy {
		t.Fatalf("mode = %s", m.mode)
	}
	m = press(m, "i")
	if m.mode != modeNormal {
		t.Errorf("copy should exit copy mode, still in %s", m.mode)
	}
}

func TestOptionsMenuRunsSelectedEntry(t *testing.T) {
	m := newTestModel()
	m = press(m, "o")
	if m.mode != modeOptions {
		t.Fatalf("mode = %s", m.mode)
	}
	if len(m.options.items) == 0 {
		t.Fatal("empty options menu")
	}
	// Second entry refreshes the keyring.
	m = press(m, "j")
	if m.options.selected != 1 {
		t.Fatalf("selected = %d", m.options.selected)
	}
	m = press(m, "enter")
	if m.mode != modeNormal {
		t.Errorf("mode after running entry = %s", m.mode)
	}
	if !m.busy {
		t.Error("refresh entry should start a worker")
	}
}

func TestSplashSkipsOnKey(t *testing.T) {
	m := newTestModel()
	m.mode = modeSplash
	m = press(m, "j")
	if m.mode != modeNormal {
		t.Errorf("mode = %s", m.mode)
	}
	if m.table.selected != 0 {
		t.Error("the dismissing key must not also act on the table")
	}
}

func TestBusyBlocksSecondEngineCall(t *testing.T) {
	m := newTestModel()
	m = press(m, "r")
	if !m.busy {
		t.Fatal("refresh should mark the model busy")
	}
	m = press(m, "x")
	if m.prompt.outputType != outputWarning {
		t.Error("second engine call while busy should warn")
	}
	// Quit always works.
	m = press(m, "q")
	if !m.exiting {
		t.Error("busy must never block quit")
	}
}

func TestSelectionModeEnterPrintsValue(t *testing.T) {
	m := newTestModel()
	m.selectActive = true
	m.selectTarget = copyKeyID
	m = press(m, "enter")
	if m.selectOutput != "0xB14085A2B966C929" {
		t.Errorf("selectOutput = %q", m.selectOutput)
	}
}

func TestSetArmorCommand(t *testing.T) {
	m := newTestModel()
	m.repo.engine = &gpg.Context{}
	m = press(m, ":")
	m = typeString(m, "set armor true")
	m = press(m, "enter")
	if !m.repo.engine.Armor {
		t.Error("set armor true did not enable armor")
	}
	if m.prompt.outputType == outputFailure {
		t.Errorf("unexpected error output: %q", m.prompt.text)
	}
	m = press(m, "a")
	if m.repo.engine.Armor {
		t.Error("armor toggle key did not flip the flag")
	}
}

func TestSelectionModeNavigatesFirst(t *testing.T) {
	m := newTestModel()
	m.selectActive = true
	m.selectTarget = copyFingerprint
	m = pressKeys(m, "j", "enter")
	if m.selectOutput != "31C99D9C9A8A4A0991E1F6B4B16D6096" {
		t.Errorf("selectOutput = %q", m.selectOutput)
	}
}
