package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/keyrig/keyrig/internal/gpg"
)

// Shared test fixtures and helpers.

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testKey(id, fpr, name, email string) gpg.Key {
	return gpg.Key{
		Type: gpg.Public,
		Primary: gpg.Subkey{
			Fingerprint: fpr,
			ID:          id,
			Algorithm:   22,
			CanSign:     true,
			CanCertify:  true,
			Created:     time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		UserIDs: []gpg.UserID{
			{Name: name, Email: email, Validity: gpg.ValidityUltimate},
		},
	}
}

func testKeyring() []gpg.Key {
	return []gpg.Key{
		testKey("B14085A2B966C929", "6A1CA8A7DD7B1848B14085A2B966C929", "Test Haven", "test@example.org"),
		testKey("91E1F6B4B16D6096", "31C99D9C9A8A4A0991E1F6B4B16D6096", "Second Key", "second@example.org"),
		testKey("1BC1DAF173C55C32", "9C97E8E7C49D87411BC1DAF173C55C32", "Third Key", "third@example.org"),
	}
}

// newTestModel builds a model with a seeded public keyring and no
// engine behind it. UI paths never dereference the engine; worker
// closures are not invoked by tests.
func newTestModel() model {
	m := newModel(defaultConfig(), "", nil)
	m.loading = 0
	m.repo.store(gpg.Public, testKeyring())
	m.refreshTable()
	m.width, m.height = 80, 24
	return m
}

// press feeds one key through the update loop and returns the new
// model state.
func press(m model, key string) model {
	next, _ := m.Update(keyMsg(key))
	return next.(model)
}

func pressKeys(m model, keys ...string) model {
	for _, k := range keys {
		m = press(m, k)
	}
	return m
}

func typeString(m model, s string) model {
	for _, r := range s {
		m = press(m, string(r))
	}
	return m
}
