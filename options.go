package main

import (
	"fmt"

	"github.com/keyrig/keyrig/internal/gpg"
)

// ---------------------------------------------------------------------------
// Options menu
// ---------------------------------------------------------------------------

// optionItem pairs a menu label with the colon command it runs.
type optionItem struct {
	label   string
	command string
}

type optionsMenu struct {
	items    []optionItem
	selected int
}

// buildOptionsMenu assembles the context menu for the selected key.
// With no selection only the keyring-level entries appear.
func buildOptionsMenu(key *gpg.Key, keyType gpg.KeyType, minimized bool) optionsMenu {
	items := []optionItem{
		{label: "close menu", command: ":mode normal"},
		{label: "refresh the keyring", command: ":refresh"},
		{label: "refresh keys from keyserver", command: ":refresh keys"},
		{label: "import key(s) from file", command: ":input import "},
		{label: "import key(s) with the file explorer", command: ":import"},
		{label: "import key(s) from clipboard", command: ":import-clipboard"},
		{label: "receive key from keyserver", command: ":input receive "},
		{label: "generate a new key pair", command: ":generate"},
	}
	if key != nil {
		id := key.ID()
		keyItems := []optionItem{
			{label: fmt.Sprintf("export the selected key (%s)", id), command: ":export"},
			{label: "copy the exported key", command: ":copy key"},
			{label: "copy the key id", command: ":copy key_id"},
			{label: "copy the key fingerprint", command: ":copy key_fingerprint"},
			{label: "copy the user id", command: ":copy key_user_id"},
			{label: "send the selected key to the keyserver", command: ":confirm send"},
			{label: "sign the selected key", command: ":sign"},
			{label: "edit the selected key", command: ":edit"},
			{label: "delete the selected key", command: ":confirm delete"},
			{label: "toggle the detail level", command: ":toggle"},
		}
		if keyType == gpg.Secret {
			keyItems = append(keyItems, optionItem{
				label:   "export the secret key",
				command: ":export secret",
			})
		}
		items = append(items, keyItems...)
	}
	items = append(items,
		optionItem{label: "paste key(s) from clipboard", command: ":paste"},
		optionItem{label: "toggle the detail level for all keys", command: ":toggle all"},
		optionItem{label: "set the detail level to minimum", command: ":set detail minimum"},
		optionItem{label: "set the detail level to standard", command: ":set detail standard"},
		optionItem{label: "set the detail level to full", command: ":set detail full"},
		optionItem{label: "toggle the armored output", command: ":set armor toggle"},
		optionItem{label: "toggle the table margin", command: ":set margin toggle"},
		optionItem{label: "toggle the table size", command: ":set size toggle"},
		optionItem{label: "toggle the style", command: ":style toggle"},
		optionItem{label: "switch to visual mode", command: ":visual"},
		optionItem{label: "quit the application", command: ":quit"},
	)
	if minimized {
		// Re-label the size toggle so the menu reflects current state.
		for i, it := range items {
			if it.command == ":set size toggle" {
				items[i].label = "restore the table size"
			}
		}
	}
	return optionsMenu{items: items}
}

func (o *optionsMenu) next() {
	if len(o.items) == 0 {
		return
	}
	o.selected = (o.selected + 1) % len(o.items)
}

func (o *optionsMenu) previous() {
	if len(o.items) == 0 {
		return
	}
	o.selected = (o.selected - 1 + len(o.items)) % len(o.items)
}

func (o *optionsMenu) current() (optionItem, bool) {
	if o.selected < 0 || o.selected >= len(o.items) {
		return optionItem{}, false
	}
	return o.items[o.selected], true
}
