package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/keyrig/keyrig/internal/gpg"
)

func TestParseCommandAliases(t *testing.T) {
	cases := []struct {
		input string
		want  command
	}{
		{":list", cmdList{keyType: gpg.Public}},
		{":ls secret", cmdList{keyType: gpg.Secret}},
		{":export", cmdExport{keyType: gpg.Public, patterns: []string{}}},
		{":exp secret 0xb966c929", cmdExport{keyType: gpg.Secret, patterns: []string{"0xB966C929"}}},
		{":delete", cmdDelete{keyType: gpg.Public}},
		{":del sec 0xabc123", cmdDelete{keyType: gpg.Secret, keyID: "0xABC123"}},
		{":toggle", cmdToggleDetail{}},
		{":t all", cmdToggleDetail{all: true}},
		{":copy key_id", cmdCopy{target: copyKeyID}},
		{":c", cmdSwitchMode{mode: modeCopy}},
		{":normal", cmdSwitchMode{mode: modeNormal}},
		{":m visual", cmdSwitchMode{mode: modeVisual}},
		{":next", cmdNextTab{}},
		{":prev", cmdPrevTab{}},
		{":min", cmdMinimize{}},
		{":max", cmdMaximize{}},
		{":set armor toggle", cmdSet{option: "armor", value: "toggle"}},
		{":g detail", cmdGet{option: "detail"}},
		{":send", cmdSend{}},
		{":send 0xb966c929", cmdSend{keyID: "0xB966C929"}},
		{":import", cmdImport{}},
		{":refresh", cmdRefresh{}},
		{":r", cmdRefresh{}},
		{":refresh keys", cmdRefreshKeys{}},
		{":r keys", cmdRefreshKeys{}},
		{":q", cmdQuit{}},
		{":q!", cmdQuit{}},
		{":none", cmdNone{}},
		{"", cmdNone{}},
	}
	for _, tc := range cases {
		got, err := parseCommand(tc.input)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.input, err)
		}
		if describe(got) != describe(tc.want) {
			t.Errorf("parse %q = %#v, want %#v", tc.input, got, tc.want)
		}
	}
}

// describe compares commands structurally without requiring every
// field to be comparable.
func describe(c command) string {
	switch c := c.(type) {
	case cmdList:
		return "list/" + c.keyType.String()
	case cmdExport:
		return "export/" + c.keyType.String() + "/" + strings.Join(c.patterns, ",")
	case cmdDelete:
		return "delete/" + c.keyType.String() + "/" + c.keyID
	case cmdToggleDetail:
		if c.all {
			return "toggle/all"
		}
		return "toggle"
	case cmdCopy:
		return "copy/" + c.target.String()
	case cmdSwitchMode:
		return "mode/" + c.mode.String()
	case cmdSet:
		return "set/" + c.option + "/" + c.value
	case cmdGet:
		return "get/" + c.option
	case cmdSend:
		return "send/" + c.keyID
	case cmdImport:
		return "import/" + strings.Join(c.paths, ",")
	default:
		return c.describe()
	}
}

func TestParseCommandUnknownSuggests(t *testing.T) {
	_, err := parseCommand(":expor")
	if err == nil {
		t.Fatal("expected an error for unknown command")
	}
	var uerr *userError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected userError, got %T", err)
	}
	if !strings.Contains(err.Error(), `did you mean "export"?`) {
		t.Errorf("missing suggestion in %q", err.Error())
	}
}

func TestParseCommandUnknownNoSuggestion(t *testing.T) {
	_, err := parseCommand(":frobnicate-all-the-things")
	if err == nil {
		t.Fatal("expected an error")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("far-off input should not suggest: %q", err.Error())
	}
}

func TestParseSendRejectsExtraArgs(t *testing.T) {
	if _, err := parseCommand(":send 0xabc 0xdef"); err == nil {
		t.Error("expected an error for more than one key ID")
	}
}

func TestParseCommandConfirmWraps(t *testing.T) {
	got, err := parseCommand(":confirm delete")
	if err != nil {
		t.Fatal(err)
	}
	wrapped, ok := got.(cmdConfirm)
	if !ok {
		t.Fatalf("expected cmdConfirm, got %T", got)
	}
	if _, ok := wrapped.inner.(cmdDelete); !ok {
		t.Fatalf("expected inner cmdDelete, got %T", wrapped.inner)
	}
}

func TestParseScroll(t *testing.T) {
	got, err := parseCommand(":scroll down 5")
	if err != nil {
		t.Fatal(err)
	}
	sc := got.(cmdScroll)
	if sc.direction != "down" || sc.amount != 5 || sc.row {
		t.Errorf("unexpected scroll: %+v", sc)
	}

	got, err = parseCommand(":scroll row right 2")
	if err != nil {
		t.Fatal(err)
	}
	sc = got.(cmdScroll)
	if !sc.row || sc.direction != "right" || sc.amount != 2 {
		t.Errorf("unexpected row scroll: %+v", sc)
	}

	if _, err := parseCommand(":scroll sideways"); err == nil {
		t.Error("expected error for invalid direction")
	}
	if _, err := parseCommand(":scroll down 0"); err == nil {
		t.Error("expected error for zero amount")
	}
}

func TestParseCopyTargets(t *testing.T) {
	for input, want := range map[string]copyTarget{
		"key":             copyKey,
		"key_id":          copyKeyID,
		"key_fingerprint": copyFingerprint,
		"key_user_id":     copyUserID,
		"row1":            copyRow1,
		"row2":            copyRow2,
	} {
		got, err := parseCopyTarget(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Errorf("parse %q = %v, want %v", input, got, want)
		}
	}
	if _, err := parseCopyTarget("row3"); err == nil {
		t.Error("expected error for invalid target")
	}
}

func TestNormalizeKeyID(t *testing.T) {
	if got := normalizeKeyID("0xb966c929"); got != "0xB966C929" {
		t.Errorf("normalizeKeyID = %q", got)
	}
	if got := normalizeKeyID("test@example.org"); got != "test@example.org" {
		t.Errorf("email pattern should pass through, got %q", got)
	}
}
