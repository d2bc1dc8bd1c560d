package main

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/keyrig/keyrig/internal/gpg"
)

func detailedKey() gpg.Key {
	created := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	key := testKey("B14085A2B966C929", "6A1CA8A7DD7B1848B14085A2B966C929", "Test Haven", "test@example.org")
	key.UserIDs = append(key.UserIDs, gpg.UserID{
		Name: "Test Haven", Email: "haven@example.org", Validity: gpg.ValidityUltimate,
	})
	key.UserIDs[0].Signatures = []gpg.Signature{
		{
			Class:        0x10,
			SignerKeyID:  "91E1F6B4B16D6096",
			SignerUserID: "Second Key <second@example.org>",
			Created:      created.AddDate(0, 1, 0),
			Notations: []gpg.Notation{
				{Name: "trusted", Value: "yes", HumanReadable: true},
			},
		},
		{Class: 0x13, Self: true, Created: created},
	}
	key.Subkeys = []gpg.Subkey{
		{
			Fingerprint: "8581E58CE4388E50A04B4C2B92289E1B1D5E5E5E",
			ID:          "92289E1B1D5E5E5E",
			Algorithm:   18,
			CanEncrypt:  true,
			Created:     created,
			Expires:     created.AddDate(2, 0, 0),
		},
	}
	return key
}

func TestBuildRowGroupsDeterministic(t *testing.T) {
	keys := []gpg.Key{detailedKey()}
	opts := rowOptions{level: detailFull, overrides: map[string]detailLevel{}}
	first := buildRowGroups(keys, opts)
	second := buildRowGroups(keys, opts)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs produced different rows")
	}
}

func TestRowHeightsPerLevel(t *testing.T) {
	keys := []gpg.Key{detailedKey()}

	// Minimum: one key line, first user ID only.
	groups := buildRowGroups(keys, rowOptions{level: detailMinimum})
	if len(groups) != 1 {
		t.Fatalf("got %d groups", len(groups))
	}
	if len(groups[0].keyInfo) != 1 || len(groups[0].userInfo) != 1 {
		t.Errorf("minimum: %d key lines, %d user lines, want 1 and 1",
			len(groups[0].keyInfo), len(groups[0].userInfo))
	}

	// Standard with one subkey: primary line plus two subkey lines
	// against two user ID lines.
	groups = buildRowGroups(keys, rowOptions{level: detailStandard})
	if len(groups[0].keyInfo) != 3 || len(groups[0].userInfo) != 2 {
		t.Errorf("standard: %d key lines, %d user lines, want 3 and 2",
			len(groups[0].keyInfo), len(groups[0].userInfo))
	}

	// Full adds the signature lines under their user ID.
	groups = buildRowGroups(keys, rowOptions{level: detailFull})
	joined := strings.Join(groups[0].userInfo, "\n")
	if !strings.Contains(joined, "selfsig") {
		t.Error("full detail should show the self signature")
	}
	if !strings.Contains(joined, "0x91E1F6B4B16D6096") {
		t.Error("full detail should show the external signer")
	}
	if !strings.Contains(joined, "trusted=yes") {
		t.Error("full detail should show the notation")
	}
}

func TestRowLevelMonotonic(t *testing.T) {
	keys := []gpg.Key{detailedKey()}
	prev := -1
	for _, level := range []detailLevel{detailMinimum, detailStandard, detailFull} {
		groups := buildRowGroups(keys, rowOptions{level: level})
		h := groups[0].height()
		if h < prev {
			t.Fatalf("height decreased at %s: %d < %d", level, h, prev)
		}
		prev = h
	}
}

func TestSignatureOrdering(t *testing.T) {
	groups := buildRowGroups([]gpg.Key{detailedKey()}, rowOptions{level: detailFull})
	joined := strings.Join(groups[0].userInfo, "\n")
	// Class 0x10 sorts before the 0x13 self signature.
	if strings.Index(joined, "[10]") > strings.Index(joined, "[13]") {
		t.Error("signatures not ordered by class")
	}
}

func TestMinimizedDropsTimeLines(t *testing.T) {
	keys := []gpg.Key{detailedKey()}
	full := buildRowGroups(keys, rowOptions{level: detailStandard})
	min := buildRowGroups(keys, rowOptions{level: detailStandard, minimized: true})
	if len(min[0].keyInfo) != len(full[0].keyInfo)-1 {
		t.Errorf("minimized should drop the subkey time line: %d vs %d",
			len(min[0].keyInfo), len(full[0].keyInfo))
	}
	if strings.Contains(strings.Join(min[0].keyInfo, "\n"), "2023-05-01") {
		t.Error("minimized rows should not carry dates")
	}
}

func TestPerKeyOverride(t *testing.T) {
	keys := []gpg.Key{detailedKey(), testKey("91E1F6B4B16D6096", "31C99D9C9A8A4A0991E1F6B4B16D6096", "Second Key", "second@example.org")}
	groups := buildRowGroups(keys, rowOptions{
		level: detailMinimum,
		overrides: map[string]detailLevel{
			"6A1CA8A7DD7B1848B14085A2B966C929": detailStandard,
		},
	})
	if len(groups[0].keyInfo) == 1 {
		t.Error("override to standard should expand the first key")
	}
	if len(groups[1].keyInfo) != 1 {
		t.Error("second key should stay at the global minimum")
	}
}

func TestQueryFilter(t *testing.T) {
	groups := buildRowGroups(testKeyring(), rowOptions{level: detailMinimum, query: "second"})
	if len(groups) != 1 {
		t.Fatalf("filter matched %d groups, want 1", len(groups))
	}
	if groups[0].key.Primary.ID != "91E1F6B4B16D6096" {
		t.Errorf("wrong key matched: %s", groups[0].key.Primary.ID)
	}
	// Order is preserved when the filter spans several keys.
	groups = buildRowGroups(testKeyring(), rowOptions{level: detailMinimum, query: "example.org"})
	if len(groups) != 3 {
		t.Fatalf("filter matched %d groups, want 3", len(groups))
	}
}

func TestDefaultKeyMarker(t *testing.T) {
	key := detailedKey()
	key.IsDefault = true
	groups := buildRowGroups([]gpg.Key{key}, rowOptions{level: detailMinimum})
	if !strings.Contains(groups[0].keyInfo[0], "*]") {
		t.Errorf("default key line missing marker: %q", groups[0].keyInfo[0])
	}
}

func TestUnknownAlgorithmLabel(t *testing.T) {
	key := testKey("0000000000000001", "0000000000000000000000000000000000000001", "X", "x@example.org")
	key.Primary.Algorithm = 0
	groups := buildRowGroups([]gpg.Key{key}, rowOptions{level: detailMinimum})
	if !strings.Contains(groups[0].keyInfo[0], "[unknown]") {
		t.Errorf("expected [unknown] label: %q", groups[0].keyInfo[0])
	}
}

func TestDetailLevelCycle(t *testing.T) {
	if detailMinimum.next() != detailStandard ||
		detailStandard.next() != detailFull ||
		detailFull.next() != detailMinimum {
		t.Error("detail level cycle broken")
	}
}
