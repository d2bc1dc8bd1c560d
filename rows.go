package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/keyrig/keyrig/internal/gpg"
)

// ---------------------------------------------------------------------------
// Detail levels
// ---------------------------------------------------------------------------

type detailLevel int

const (
	detailMinimum detailLevel = iota
	detailStandard
	detailFull
)

func (d detailLevel) String() string {
	switch d {
	case detailStandard:
		return "standard"
	case detailFull:
		return "full"
	default:
		return "minimum"
	}
}

// next cycles Minimum → Standard → Full → Minimum.
func (d detailLevel) next() detailLevel {
	return (d + 1) % 3
}

func parseDetailLevel(s string) (detailLevel, error) {
	switch strings.ToLower(s) {
	case "minimum", "min", "1":
		return detailMinimum, nil
	case "standard", "std", "2":
		return detailStandard, nil
	case "full", "3":
		return detailFull, nil
	}
	return detailMinimum, fmt.Errorf("invalid detail level %q", s)
}

// ---------------------------------------------------------------------------
// Row generation
// ---------------------------------------------------------------------------

// rowGroup is the renderable form of one key: a pair of line columns
// that advance together and pad independently.
type rowGroup struct {
	key      gpg.Key
	keyInfo  []string
	userInfo []string
}

func (g rowGroup) height() int {
	if len(g.keyInfo) > len(g.userInfo) {
		return len(g.keyInfo)
	}
	return len(g.userInfo)
}

// rowOptions are the full inputs of row generation. Two identical
// values always yield identical rows; nothing else feeds the output.
type rowOptions struct {
	level     detailLevel
	overrides map[string]detailLevel
	minimized bool
	// query filters groups by case-insensitive substring match over
	// both columns; empty keeps everything.
	query string
}

// buildRowGroups flattens the key tree into displayable row groups.
// Keys stay in engine order; subkeys are shown in ascending creation
// order and signatures by certification class, ties broken by creation
// time.
func buildRowGroups(keys []gpg.Key, opts rowOptions) []rowGroup {
	groups := make([]rowGroup, 0, len(keys))
	query := strings.ToLower(opts.query)
	for i := range keys {
		key := keys[i]
		level := opts.level
		if override, ok := opts.overrides[key.Fingerprint()]; ok {
			level = override
		}
		g := rowGroup{
			key:      key,
			keyInfo:  keyInfoLines(&key, level, opts.minimized),
			userInfo: userInfoLines(&key, level, opts.minimized),
		}
		if query != "" && !groupMatches(g, query) {
			continue
		}
		groups = append(groups, g)
	}
	return groups
}

func groupMatches(g rowGroup, loweredQuery string) bool {
	joined := strings.ToLower(strings.Join(g.keyInfo, "\n") + "\n" + strings.Join(g.userInfo, "\n"))
	return strings.Contains(joined, loweredQuery)
}

// keyInfoLines renders the key-information column: the primary key
// line, then two lines per subkey from Standard detail up. Minimized
// mode drops the subkey time lines but never reorders the traversal.
func keyInfoLines(key *gpg.Key, level detailLevel, minimized bool) []string {
	lines := []string{primaryLine(key, minimized)}
	if level < detailStandard {
		return lines
	}
	subkeys := sortedSubkeys(key.Subkeys)
	for i, sub := range subkeys {
		last := i == len(subkeys)-1
		connector, continuation := "├─", "│ "
		if last {
			connector, continuation = "└─", "  "
		}
		lines = append(lines, fmt.Sprintf("%s[%s] %s/0x%s%s",
			connector, sub.Flags(), sub.AlgorithmLabel(), sub.ID, statusSuffix(sub)))
		if !minimized {
			lines = append(lines, fmt.Sprintf("%s└─%s", continuation, timeSpan(sub)))
		}
	}
	return lines
}

func primaryLine(key *gpg.Key, minimized bool) string {
	flags := key.Primary.Flags()
	if key.IsDefault {
		flags += "*"
	}
	line := fmt.Sprintf("[%s] %s/%s", flags, key.Primary.AlgorithmLabel(), key.ID())
	if !minimized {
		line += " " + timeSpan(key.Primary)
	}
	return line + statusSuffix(key.Primary)
}

// userInfoLines renders the user-information column: the first user ID
// at Minimum, all of them from Standard, and signatures with their
// notations at Full.
func userInfoLines(key *gpg.Key, level detailLevel, minimized bool) []string {
	uids := key.UserIDs
	if level < detailStandard && len(uids) > 1 {
		uids = uids[:1]
	}
	var lines []string
	for _, uid := range uids {
		lines = append(lines, fmt.Sprintf("[%s] %s", uid.Validity, uid))
		if level < detailFull {
			continue
		}
		sigs := sortedSignatures(uid.Signatures)
		for i, sig := range sigs {
			last := i == len(sigs)-1
			connector, continuation := " ├─", " │ "
			if last {
				connector, continuation = " └─", "   "
			}
			lines = append(lines, connector+signatureLine(sig, minimized))
			for j, n := range sig.Notations {
				marker := "└─"
				if j < len(sig.Notations)-1 {
					marker = "├─"
				}
				lines = append(lines, fmt.Sprintf("%s%s%s", continuation, marker, notationLine(n)))
			}
		}
	}
	return lines
}

func signatureLine(sig gpg.Signature, minimized bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%x] ", sig.Class)
	if sig.Self {
		b.WriteString("selfsig")
	} else {
		fmt.Fprintf(&b, "0x%s", sig.SignerKeyID)
		if sig.SignerUserID != "" {
			b.WriteString(" " + sig.SignerUserID)
		}
	}
	if !minimized && !sig.Created.IsZero() {
		fmt.Fprintf(&b, " (%s)", sig.Created.UTC().Format("2006-01-02"))
	}
	for _, tag := range signatureTags(sig) {
		b.WriteString(" " + tag)
	}
	return b.String()
}

func signatureTags(sig gpg.Signature) []string {
	var tags []string
	if sig.Expired {
		tags = append(tags, "[expired]")
	}
	if sig.Revoked {
		tags = append(tags, "[revoked]")
	}
	if sig.Invalid {
		tags = append(tags, "[invalid]")
	}
	if sig.NonExportable {
		tags = append(tags, "[local]")
	}
	return tags
}

func notationLine(n gpg.Notation) string {
	var flags string
	if n.HumanReadable {
		flags += "h"
	}
	if n.Critical {
		flags += "!"
	}
	if flags == "" {
		flags = "-"
	}
	return fmt.Sprintf("[%s] %s=%s", flags, n.Name, n.Value)
}

func statusSuffix(s gpg.Subkey) string {
	tags := s.StatusTags()
	if len(tags) == 0 {
		return ""
	}
	return " " + strings.Join(tags, " ")
}

// timeSpan formats the creation date and, when set, the expiration.
func timeSpan(s gpg.Subkey) string {
	if s.Created.IsZero() {
		return "([?])"
	}
	span := "(" + s.Created.UTC().Format("2006-01-02")
	if !s.Expires.IsZero() {
		span += " ─> " + s.Expires.UTC().Format("2006-01-02")
	}
	return span + ")"
}

func sortedSubkeys(subkeys []gpg.Subkey) []gpg.Subkey {
	out := make([]gpg.Subkey, len(subkeys))
	copy(out, subkeys)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Created.Before(out[j].Created)
	})
	return out
}

func sortedSignatures(sigs []gpg.Signature) []gpg.Signature {
	out := make([]gpg.Signature, len(sigs))
	copy(out, sigs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Class != out[j].Class {
			return out[i].Class < out[j].Class
		}
		return out[i].Created.Before(out[j].Created)
	})
	return out
}
