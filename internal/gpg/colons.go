package gpg

import (
	"strconv"
	"strings"
	"time"
)

// parseColonListing structures a --with-colons key listing into keys.
// Records arrive in document order: a pub/sec line, its fpr line, then
// interleaved uid, sig/rev, spk and sub/ssb lines. That order is
// preserved; nothing here sorts.
func parseColonListing(listing string, keyType KeyType) []Key {
	var keys []Key
	var cur *Key
	var curUID *UserID
	var curSig *Signature
	// fpr records apply to the most recently seen key material line.
	var lastMaterial *Subkey

	flush := func() {
		if cur == nil {
			return
		}
		if curUID != nil {
			if curSig != nil {
				curUID.Signatures = append(curUID.Signatures, *curSig)
				curSig = nil
			}
			cur.UserIDs = append(cur.UserIDs, *curUID)
			curUID = nil
		}
		keys = append(keys, *cur)
		cur = nil
	}
	endUID := func() {
		if curUID == nil {
			return
		}
		if curSig != nil {
			curUID.Signatures = append(curUID.Signatures, *curSig)
			curSig = nil
		}
		cur.UserIDs = append(cur.UserIDs, *curUID)
		curUID = nil
	}
	endSig := func() {
		if curSig != nil && curUID != nil {
			curUID.Signatures = append(curUID.Signatures, *curSig)
		}
		curSig = nil
	}

	for _, line := range strings.Split(listing, "\n") {
		f := strings.Split(line, ":")
		switch f[0] {
		case "pub", "sec":
			flush()
			cur = &Key{Type: keyType}
			cur.Primary = parseKeyMaterial(f)
			lastMaterial = &cur.Primary
		case "sub", "ssb":
			if cur == nil {
				continue
			}
			endUID()
			cur.Subkeys = append(cur.Subkeys, parseKeyMaterial(f))
			lastMaterial = &cur.Subkeys[len(cur.Subkeys)-1]
		case "fpr":
			if lastMaterial != nil && len(f) > 9 {
				lastMaterial.Fingerprint = f[9]
			}
		case "uid":
			if cur == nil {
				continue
			}
			endUID()
			uid := parseUserID(f)
			curUID = &uid
		case "sig", "rev":
			if cur == nil || curUID == nil {
				continue
			}
			endSig()
			sig := parseSignature(f, cur.Primary.ID)
			if f[0] == "rev" {
				sig.Revoked = true
			}
			curSig = &sig
		case "spk":
			if curSig == nil {
				continue
			}
			if n, ok := parseNotation(f); ok {
				curSig.Notations = append(curSig.Notations, n)
			}
		}
	}
	flush()
	return keys
}

// parseKeyMaterial reads a pub/sec/sub/ssb record.
//
// Fields: 1 validity, 2 length, 3 algorithm, 4 key ID, 5 creation,
// 6 expiration, 11 capabilities.
func parseKeyMaterial(f []string) Subkey {
	var s Subkey
	if len(f) > 4 {
		s.ID = f[4]
	}
	if len(f) > 2 {
		s.Length, _ = strconv.Atoi(f[2])
	}
	if len(f) > 3 {
		s.Algorithm, _ = strconv.Atoi(f[3])
	}
	if len(f) > 5 {
		s.Created = parseEpoch(f[5])
	}
	if len(f) > 6 {
		s.Expires = parseEpoch(f[6])
	}
	if len(f) > 1 {
		switch f[1] {
		case "e":
			s.Expired = true
		case "r":
			s.Revoked = true
		case "i":
			s.Invalid = true
		case "d":
			s.Disabled = true
		}
	}
	if len(f) > 11 {
		caps := f[11]
		s.CanSign = strings.ContainsRune(caps, 's')
		s.CanCertify = strings.ContainsRune(caps, 'c')
		s.CanEncrypt = strings.ContainsRune(caps, 'e')
		s.CanAuthenticate = strings.ContainsRune(caps, 'a')
		if strings.ContainsRune(caps, 'D') {
			s.Disabled = true
		}
	}
	if !s.Expires.IsZero() && s.Expires.Before(time.Now()) {
		s.Expired = true
	}
	return s
}

// parseUserID reads a uid record. Field 9 holds the escaped
// "Name (comment) <email>" string, field 1 the computed validity.
func parseUserID(f []string) UserID {
	var uid UserID
	if len(f) > 1 {
		uid.Validity = parseValidity(f[1])
	}
	if len(f) > 9 {
		uid.Name, uid.Email = splitIdentity(unescapeColons(f[9]))
	}
	return uid
}

// parseSignature reads a sig/rev record. Field 10 is the signature
// class with an exportability suffix ("13x" exportable, "10l" local).
func parseSignature(f []string, primaryID string) Signature {
	var sig Signature
	if len(f) > 4 {
		sig.SignerKeyID = f[4]
		sig.Self = f[4] == primaryID
	}
	if len(f) > 5 {
		sig.Created = parseEpoch(f[5])
	}
	if len(f) > 6 {
		sig.Expires = parseEpoch(f[6])
		if !sig.Expires.IsZero() && sig.Expires.Before(time.Now()) {
			sig.Expired = true
		}
	}
	if len(f) > 9 && !sig.Self {
		sig.SignerUserID = unescapeColons(f[9])
	}
	if len(f) > 10 && len(f[10]) >= 2 {
		if class, err := strconv.ParseInt(f[10][:2], 16, 32); err == nil {
			sig.Class = int(class)
		}
		sig.NonExportable = strings.HasSuffix(f[10], "l")
	}
	if len(f) > 1 {
		switch f[1] {
		case "-", "%":
			sig.Invalid = true
		}
	}
	return sig
}

// parseNotation reads an spk record carrying notation data (subpacket
// type 20): field 1 type, field 2 flags (0x80000000 human-readable,
// 0x40000000 critical in this binding's normalized form), field 4 the
// escaped "name=value" payload.
func parseNotation(f []string) (Notation, bool) {
	if len(f) < 5 || f[1] != "20" {
		return Notation{}, false
	}
	name, value, ok := strings.Cut(unescapeColons(f[4]), "=")
	if !ok {
		return Notation{}, false
	}
	flags, _ := strconv.ParseUint(f[2], 10, 64)
	return Notation{
		Name:          name,
		Value:         value,
		HumanReadable: flags&0x80000000 != 0,
		Critical:      flags&0x40000000 != 0,
	}, true
}

func parseValidity(s string) Validity {
	switch s {
	case "q":
		return ValidityUndefined
	case "n":
		return ValidityNever
	case "m":
		return ValidityMarginal
	case "f":
		return ValidityFull
	case "u":
		return ValidityUltimate
	default:
		return ValidityUnknown
	}
}

// parseEpoch accepts both of the engine's timestamp spellings: seconds
// since the epoch and ISO dates from very old keys.
func parseEpoch(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC()
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}

// splitIdentity separates "Name (comment) <email>" into name and email.
// The comment stays with the name; the engine already validated it.
func splitIdentity(s string) (name, email string) {
	open := strings.LastIndex(s, "<")
	end := strings.LastIndex(s, ">")
	if open >= 0 && end > open {
		return strings.TrimSpace(s[:open]), s[open+1 : end]
	}
	return strings.TrimSpace(s), ""
}

// unescapeColons reverses the engine's %-escaping of field contents.
func unescapeColons(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
				b.WriteByte(byte(v))
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
