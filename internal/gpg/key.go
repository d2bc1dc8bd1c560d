// Package gpg is the binding to the external GnuPG engine. It structures
// the engine's key listings into Key/Subkey/UserID/Signature/Notation
// records and wraps the mutating operations (import, export, delete, sign,
// receive, send, generate). Nothing above this package touches the engine's
// wire formats.
package gpg

import (
	"fmt"
	"strings"
	"time"
)

// KeyType selects one of the two disjoint keyring collections.
type KeyType int

const (
	Public KeyType = iota
	Secret
)

func (t KeyType) String() string {
	if t == Secret {
		return "sec"
	}
	return "pub"
}

// ParseKeyType accepts the command-language spellings of a key type.
func ParseKeyType(s string) (KeyType, error) {
	switch strings.ToLower(s) {
	case "pub", "public":
		return Public, nil
	case "sec", "secret":
		return Secret, nil
	}
	return Public, fmt.Errorf("invalid key type %q", s)
}

// Validity is the engine-computed validity of a user ID.
type Validity int

const (
	ValidityUnknown Validity = iota
	ValidityUndefined
	ValidityNever
	ValidityMarginal
	ValidityFull
	ValidityUltimate
)

func (v Validity) String() string {
	switch v {
	case ValidityUndefined:
		return "undefined"
	case ValidityNever:
		return "never"
	case ValidityMarginal:
		return "marginal"
	case ValidityFull:
		return "full"
	case ValidityUltimate:
		return "ultimate"
	default:
		return "unknown"
	}
}

// Notation is a name=value annotation attached to a signature.
type Notation struct {
	Name          string
	Value         string
	HumanReadable bool
	Critical      bool
}

// Signature is a certification on a user ID.
type Signature struct {
	// Class is the OpenPGP certification class: 0x10 (no indication)
	// through 0x13 (extensive verification).
	Class         int
	Self          bool
	SignerKeyID   string
	SignerUserID  string
	Created       time.Time
	Expires       time.Time
	Expired       bool
	Revoked       bool
	Invalid       bool
	NonExportable bool
	Notations     []Notation
}

// UserID is an identity bound to a key.
type UserID struct {
	Name       string
	Email      string
	Validity   Validity
	Signatures []Signature
}

// String returns the identity in "name <email>" form.
func (u UserID) String() string {
	if u.Email == "" {
		return u.Name
	}
	if u.Name == "" {
		return fmt.Sprintf("<%s>", u.Email)
	}
	return fmt.Sprintf("%s <%s>", u.Name, u.Email)
}

// Subkey is an auxiliary key bound to a primary key.
type Subkey struct {
	Fingerprint     string
	ID              string
	Algorithm       int
	Length          int
	Created         time.Time
	Expires         time.Time
	CanSign         bool
	CanCertify      bool
	CanEncrypt      bool
	CanAuthenticate bool
	Expired         bool
	Revoked         bool
	Disabled        bool
	Invalid         bool
	Qualified       bool
}

// Key is a primary key together with its subkeys and user IDs, in
// engine-provided order.
type Key struct {
	Type    KeyType
	Primary Subkey
	Subkeys []Subkey
	UserIDs []UserID

	// IsDefault marks the configured default signing key. It is set by
	// the repository after a load, not by the listing itself.
	IsDefault bool
}

// Fingerprint returns the primary key fingerprint.
func (k *Key) Fingerprint() string { return k.Primary.Fingerprint }

// ID returns the long key ID in 0x-prefixed form.
func (k *Key) ID() string { return "0x" + k.Primary.ID }

// Flags renders subkey capabilities in the fixed scea order, one dash
// per missing capability.
func (s Subkey) Flags() string {
	var b strings.Builder
	for _, f := range []struct {
		has bool
		c   byte
	}{
		{s.CanSign, 's'},
		{s.CanCertify, 'c'},
		{s.CanEncrypt, 'e'},
		{s.CanAuthenticate, 'a'},
	} {
		if f.has {
			b.WriteByte(f.c)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// AlgorithmLabel returns the short algorithm name with the key length
// where the length is meaningful, or "[unknown]" for identifiers this
// binding does not recognize.
func (s Subkey) AlgorithmLabel() string {
	switch s.Algorithm {
	case 1, 2, 3:
		return fmt.Sprintf("rsa%d", s.Length)
	case 16:
		return fmt.Sprintf("elg%d", s.Length)
	case 17:
		return fmt.Sprintf("dsa%d", s.Length)
	case 18:
		return "cv25519"
	case 19:
		return "nistp256"
	case 22:
		return "ed25519"
	default:
		return "[unknown]"
	}
}

// StatusTags returns the bracketed status annotations in a stable order.
func (s Subkey) StatusTags() []string {
	var tags []string
	if s.Expired {
		tags = append(tags, "[expired]")
	}
	if s.Revoked {
		tags = append(tags, "[revoked]")
	}
	if s.Disabled {
		tags = append(tags, "[disabled]")
	}
	if s.Invalid {
		tags = append(tags, "[invalid]")
	}
	if s.Qualified {
		tags = append(tags, "[qualified]")
	}
	return tags
}
