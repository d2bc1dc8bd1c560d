package main

import (
	"strings"

	"github.com/keyrig/keyrig/internal/gpg"
)

// keyRepository caches the public and secret keyrings loaded from the
// engine and tracks which tab is active. All engine calls go through
// tea.Cmd workers; the repository itself only holds results.
type keyRepository struct {
	engine     *gpg.Context
	defaultKey string

	public []gpg.Key
	secret []gpg.Key
	active gpg.KeyType
}

func newKeyRepository(engine *gpg.Context, defaultKey string) *keyRepository {
	return &keyRepository{
		engine:     engine,
		defaultKey: strings.ToUpper(strings.TrimPrefix(defaultKey, "0x")),
		active:     gpg.Public,
	}
}

// store replaces one keyring, marking the default key if configured.
func (r *keyRepository) store(keyType gpg.KeyType, keys []gpg.Key) {
	for i := range keys {
		keys[i].IsDefault = r.isDefault(keys[i])
	}
	switch keyType {
	case gpg.Secret:
		r.secret = keys
	default:
		r.public = keys
	}
}

func (r *keyRepository) isDefault(key gpg.Key) bool {
	if r.defaultKey == "" {
		return false
	}
	return strings.HasSuffix(key.Fingerprint(), r.defaultKey) ||
		strings.EqualFold(r.defaultKey, key.Primary.ID)
}

func (r *keyRepository) keys() []gpg.Key {
	if r.active == gpg.Secret {
		return r.secret
	}
	return r.public
}

func (r *keyRepository) setActive(keyType gpg.KeyType) {
	r.active = keyType
}

// find looks a key up by fingerprint, long ID or short ID suffix
// across both keyrings.
func (r *keyRepository) find(id string) (gpg.Key, bool) {
	id = strings.ToUpper(strings.TrimPrefix(strings.TrimPrefix(id, "0x"), "0X"))
	for _, ring := range [][]gpg.Key{r.secret, r.public} {
		for _, key := range ring {
			if strings.HasSuffix(key.Fingerprint(), id) {
				return key, true
			}
		}
	}
	return gpg.Key{}, false
}
