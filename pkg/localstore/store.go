// Package localstore is the client's persistent key-value storage: the guest
// cart snapshot, the bearer token, the guest-mode preference, and the pending
// intent all live here. Writes are synchronous so that a reload immediately
// after a mutation observes the latest state.
package localstore

import "encoding/json"

// Store is a synchronous, string-valued key-value store.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// GetJSON reads and decodes a persisted JSON value. Malformed payloads are
// discarded (the key is removed) rather than surfaced as errors, so stale or
// corrupted state never wedges the client.
func GetJSON(s Store, key string, dest any) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		_ = s.Delete(key)
		return false, nil
	}
	return true, nil
}

// SetJSON encodes and persists a JSON value under the given key.
func SetJSON(s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(key, string(raw))
}
