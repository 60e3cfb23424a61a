// Package store persists application state across process restarts.
//
// Two concerns live here: a small opaque key-value store for credential
// state (user token, PKCE code verifier, first-run flag) and a scan history
// repository. Values in the key-value store are single opaque strings, so no
// schema versioning is needed.
package store

import "fmt"

// Well-known state keys.
const (
	KeyUserToken    = "user_token"
	KeyCodeVerifier = "code_verifier"
	KeySplashSeen   = "splash_seen"
)

// ErrNotFound is returned when a state key has no persisted value.
var ErrNotFound = fmt.Errorf("state key not found")

// Store defines persisted key-value state access.
//
// Implementations: [StateStore] (SQLite), [KeyringStore] (OS keychain),
// [MemoryStore] (tests).
type Store interface {
	// Get returns the value for key, or ErrNotFound if unset.
	Get(key string) (string, error)

	// Set writes the value for key, overwriting any existing value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
