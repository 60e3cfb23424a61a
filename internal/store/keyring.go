package store

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "vibescan"

// KeyringStore implements [Store] on the OS keychain.
//
// Preferred backend for the user token on desktops with a keychain; the
// SQLite [StateStore] remains the fallback when no keychain is available.
type KeyringStore struct{}

var _ Store = (*KeyringStore)(nil)

// NewKeyringStore creates a new [KeyringStore].
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

// Get returns the value for key, or [ErrNotFound] if unset.
func (k *KeyringStore) Get(key string) (string, error) {
	value, err := keyring.Get(keyringService, key)
	if err == keyring.ErrNotFound {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read keychain: %w", err)
	}
	return value, nil
}

// Set writes the value for key, overwriting any existing value.
func (k *KeyringStore) Set(key, value string) error {
	if err := keyring.Set(keyringService, key, value); err != nil {
		return fmt.Errorf("failed to write keychain: %w", err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (k *KeyringStore) Delete(key string) error {
	err := keyring.Delete(keyringService, key)
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("failed to delete keychain entry: %w", err)
	}
	return nil
}
