// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package auth

import (
	"errors"
	"sync"

	"github.com/zalando/go-keyring"
)

const (
	// DefaultKeyringService identifies the application in the OS credential store.
	DefaultKeyringService = "com.kusari.tasklink"
	// DefaultKeyringAccount is the key name for the stored refresh token.
	DefaultKeyringAccount = "google_tasks_refresh"
)

// CredentialStore keeps exactly one secret, the refresh token, for a fixed
// service/account pair.
type CredentialStore interface {
	Save(secret string) error
	// Load returns an ErrStoreNotFound AuthError when nothing is stored.
	Load() (string, error)
	// Delete returns an ErrStoreNotFound AuthError when nothing is stored.
	Delete() error
}

// KeyringStore is a CredentialStore backed by the OS-native secret facility:
// macOS Keychain, Windows Credential Manager or the Secret Service on Linux.
type KeyringStore struct {
	service string
	account string

	// serializes save/load/delete within the process
	mu sync.Mutex
}

func NewKeyringStore(service, account string) *KeyringStore {
	if service == "" {
		service = DefaultKeyringService
	}
	if account == "" {
		account = DefaultKeyringAccount
	}
	return &KeyringStore{service: service, account: account}
}

// Save stores the secret, overwriting any previous value.
func (s *KeyringStore) Save(secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := keyring.Set(s.service, s.account, secret); err != nil {
		return NewAuthErrorWithCause(ErrStore, "failed to save refresh token to keyring", err)
	}
	return nil
}

// Load returns the stored secret unchanged.
func (s *KeyringStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secret, err := keyring.Get(s.service, s.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", NewAuthError(ErrStoreNotFound, "no stored refresh token found, sign in first")
		}
		return "", NewAuthErrorWithCause(ErrStore, "failed to read refresh token from keyring", err)
	}
	return secret, nil
}

// Delete removes the stored secret.
func (s *KeyringStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := keyring.Delete(s.service, s.account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return NewAuthError(ErrStoreNotFound, "no stored refresh token to delete")
		}
		return NewAuthErrorWithCause(ErrStore, "failed to delete refresh token from keyring", err)
	}
	return nil
}

var _ CredentialStore = (*KeyringStore)(nil)
