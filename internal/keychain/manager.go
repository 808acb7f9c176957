// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain is the persistent credential store for bizdesk.
// It keeps exactly one secret, the opaque session token, under a fixed key in the
// OS keychain/credential store. Absence of the key means "not logged in".
//
// macOS Keychain, Windows Credential Manager, the freedesktop Secret Service and
// pass are supported through github.com/99designs/keyring; an encrypted file
// backend under the XDG data directory covers headless hosts. All operations are
// thread-safe.
package keychain

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "bizdesk"

// KeyToken is the single key the session token is stored under.
const KeyToken = "token"

// Backend names accepted in configuration.
const (
	BackendAuto          = "auto"
	BackendKeychain      = "keychain"
	BackendWinCred       = "wincred"
	BackendSecretService = "secret-service"
	BackendPass          = "pass"
	BackendFile          = "file"
	BackendMemory        = "memory"
)

// ErrEmptyToken is returned when asked to persist an empty token.
var ErrEmptyToken = errors.New("refusing to store empty token")

// keychainBackend defines the interface for raw keychain operations that bypass
// the keyring library (the macOS `security` command).
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Manager provides thread-safe access to the stored session token.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// Options selects and configures the storage backend.
type Options struct {
	// Backend is one of the Backend* names; empty means BackendAuto.
	Backend string
	// FileDir is where the file backend keeps its encrypted items.
	FileDir string
	// FilePassword unlocks the file backend. When empty the user is prompted.
	FilePassword string
}

// New opens the credential store selected by opts.
func New(opts Options) (*Manager, error) {
	name := strings.ToLower(strings.TrimSpace(opts.Backend))
	if name == "" {
		name = BackendAuto
	}

	if name == BackendMemory {
		return NewWithKeyring(keyring.NewArrayKeyring(nil)), nil
	}

	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" && (name == BackendAuto || name == BackendKeychain) {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing(name, opts)
	if err != nil {
		return nil, err
	}
	return NewWithKeyring(ring), nil
}

// NewWithKeyring wraps an already opened keyring. Tests pass keyring.NewArrayKeyring.
func NewWithKeyring(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// openRing opens the keyring restricted to the backends allowed for name.
func openRing(name string, opts Options) (keyring.Keyring, error) {
	allowed, err := allowedBackends(name, runtime.GOOS)
	if err != nil {
		return nil, err
	}

	cfg := keyring.Config{
		ServiceName:             ServiceName,
		AllowedBackends:         allowed,
		PassPrefix:              ServiceName,
		WinCredPrefix:           ServiceName,
		LibSecretCollectionName: ServiceName,
		FileDir:                 opts.FileDir,
		FilePasswordFunc:        keyring.TerminalPrompt,
	}
	if opts.FilePassword != "" {
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(opts.FilePassword)
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" && name == BackendAuto {
			return nil, errors.New("macOS Keychain unavailable. Install 'pass' (brew install pass gnupg) or set keyring_backend to \"file\"")
		}
		return nil, fmt.Errorf("open credential store (%s): %w", name, err)
	}
	return ring, nil
}

// allowedBackends maps a configured backend name to keyring backend types.
// Auto prefers the platform's native store and keeps the encrypted file as last resort.
func allowedBackends(name, goos string) ([]keyring.BackendType, error) {
	switch name {
	case BackendAuto:
		switch goos {
		case "darwin":
			return []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend, keyring.FileBackend}, nil
		case "windows":
			return []keyring.BackendType{keyring.WinCredBackend, keyring.FileBackend}, nil
		default:
			return []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend, keyring.FileBackend}, nil
		}
	case BackendKeychain:
		return []keyring.BackendType{keyring.KeychainBackend}, nil
	case BackendWinCred:
		return []keyring.BackendType{keyring.WinCredBackend}, nil
	case BackendSecretService:
		return []keyring.BackendType{keyring.SecretServiceBackend}, nil
	case BackendPass:
		return []keyring.BackendType{keyring.PassBackend}, nil
	case BackendFile:
		return []keyring.BackendType{keyring.FileBackend}, nil
	default:
		return nil, fmt.Errorf("unknown keyring backend %q", name)
	}
}

// LoadToken retrieves the session token. A missing or empty entry yields ("", false, nil).
// This method is thread-safe.
func (m *Manager) LoadToken() (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Use native backend if available
	if m.backend != nil {
		token, err := m.backend.Get(KeyToken)
		if err != nil {
			if errors.Is(err, errNotFound) {
				return "", false, nil
			}
			return "", false, err
		}
		return token, token != "", nil
	}

	it, err := m.ring.Get(KeyToken)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(it.Data), len(it.Data) > 0, nil
}

// SaveToken stores the session token, replacing any previous one.
// This method is thread-safe.
func (m *Manager) SaveToken(token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(KeyToken, token)
	}

	return m.ring.Set(keyring.Item{
		Key:         KeyToken,
		Data:        []byte(token),
		Label:       ServiceName + " session token",
		Description: "bizdesk API session token",
	})
}

// ClearToken removes the session token. Removing a missing token is not an error.
// This method is thread-safe.
func (m *Manager) ClearToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		if err := m.backend.Delete(KeyToken); err != nil && !errors.Is(err, errNotFound) {
			return err
		}
		return nil
	}

	if err := m.ring.Remove(KeyToken); err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// isNotFound treats the various backend spellings of "no such item" alike.
// The file backend surfaces os.ErrNotExist, the others keyring.ErrKeyNotFound.
func isNotFound(err error) bool {
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "no such file")
}
