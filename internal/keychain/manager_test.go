// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_TokenLifecycle(t *testing.T) {
	m := NewWithKeyring(keyring.NewArrayKeyring(nil))

	token, ok, err := m.LoadToken()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, token)

	require.NoError(t, m.SaveToken("tok-1"))
	token, ok, err = m.LoadToken()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, m.SaveToken("tok-2"))
	token, _, err = m.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)

	require.NoError(t, m.ClearToken())
	_, ok, err = m.LoadToken()
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing twice is fine.
	require.NoError(t, m.ClearToken())
}

func TestManager_SaveEmptyToken(t *testing.T) {
	m := NewWithKeyring(keyring.NewArrayKeyring(nil))
	assert.ErrorIs(t, m.SaveToken(""), ErrEmptyToken)
}

func TestManager_EmptyItemIsAbsent(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{{Key: KeyToken, Data: nil}})
	m := NewWithKeyring(ring)

	_, ok, err := m.LoadToken()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNew_MemoryBackend(t *testing.T) {
	m, err := New(Options{Backend: BackendMemory})
	require.NoError(t, err)

	require.NoError(t, m.SaveToken("abc123"))
	token, ok, err := m.LoadToken()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)
}

func TestNew_FileBackend(t *testing.T) {
	dir := t.TempDir()
	opts := Options{Backend: BackendFile, FileDir: dir, FilePassword: "test-password"}

	m, err := New(opts)
	require.NoError(t, err)
	require.NoError(t, m.ClearToken(), "clearing a missing file item must not fail")
	require.NoError(t, m.SaveToken("persisted-token"))

	// A second manager over the same directory simulates a process restart.
	reopened, err := New(opts)
	require.NoError(t, err)
	token, ok, err := reopened.LoadToken()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted-token", token)
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(Options{Backend: "floppy"})
	assert.Error(t, err)
}

func TestAllowedBackends(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		goos    string
		want    []keyring.BackendType
		wantErr bool
	}{
		{
			name:    "auto on linux prefers secret service",
			backend: BackendAuto,
			goos:    "linux",
			want:    []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend, keyring.FileBackend},
		},
		{
			name:    "auto on windows",
			backend: BackendAuto,
			goos:    "windows",
			want:    []keyring.BackendType{keyring.WinCredBackend, keyring.FileBackend},
		},
		{
			name:    "auto on darwin",
			backend: BackendAuto,
			goos:    "darwin",
			want:    []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend, keyring.FileBackend},
		},
		{
			name:    "explicit file",
			backend: BackendFile,
			goos:    "linux",
			want:    []keyring.BackendType{keyring.FileBackend},
		},
		{
			name:    "unknown",
			backend: "tape",
			goos:    "linux",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := allowedBackends(tt.backend, tt.goos)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
