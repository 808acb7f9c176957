// Package xdg provides helpers to resolve XDG Base Directory paths for bizdesk.
// It implements the XDG Base Directory specification for determining locations
// for the configuration file and the file-backed credential store.
//
// Directories are created with private permissions since the data directory
// may hold the encrypted session token when no OS keychain is available.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under each XDG base directory.
const AppName = "bizdesk"

// ConfigDir returns the XDG config directory for bizdesk.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/bizdesk when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the XDG data directory for bizdesk.
// It falls back to ~/.local/share/bizdesk when XDG_DATA_HOME is unset.
func DataDir() (string, error) {
	return resolve("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func resolve(envVar, homeFallback string) (string, error) {
	base := os.Getenv(envVar)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeFallback)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
