// ABOUTME: XDG-based data directory resolution for the kjosturett CLI.
// ABOUTME: Checks KJOSTURETT_DATA_DIR and XDG_DATA_HOME, falling back to ~/.local/share/kjosturett.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultDataDir returns the default data directory for persistent state.
// It checks XDG_DATA_HOME first, then falls back to ~/.local/share/kjosturett.
func defaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "kjosturett"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, ".local", "share", "kjosturett"), nil
}

// resolveDataDir picks the flag value, then KJOSTURETT_DATA_DIR, then the
// XDG default, and makes sure the directory exists.
func resolveDataDir(flagValue string) (string, error) {
	dir := flagValue
	if dir == "" {
		dir = os.Getenv("KJOSTURETT_DATA_DIR")
	}
	if dir == "" {
		var err error
		if dir, err = defaultDataDir(); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}

// databasePath is the SQLite file inside the data directory.
func databasePath(dataDir string) string {
	return filepath.Join(dataDir, "kjosturett.db")
}
