package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataDir returns the XDG data directory for cockpit.
// It respects XDG_DATA_HOME if set, otherwise falls back to ~/.local/share/cockpit
func DataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "cockpit"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".local", "share", "cockpit"), nil
}
