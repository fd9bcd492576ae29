//go:build !windows && !darwin

package config

import (
	"os"
	"path/filepath"
)

const gameFolder = "Euro Truck Simulator 2"

func defaultInstallPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".local", "share", gameFolder, "mod"), nil
}
