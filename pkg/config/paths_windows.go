//go:build windows

package config

import (
	"path/filepath"

	"golang.org/x/sys/windows"
)

const gameFolder = "Euro Truck Simulator 2"

// defaultInstallPath resolves the game's mod directory underneath the user's
// real Documents folder, which may be redirected (for example into OneDrive).
func defaultInstallPath() (string, error) {
	documents, err := windows.KnownFolderPath(windows.FOLDERID_Documents, windows.KF_FLAG_DEFAULT)
	if err != nil {
		return "", err
	}

	return filepath.Join(documents, gameFolder, "mod"), nil
}
