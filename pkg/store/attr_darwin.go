//go:build darwin

package store

import (
	"os"
	"os/exec"
)

func setAttributes(path string) error {
	if err := exec.Command("chflags", "hidden", path).Run(); err != nil {
		return err
	}

	return os.Chmod(path, 0444)
}

func clearAttributes(path string) error {
	if err := exec.Command("chflags", "nohidden", path).Run(); err != nil {
		return err
	}

	return os.Chmod(path, 0644)
}
