//go:build !windows && !darwin

package store

import "os"

// no hidden flag outside windows/darwin, read-only is the best deterrent left

func setAttributes(path string) error {
	return os.Chmod(path, 0444)
}

func clearAttributes(path string) error {
	return os.Chmod(path, 0644)
}
