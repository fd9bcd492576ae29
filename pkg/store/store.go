// Package store owns the local installation directory. File presence under
// the directory is the sole source of truth for install state; there is no
// separate ledger to drift out of sync.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrNotInstalled is reported by Remove when no asset file exists for the
// internal name.
var ErrNotInstalled = errors.New("mod is not installed")

type Store struct {
	// Dir - the installation directory, shared across all mods but
	// partitioned by internal name
	Dir string

	// Extension - the asset file extension, including the leading dot
	Extension string
}

func New(dir, extension string) *Store {
	return &Store{Dir: dir, Extension: extension}
}

// Path returns the canonical asset path for an internal name.
func (s *Store) Path(internalName string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s%s", internalName, s.Extension))
}

// IsInstalled probes the filesystem, the result is never cached.
func (s *Store) IsInstalled(internalName string) bool {
	_, err := os.Stat(s.Path(internalName))
	return err == nil
}

// Place moves a fully staged file onto its final path. The rename is
// same-volume so a concurrent observer either sees no file or a complete
// one, never a partial write. Any previous asset at the final path is
// removed first.
func (s *Store) Place(stagedPath, finalPath string) error {
	if _, err := os.Stat(finalPath); err == nil {
		s.Unprotect(finalPath)
		if err := os.Remove(finalPath); err != nil {
			return fmt.Errorf("removing previous asset: %w", err)
		}
	}

	if err := os.Rename(stagedPath, finalPath); err != nil {
		return fmt.Errorf("placing asset: %w", err)
	}

	logrus.Debugf("placed asset: %s", finalPath)

	return nil
}

// Remove unprotects and deletes the asset for an internal name.
func (s *Store) Remove(internalName string) error {
	path := s.Path(internalName)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotInstalled
		}
		return err
	}

	s.Unprotect(path)

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing asset: %w", err)
	}

	logrus.Debugf("removed asset: %s", path)

	return nil
}

// List returns the internal names of every installed asset, derived from
// directory contents.
func (s *Store) List() []string {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		logrus.WithError(err).Debug("unable to read install directory")
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), s.Extension) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), s.Extension))
	}

	sort.Strings(names)

	return names
}

// Protect applies the platform's nearest equivalent of hidden, system and
// read-only attributes. Attribute changes are best-effort hardening, a
// platform failure is logged and never escalated.
func (s *Store) Protect(path string) {
	if err := setAttributes(path); err != nil {
		logrus.WithError(err).Warnf("unable to protect %s", path)
	}
}

// Unprotect removes the attributes applied by Protect. Idempotent and
// best-effort, same as Protect.
func (s *Store) Unprotect(path string) {
	if err := clearAttributes(path); err != nil {
		logrus.WithError(err).Warnf("unable to unprotect %s", path)
	}
}
