package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir(), ".scs")
}

func writeAsset(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestPath(t *testing.T) {
	s := New("/mods", ".scs")
	assert.Equal(t, filepath.Join("/mods", "premium_truck.scs"), s.Path("premium_truck"))
}

func TestIsInstalled(t *testing.T) {
	s := newTestStore(t)

	assert.False(t, s.IsInstalled("premium_truck"))

	writeAsset(t, s.Path("premium_truck"), "asset")
	assert.True(t, s.IsInstalled("premium_truck"))
}

func TestPlace(t *testing.T) {
	s := newTestStore(t)

	staged := filepath.Join(s.Dir, "premium_truck.scs.tmp")
	final := s.Path("premium_truck")
	writeAsset(t, staged, "new asset")

	assert.NoError(t, s.Place(staged, final))

	content, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "new asset", string(content))

	_, err = os.Stat(staged)
	assert.True(t, os.IsNotExist(err), "staging file must be gone after place")
}

func TestPlaceReplacesExisting(t *testing.T) {
	s := newTestStore(t)

	final := s.Path("premium_truck")
	writeAsset(t, final, "old asset")
	s.Protect(final)

	staged := filepath.Join(s.Dir, "premium_truck.scs.tmp")
	writeAsset(t, staged, "new asset")

	assert.NoError(t, s.Place(staged, final))

	content, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "new asset", string(content))
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)

	writeAsset(t, s.Path("premium_truck"), "asset")
	s.Protect(s.Path("premium_truck"))

	assert.NoError(t, s.Remove("premium_truck"))
	assert.False(t, s.IsInstalled("premium_truck"))
}

func TestRemoveNotInstalled(t *testing.T) {
	s := newTestStore(t)

	err := s.Remove("premium_truck")
	assert.ErrorIs(t, err, ErrNotInstalled)

	// nothing may have been created as a side effect
	entries, readErr := os.ReadDir(s.Dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestList(t *testing.T) {
	s := newTestStore(t)

	assert.Empty(t, s.List())

	writeAsset(t, s.Path("premium_truck"), "asset")
	writeAsset(t, s.Path("chrome_wheels"), "asset")
	writeAsset(t, filepath.Join(s.Dir, "notes.txt"), "not an asset")

	assert.Equal(t, []string{"chrome_wheels", "premium_truck"}, s.List())
}

func TestProtectUnprotectIdempotent(t *testing.T) {
	s := newTestStore(t)

	path := s.Path("premium_truck")
	writeAsset(t, path, "asset")

	// never panics or errors, even applied twice or to a missing file
	s.Protect(path)
	s.Protect(path)
	s.Unprotect(path)
	s.Unprotect(path)
	s.Protect(filepath.Join(s.Dir, "missing.scs"))
	s.Unprotect(filepath.Join(s.Dir, "missing.scs"))
}
