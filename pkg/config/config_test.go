package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigNewYAML(t *testing.T) {
	cfg, err := New("testdata/base.yaml")
	assert.NoError(t, err)

	assert.Equal(t, "http://api.test.local/", cfg.APIURL)
	assert.Equal(t, "/home/test/mods", cfg.InstallPath)
	assert.Equal(t, ".scs", cfg.Extension)
}

func TestConfigNewTOML(t *testing.T) {
	cfg, err := New("testdata/base.toml")
	assert.NoError(t, err)

	assert.Equal(t, "http://api.test.local/", cfg.APIURL)
	assert.Equal(t, "/home/test/mods", cfg.InstallPath)
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := New("testdata/does-not-exist.yaml")
	assert.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultExtension, cfg.Extension)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.NotEmpty(t, cfg.InstallPath)
}

func TestConfigMkdirAll(t *testing.T) {
	cfg := &Config{InstallPath: filepath.Join(t.TempDir(), "mods")}

	assert.NoError(t, cfg.MkdirAll())

	info, err := os.Stat(cfg.InstallPath)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestConfigUnknownSuffix(t *testing.T) {
	cfg := &Config{}
	err := cfg.Load("testdata/base.json")
	assert.Error(t, err)
}
