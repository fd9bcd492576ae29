package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pelletier/go-toml/v2"
)

const (
	// DefaultAPIURL - the catalog/entitlement service, the sole source of truth
	// for descriptors and serial keys
	DefaultAPIURL = "http://lynx96.pythonanywhere.com/"

	// DefaultExtension - the asset extension used for on-disk mod files
	DefaultExtension = ".scs"

	// DefaultTimeout - bound on catalog requests so an unreachable server never
	// hangs a command indefinitely
	DefaultTimeout = 30 * time.Second
)

type Config struct {
	// APIURL - base URL of the remote catalog service. Every authentication,
	// entitlement and key rotation call goes through this endpoint.
	APIURL string `yaml:"api_url" toml:"api_url"`

	// InstallPath - the game's mod directory. This path is set by default based
	// on the operating system type (Documents on Windows, Application Support
	// on macOS). File presence under this path is the sole source of truth for
	// install state.
	InstallPath string `yaml:"install_path" toml:"install_path"`

	// Extension - the asset file extension, defaults to .scs
	Extension string `yaml:"extension" toml:"extension"`

	// Timeout - bound applied to catalog service requests
	Timeout time.Duration `yaml:"timeout" toml:"timeout"`
}

// MkdirAll ensures the mod directory exists. Transfers stage alongside the
// final asset, so no separate staging directory is needed.
func (c *Config) MkdirAll() error {
	return os.MkdirAll(c.InstallPath, 0755)
}

// Load - load the configuration file
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if strings.HasSuffix(path, ".yaml") {
		return yaml.Unmarshal(data, c)
	} else if strings.HasSuffix(path, ".toml") {
		return toml.Unmarshal(data, c)
	}

	return fmt.Errorf("unknown configuration file suffix")
}

// New - create a new configuration object
func New(path string) (*Config, error) {
	cfg := &Config{}
	if err := cfg.Load(path); err != nil {
		return cfg, err
	}

	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}

	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.InstallPath == "" {
		installPath, err := defaultInstallPath()
		if err != nil {
			return cfg, err
		}
		cfg.InstallPath = installPath
	}

	return cfg, nil
}
