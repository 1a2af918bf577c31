package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Discover when no config file exists in any of
// the searched locations.
var ErrNotFound = errors.New("config not found")

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./config.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "arrsnap", "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. ARRSNAP_CONFIG environment variable
//  2. ./config.toml (current directory)
//  3. $XDG_CONFIG_HOME/arrsnap/config.toml
//  4. /etc/arrsnap/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv("ARRSNAP_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("ARRSNAP_CONFIG=%s: %w", envPath, err)
		}
		return envPath, nil
	}

	paths := []string{
		"./config.toml",
		DefaultPath(),
		"/etc/arrsnap/config.toml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
}

// Resolve loads the config at path, or discovers one when path is empty.
// With nothing discovered it falls back to the embedded default. The
// returned source names where the config came from.
func Resolve(path string) (cfg *Config, source string, err error) {
	if path == "" {
		path, err = Discover()
		if errors.Is(err, ErrNotFound) {
			cfg, err = LoadDefault()
			return cfg, "(embedded default)", err
		}
		if err != nil {
			return nil, "", err
		}
	}
	cfg, err = Load(path)
	return cfg, path, err
}
