package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	path := DefaultPath()
	assert.Contains(t, path, ".config/arrsnap/config.toml")
}

func TestDefaultPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	assert.Equal(t, "/custom/config/arrsnap/config.toml", DefaultPath())
}

func TestDiscover_EnvOverride(t *testing.T) {
	cfgPath := writeConfig(t, minimalConfig)
	t.Setenv("ARRSNAP_CONFIG", cfgPath)

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, cfgPath, path)
}

func TestDiscover_EnvOverrideNotFound(t *testing.T) {
	t.Setenv("ARRSNAP_CONFIG", "/nonexistent/config.toml")

	_, err := Discover()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARRSNAP_CONFIG")
	assert.False(t, errors.Is(err, ErrNotFound), "explicit path must not fall back")
}

// chdir moves into dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		assert.NoError(t, os.Chdir(origDir))
	})
}

func TestDiscover_CurrentDir(t *testing.T) {
	t.Setenv("ARRSNAP_CONFIG", "")
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "config.toml"), []byte(minimalConfig), 0644))
	chdir(t, tmp)

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, "config.toml", filepath.Base(path))
}

func TestDiscover_NotFound(t *testing.T) {
	t.Setenv("ARRSNAP_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/xdg")
	chdir(t, t.TempDir())

	_, err := Discover()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResolve_FallsBackToEmbeddedDefault(t *testing.T) {
	t.Setenv("ARRSNAP_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/xdg")
	t.Setenv("RD_API_KEY", "rd")
	t.Setenv("ENCRYPTION_PASSWORD", "pw")
	chdir(t, t.TempDir())

	cfg, source, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "(embedded default)", source)
	assert.Equal(t, "rd", cfg.RealDebrid.APIKey)
}

func TestResolve_ExplicitPath(t *testing.T) {
	cfgPath := writeConfig(t, minimalConfig)

	cfg, source, err := Resolve(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfgPath, source)
	assert.Equal(t, "secret", cfg.Encryption.Password)
}
