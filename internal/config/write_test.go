package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arrsnap", "config.toml")

	require.NoError(t, WriteDefault(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(content), "[realdebrid]")
	assert.Contains(t, string(content), "[encryption]")
	assert.Contains(t, string(content), "${RD_API_KEY")
	assert.Contains(t, string(content), "${ENCRYPTION_PASSWORD")
	assert.Contains(t, string(content), "${TMDB_API_KEY")
	assert.Equal(t, DefaultConfig(), string(content))
}

func TestWriteDefault_ThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, WriteDefault(path))

	t.Setenv("RD_API_KEY", "test-rd-key")
	t.Setenv("ENCRYPTION_PASSWORD", "test-password")
	t.Setenv("TMDB_API_KEY", "test-tmdb-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test-rd-key", cfg.RealDebrid.APIKey)
	assert.Equal(t, "test-tmdb-key", cfg.TMDB.APIKey)
	assert.Equal(t, "full", cfg.Sync.Mode)
	assert.Equal(t, "library.enc", cfg.Storage.SnapshotFile)
}

func TestConfig_Write(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Dir = "/srv/arrsnap"

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, cfg.Write(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "written config holds credentials")

	got, err := LoadWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/arrsnap", got.Storage.Dir)
	assert.Equal(t, "rd", got.RealDebrid.APIKey)
}
