package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/arrsnap/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":  slog.LevelDebug,
		"DEBUG ": slog.LevelDebug,
		"info":   slog.LevelInfo,
		"warn":   slog.LevelWarn,
		"error":  slog.LevelError,
		"":       slog.LevelInfo,
		"loud":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNew_AutoIsJSONOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	log, closeFn, err := New(Options{Format: "auto", Output: &buf})
	require.NoError(t, err)
	defer func() { _ = closeFn() }()

	log.Info("sync complete", "items", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "sync complete", rec["msg"])
	assert.EqualValues(t, 3, rec["items"])
}

func TestNew_TextAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Format: "text", Level: "warn", Output: &buf})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown", "component", "syncer")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "component=syncer")
}

func TestNew_UnknownFormat(t *testing.T) {
	_, closeFn, err := New(Options{Format: "xml", Output: &bytes.Buffer{}})
	require.Error(t, err)
	assert.NoError(t, closeFn())
}

func TestNew_FileTee(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "arrsnap.log")

	log, closeFn, err := New(Options{Format: "json", File: path, Output: &buf})
	require.NoError(t, err)

	log.Info("to both")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "to both"))
	assert.Contains(t, buf.String(), "to both")
}

func TestFromConfig(t *testing.T) {
	opts := FromConfig(config.LogConfig{Level: "debug", Format: "text", File: "/var/log/a.log", MaxSizeMB: 5, MaxBackups: 2})
	assert.Equal(t, Options{Level: "debug", Format: "text", File: "/var/log/a.log", MaxSizeMB: 5, MaxBackups: 2}, opts)
}
