package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/taktplan/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextToConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.LoggingConfig{Level: "warn", Format: "text"}, &buf)
	require.NoError(t, err)
	defer l.Close()

	l.Info("hidden")
	l.Warn("task_sync_skipped", "unit", "Unit 5")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=task_sync_skipped")
	assert.Contains(t, out, `unit="Unit 5"`)
}

func TestNew_JSONToConsoleAndFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "taktplan.log")
	l, err := New(config.LoggingConfig{Level: "debug", Format: "json", File: path, MaxSizeMB: 1, MaxBackups: 1}, &buf)
	require.NoError(t, err)

	l.Debug("service_use_case", "use_case", "sync", "created", 4)
	require.NoError(t, l.Close())

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "service_use_case", rec["msg"])
	assert.Equal(t, "sync", rec["use_case"])
	assert.EqualValues(t, 4, rec["created"])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))
}

func TestNew_NoWriters(t *testing.T) {
	l, err := New(config.LoggingConfig{Level: "info"}, nil)
	require.NoError(t, err)
	l.Info("dropped")
	assert.NoError(t, l.Close())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}
