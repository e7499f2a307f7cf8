package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "info", FormatJSON)
	require.NoError(t, err)

	log.Debug("hidden %d", 1)
	log.Warn("CreateBooking: item id=%d not rentable", 42)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "CreateBooking: item id=42 not rentable", entry["msg"])
}

func TestLogger_TextFormatWithAttributes(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "debug", FormatText)
	require.NoError(t, err)

	log.With("component", "jobs").Debug("expired %d holds", 3)

	out := buf.String()
	assert.Contains(t, out, "expired 3 holds")
	assert.Contains(t, out, "component=jobs")
}

func TestLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	log, err := New(path, "error", FormatJSON)
	require.NoError(t, err)

	log.Info("skipped")
	log.Error("failed: %v", "boom")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "skipped")
	assert.Contains(t, string(data), "failed: boom")
}

func TestParseLevel(t *testing.T) {
	_, err := ParseLevel("verbose")
	assert.Error(t, err)

	lvl, err := ParseLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, "WARN", lvl.String())
}
