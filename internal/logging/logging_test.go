package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, "json", slog.LevelInfo))

	logger.Debug("hidden")
	logger.Info("entry flushed", "bytes", 68)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "entry flushed", line["msg"])
	assert.InDelta(t, 68, line["bytes"], 0)
}

func TestNewHandler_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, "text", slog.LevelDebug))

	logger.Debug("writer initialized", "max_buffer_points", 10000, "output", "")

	out := buf.String()
	assert.Contains(t, out, "writer initialized")
	assert.Contains(t, out, "max_buffer_points=10000")
	assert.NotContains(t, out, "output=", "empty strings are dropped")
	assert.NotContains(t, out, "\x1b[", "no colors when not a terminal")
}
