package logx

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseLevel("bogus")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestParseFormat(t *testing.T) {
	got, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, got)

	got, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, got)

	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestNewHandlerFromStringsSelectsJSONEncoding(t *testing.T) {
	var buf bytes.Buffer
	handler, err := NewHandlerFromStrings(&buf, "info", "json")
	require.NoError(t, err)

	slog.New(handler).Info("hello", "k", "v")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestNewHandlerFromStringsRejectsUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewHandlerFromStrings(&buf, "verbose", "text")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestConfigNewLoggerRespectsLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Level: "warn", Format: "text"}
	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("suppressed")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}
