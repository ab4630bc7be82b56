// Package logx configures the structured logger the CLI and batch
// orchestrator share: a level and format selectable from flags, backed by
// log/slog. No environment variables are read.
package logx

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
)

// Format is the log output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var (
	// ErrUnknownLevel indicates an unrecognized log level string.
	ErrUnknownLevel = errors.New("unknown log level")
	// ErrUnknownFormat indicates an unrecognized log format string.
	ErrUnknownFormat = errors.New("unknown log format")
)

// Flags holds the CLI flag names used to configure logging, so callers can
// rename them without touching Config's field layout.
type Flags struct {
	Level  string
	Format string
}

// NewConfig returns a Config carrying f, with Level/Format unset until
// RegisterFlags or direct assignment fills them in.
func (f Flags) NewConfig() *Config {
	return &Config{Flags: f}
}

// Config holds resolved log level/format values, usually populated by
// RegisterFlags and a cobra command's flag parse.
type Config struct {
	Level  string
	Format string
	Flags  Flags
}

// NewConfig returns a Config with the default flag names "log-level" and
// "log-format".
func NewConfig() *Config {
	return Flags{Level: "log-level", Format: "log-format"}.NewConfig()
}

// RegisterFlags adds logging flags to flags, defaulting to info/text.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, "info", "log level: debug, info, warn, error")
	flags.StringVar(&c.Format, c.Flags.Format, "text", "log format: text, json")
}

// NewHandler builds a slog.Handler writing to w using c's level and format.
func (c *Config) NewHandler(w io.Writer) (slog.Handler, error) {
	return NewHandlerFromStrings(w, c.Level, c.Format)
}

// NewLogger builds a *slog.Logger writing to w using c's level and format.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	h, err := c.NewHandler(w)
	if err != nil {
		return nil, err
	}
	return slog.New(h), nil
}

// NewHandlerFromStrings parses level and format strings and builds the
// corresponding slog.Handler.
func NewHandlerFromStrings(w io.Writer, level, format string) (slog.Handler, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	fmtv, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return NewHandler(w, lvl, fmtv), nil
}

// NewHandler builds a slog.Handler for the given level and format.
func NewHandler(w io.Writer, level slog.Level, format Format) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(w, opts)
	default:
		return slog.NewTextHandler(w, opts)
	}
}

// ParseLevel parses a log level string.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
}

// ParseFormat parses a log format string.
func ParseFormat(format string) (Format, error) {
	switch Format(strings.ToLower(format)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
