// Package logging configures structured logging for the luatable CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// EnvLevel is the environment variable consulted for the log level.
const EnvLevel = "LOG_LEVEL"

// ParseLevel parses debug, info, warn or error (case-insensitive).
// An empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q, valid levels are: debug, info, warn, error", s)
	}
}

// New returns a JSON logger writing to w, tagged with the program name and version.
func New(w io.Writer, name, version string, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(
		slog.String("name", name),
		slog.String("version", version),
	)
}

// SetDefault installs a JSON logger as the slog default.
func SetDefault(w io.Writer, name, version, level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	slog.SetDefault(New(w, name, version, lvl))
	return nil
}
