// Package logger sets up the process-wide slog logger. Level and format are
// read from LOG_LEVEL and LOG_FORMAT.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Setup builds the default logger writing to w (stderr when w is nil).
func Setup(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	var h slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	}
	defaultLogger = slog.New(h)
	return defaultLogger
}

// L returns the default logger, setting it up on first use.
func L() *slog.Logger {
	if defaultLogger == nil {
		return Setup(nil)
	}
	return defaultLogger
}
