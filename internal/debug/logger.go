package debug

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LevelVerbose sits below slog.LevelDebug and is used for per-block chatter.
const LevelVerbose = slog.Level(-8)

// DefaultInstance is the log instance name of the test binary.
const DefaultInstance = "test-LMS"

// Levels lists the accepted level names, most verbose first.
var Levels = []string{"verbose", "debug", "info", "warn", "error"}

// ParseLevel maps a level name to its slog level.
func ParseLevel(levelStr string) (slog.Level, error) {
	switch strings.ToLower(levelStr) {
	case "verbose":
		return LevelVerbose, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log-level %q: must be one of %s", levelStr, strings.Join(Levels, ", "))
}

// NewLogger creates an isolated logger writing to outW. Unknown levels fall
// back to info; any format other than "json" produces text. Every record is
// tagged with the instance name.
func NewLogger(outW io.Writer, levelStr, formatStr, instance string) *slog.Logger {
	level, err := ParseLevel(levelStr)
	if err != nil {
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: renameVerbose,
	}
	var handler slog.Handler

	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	logger := slog.New(&safeHandler{inner: handler})
	if instance != "" {
		logger = logger.With("instance", instance)
	}
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func renameVerbose(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelVerbose {
			a.Value = slog.StringValue("VERBOSE")
		}
	}
	return a
}
