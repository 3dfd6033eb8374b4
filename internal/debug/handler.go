package debug

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// MaxMessageLen bounds a single log message in bytes.
const MaxMessageLen = 4096

const truncatedSuffix = "...(truncated)"

// safeHandler shields callers from the wrapped handler. Handle never returns
// an error and never panics.
type safeHandler struct {
	inner slog.Handler
}

func (h *safeHandler) Enabled(ctx context.Context, level slog.Level) (enabled bool) {
	defer func() {
		if recover() != nil {
			enabled = false
		}
	}()
	return h.inner.Enabled(ctx, level)
}

func (h *safeHandler) Handle(ctx context.Context, r slog.Record) error {
	defer func() { _ = recover() }()

	msg := sanitize(r.Message)
	if msg != r.Message {
		clean := slog.NewRecord(r.Time, r.Level, msg, r.PC)
		r.Attrs(func(a slog.Attr) bool {
			clean.AddAttrs(a)
			return true
		})
		r = clean
	}
	_ = h.inner.Handle(ctx, r)
	return nil
}

func (h *safeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &safeHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *safeHandler) WithGroup(name string) slog.Handler {
	return &safeHandler{inner: h.inner.WithGroup(name)}
}

// sanitize replaces invalid UTF-8 and truncates oversized messages on a rune
// boundary.
func sanitize(msg string) string {
	if !utf8.ValidString(msg) {
		msg = strings.ToValidUTF8(msg, "�")
	}
	if len(msg) <= MaxMessageLen {
		return msg
	}
	cut := MaxMessageLen - len(truncatedSuffix)
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut] + truncatedSuffix
}
