package debug

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

type panickingWriter struct{}

func (panickingWriter) Write([]byte) (int, error) { panic("broken pipe") }

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "verbose", want: LevelVerbose},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tc.in)
			if tc.wantErr {
				require.ErrorContains(t, err, "invalid log-level")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewLogger_TextTagsInstanceAndFilters(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := NewLogger(buf, "info", "text", DefaultInstance)

	logger.Debug("hidden")
	logger.Info("Read FeedBack:", "samples", 480)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "instance=test-LMS")
	assert.Contains(t, out, "samples=480")
}

func TestNewLogger_VerboseLevelName(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := NewLogger(buf, "verbose", "text", "")
	logger.Log(context.Background(), LevelVerbose, "Process", "sample", 256)

	assert.Contains(t, buf.String(), "level=VERBOSE")
}

func TestNewLogger_JSON(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := NewLogger(buf, "debug", "json", "unit")
	logger.Warn("check failed", "check", "residual_erle")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "unit", rec["instance"])
	assert.Equal(t, "residual_erle", rec["check"])
}

func TestLogging_NeverFaults(t *testing.T) {
	t.Parallel()

	oversized := strings.Repeat("é", MaxMessageLen)
	malformed := string([]byte{0xff, 0xfe, 'o', 'k'})

	for _, w := range []io.Writer{failingWriter{}, panickingWriter{}} {
		logger := NewLogger(w, "verbose", "text", DefaultInstance)
		require.NotPanics(t, func() {
			logger.Info(oversized)
			logger.Error(malformed, "err", errors.New("x"))
			logger.With("k", "v").WithGroup("g").Info("grouped")
		})
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	long := sanitize(strings.Repeat("é", MaxMessageLen))
	assert.LessOrEqual(t, len(long), MaxMessageLen)
	assert.True(t, strings.HasSuffix(long, truncatedSuffix))
	assert.True(t, strings.HasPrefix(long, "éé"))

	assert.Equal(t, "�ok", sanitize(string([]byte{0xff, 'o', 'k'})))
	assert.Equal(t, "plain", sanitize("plain"))
}

func TestHandle_TruncatesOversizedMessage(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := NewLogger(buf, "info", "json", "")
	logger.Info(strings.Repeat("a", 3*MaxMessageLen), "keep", true)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Len(t, rec["msg"], MaxMessageLen)
	assert.Equal(t, true, rec["keep"])
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	fallback := FromContext(context.Background())
	require.NotNil(t, fallback)
	require.NotPanics(t, func() { fallback.Info("nobody listens") })

	logger := NewLogger(&bytes.Buffer{}, "info", "text", "")
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}
