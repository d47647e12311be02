package ctxlog

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// ansiSequence matches ANSI color escape sequences.
var ansiSequence = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// testEntry returns a fixed entry for deterministic encoder assertions.
func testEntry(level zapcore.Level) zapcore.Entry {
	return zapcore.Entry{
		Level:   level,
		Time:    time.Date(2024, 1, 17, 10, 30, 45, 0, time.UTC),
		Message: "processing request",
		Caller:  zapcore.NewEntryCaller(0, "/home/dev/project/billing/handler.go", 42, true),
	}
}

// TestLineEncoderFormat verifies the full fixed field order with a
// sorted context segment.
func TestLineEncoderFormat(t *testing.T) {
	t.Parallel()

	enc := newLineEncoder(false)

	buf, err := enc.EncodeEntry(testEntry(zapcore.InfoLevel), snapshotFields(Fields{"b": "2", "a": "1"}))
	require.NoError(t, err)

	require.Equal(t,
		"[2024-01-17 10:30:45] [INFO] [billing/handler.go:42] [a=1 b=2] processing request\n",
		buf.String())
}

// TestLineEncoderOmitsEmptyContext verifies the context segment is
// absent, not rendered as empty brackets, when no fields are attached.
func TestLineEncoderOmitsEmptyContext(t *testing.T) {
	t.Parallel()

	enc := newLineEncoder(false)

	buf, err := enc.EncodeEntry(testEntry(zapcore.InfoLevel), nil)
	require.NoError(t, err)

	require.Equal(t,
		"[2024-01-17 10:30:45] [INFO] [billing/handler.go:42] processing request\n",
		buf.String())
}

// TestLineEncoderLevelLabels verifies severity labels, including the
// CRITICAL mapping for zap's highest levels.
func TestLineEncoderLevelLabels(t *testing.T) {
	t.Parallel()

	cases := map[zapcore.Level]string{
		zapcore.DebugLevel:  "[DEBUG]",
		zapcore.InfoLevel:   "[INFO]",
		zapcore.WarnLevel:   "[WARNING]",
		zapcore.ErrorLevel:  "[ERROR]",
		zapcore.DPanicLevel: "[CRITICAL]",
	}

	enc := newLineEncoder(false)

	for level, label := range cases {
		buf, err := enc.EncodeEntry(testEntry(level), nil)
		require.NoError(t, err)
		require.Contains(t, buf.String(), label)
	}
}

// TestLineEncoderColorParity verifies colored and plain renderings of
// the same entry are byte-identical apart from ANSI escape sequences,
// and that plain output carries none at all.
func TestLineEncoderColorParity(t *testing.T) {
	t.Parallel()

	fields := snapshotFields(Fields{"user_id": "u1"})

	plainBuf, err := newLineEncoder(false).EncodeEntry(testEntry(zapcore.ErrorLevel), fields)
	require.NoError(t, err)

	colorBuf, err := newLineEncoder(true).EncodeEntry(testEntry(zapcore.ErrorLevel), fields)
	require.NoError(t, err)

	plain := plainBuf.String()
	colored := colorBuf.String()

	require.NotContains(t, plain, "\x1b")
	require.Contains(t, colored, "\x1b")
	require.Equal(t, plain, ansiSequence.ReplaceAllString(colored, ""))
}

// TestLineEncoderFallsBackToLoggerName verifies the origin segment uses
// the logger name when caller information is unavailable.
func TestLineEncoderFallsBackToLoggerName(t *testing.T) {
	t.Parallel()

	ent := testEntry(zapcore.InfoLevel)
	ent.Caller = zapcore.EntryCaller{}
	ent.LoggerName = "billing"

	buf, err := newLineEncoder(false).EncodeEntry(ent, nil)
	require.NoError(t, err)

	require.Contains(t, buf.String(), "[billing]")
}

// TestLineEncoderCloneKeepsAccumulatedFields verifies fields attached
// via With survive cloning and merge with per-entry fields, last write
// winning on shared keys.
func TestLineEncoderCloneKeepsAccumulatedFields(t *testing.T) {
	t.Parallel()

	enc := newLineEncoder(false)
	enc.AddString("base", "1")
	enc.AddString("shared", "old")

	clone, ok := enc.Clone().(*lineEncoder)
	require.True(t, ok)

	buf, err := clone.EncodeEntry(testEntry(zapcore.InfoLevel), snapshotFields(Fields{"shared": "new"}))
	require.NoError(t, err)

	require.Contains(t, buf.String(), "[base=1 shared=new]")

	// The original encoder is untouched by the entry's fields.
	require.Equal(t, "old", enc.pairs["shared"])
}

// TestLineEncoderScalarRendering verifies value flattening across the
// scalar kinds the store accepts, nil included.
func TestLineEncoderScalarRendering(t *testing.T) {
	t.Parallel()

	fields := snapshotFields(Fields{
		"b": true,
		"f": 1.5,
		"i": -2,
		"n": nil,
		"s": "v",
	})

	buf, err := newLineEncoder(false).EncodeEntry(testEntry(zapcore.InfoLevel), fields)
	require.NoError(t, err)

	require.Contains(t, buf.String(), "[b=true f=1.5 i=-2 n=<nil> s=v]")
}
