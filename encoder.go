package ctxlog

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// timeLayout is the fixed timestamp layout of every rendered line.
const timeLayout = "2006-01-02 15:04:05"

// linePool supplies reusable output buffers to the encoder.
var linePool = buffer.NewPool()

// levelLabels maps zap severities to the labels rendered on each line.
// DPanic and above all render as CRITICAL.
var levelLabels = map[zapcore.Level]string{
	zapcore.DebugLevel:  "DEBUG",
	zapcore.InfoLevel:   "INFO",
	zapcore.WarnLevel:   "WARNING",
	zapcore.ErrorLevel:  "ERROR",
	zapcore.DPanicLevel: "CRITICAL",
	zapcore.PanicLevel:  "CRITICAL",
	zapcore.FatalLevel:  "CRITICAL",
}

// levelLabel returns the rendered label for a severity.
func levelLabel(level zapcore.Level) string {
	if label, ok := levelLabels[level]; ok {
		return label
	}

	return level.CapitalString()
}

// lineEncoder renders log entries as single bracketed text lines:
//
//	[2024-01-17 10:30:45] [INFO] [billing/handler.go:42] [request_id=abc user_id=123] message
//
// The context segment is omitted entirely when no fields are attached.
// Keys render in ascending order regardless of attachment order. Color
// eligibility is fixed at construction and wraps only the level token,
// so colored and plain output differ by escape sequences alone.
//
// It implements zapcore.Encoder; field values arrive through the
// zapcore.ObjectEncoder methods and are flattened to strings. Only the
// scalar kinds accepted by Fields reach it from this package, but every
// method renders something sensible for robustness.
type lineEncoder struct {
	// color enables the fixed per-severity ANSI table.
	color bool
	// pairs holds fields attached so far (via Logger.With or per entry).
	pairs map[string]string
}

// newLineEncoder returns an encoder with color eligibility decided by
// the caller, once, at construction.
func newLineEncoder(color bool) *lineEncoder {
	return &lineEncoder{
		color: color,
		pairs: make(map[string]string),
	}
}

// Clone implements zapcore.Encoder.
func (e *lineEncoder) Clone() zapcore.Encoder {
	clone := newLineEncoder(e.color)
	for key, value := range e.pairs {
		clone.pairs[key] = value
	}

	return clone
}

// EncodeEntry implements zapcore.Encoder.
func (e *lineEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	clone := e.Clone()

	final, ok := clone.(*lineEncoder)
	if !ok {
		return nil, fmt.Errorf("unexpected encoder clone type %T", clone)
	}

	for i := range fields {
		fields[i].AddTo(final)
	}

	line := linePool.Get()

	line.AppendByte('[')
	line.AppendString(ent.Time.Format(timeLayout))
	line.AppendString("] [")

	if e.color {
		line.AppendString(levelColor(ent.Level))
		line.AppendString(levelLabel(ent.Level))
		line.AppendString(colorReset)
	} else {
		line.AppendString(levelLabel(ent.Level))
	}

	line.AppendString("] [")
	line.AppendString(origin(ent))
	line.AppendString("]")

	if len(final.pairs) > 0 {
		line.AppendString(" [")
		final.appendPairs(line)
		line.AppendString("]")
	}

	line.AppendByte(' ')
	line.AppendString(ent.Message)
	line.AppendString(zapcore.DefaultLineEnding)

	return line, nil
}

// origin renders the source location segment: the trimmed caller path
// with line number, or the logger name when caller info is unavailable.
func origin(ent zapcore.Entry) string {
	if ent.Caller.Defined {
		return ent.Caller.TrimmedPath()
	}

	if ent.LoggerName != "" {
		return ent.LoggerName
	}

	return "unknown"
}

// appendPairs writes "k1=v1 k2=v2 ..." with keys sorted ascending.
func (e *lineEncoder) appendPairs(line *buffer.Buffer) {
	keys := make([]string, 0, len(e.pairs))
	for key := range e.pairs {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for i, key := range keys {
		if i > 0 {
			line.AppendByte(' ')
		}

		line.AppendString(key)
		line.AppendByte('=')
		line.AppendString(e.pairs[key])
	}
}

// add records one flattened field.
func (e *lineEncoder) add(key, value string) {
	e.pairs[key] = value
}

// AddString implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddString(key, value string) { e.add(key, value) }

// AddBool implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddBool(key string, value bool) { e.add(key, cast.ToString(value)) }

// AddInt implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddInt(key string, value int) { e.add(key, cast.ToString(value)) }

// AddInt64 implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddInt64(key string, value int64) { e.add(key, cast.ToString(value)) }

// AddInt32 implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddInt32(key string, value int32) { e.add(key, cast.ToString(value)) }

// AddInt16 implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddInt16(key string, value int16) { e.add(key, cast.ToString(value)) }

// AddInt8 implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddInt8(key string, value int8) { e.add(key, cast.ToString(value)) }

// AddUint implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddUint(key string, value uint) { e.add(key, cast.ToString(value)) }

// AddUint64 implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddUint64(key string, value uint64) { e.add(key, cast.ToString(value)) }

// AddUint32 implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddUint32(key string, value uint32) { e.add(key, cast.ToString(value)) }

// AddUint16 implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddUint16(key string, value uint16) { e.add(key, cast.ToString(value)) }

// AddUint8 implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddUint8(key string, value uint8) { e.add(key, cast.ToString(value)) }

// AddUintptr implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddUintptr(key string, value uintptr) { e.add(key, fmt.Sprint(value)) }

// AddFloat64 implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddFloat64(key string, value float64) { e.add(key, cast.ToString(value)) }

// AddFloat32 implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddFloat32(key string, value float32) { e.add(key, cast.ToString(value)) }

// AddComplex128 implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddComplex128(key string, value complex128) { e.add(key, fmt.Sprint(value)) }

// AddComplex64 implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddComplex64(key string, value complex64) { e.add(key, fmt.Sprint(value)) }

// AddDuration implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddDuration(key string, value time.Duration) { e.add(key, value.String()) }

// AddTime implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddTime(key string, value time.Time) { e.add(key, value.Format(timeLayout)) }

// AddBinary implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddBinary(key string, value []byte) { e.add(key, fmt.Sprintf("%x", value)) }

// AddByteString implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddByteString(key string, value []byte) { e.add(key, string(value)) }

// AddReflected implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddReflected(key string, value any) error {
	e.add(key, fmt.Sprint(value))
	return nil
}

// AddArray implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddArray(key string, marshaler zapcore.ArrayMarshaler) error {
	return e.AddReflected(key, fmt.Sprint(marshaler))
}

// AddObject implements zapcore.ObjectEncoder.
func (e *lineEncoder) AddObject(key string, marshaler zapcore.ObjectMarshaler) error {
	return e.AddReflected(key, fmt.Sprint(marshaler))
}

// OpenNamespace implements zapcore.ObjectEncoder. Namespaces are
// meaningless in a flat single-line format, so it does nothing.
func (e *lineEncoder) OpenNamespace(string) {}
