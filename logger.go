package ctxlog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger emits single-line records enriched with the calling execution
// context's key/value mapping. Obtain instances from GetLogger or
// Registry.GetLogger; repeated lookups of the same name return the same
// wired logger.
type Logger struct {
	// name is the registry name the logger was created under.
	name string
	// zl is the underlying zap logger carrying the line encoder.
	zl *zap.Logger
	// out is the destination, kept for the render-fault fallback path.
	out zapcore.WriteSyncer
}

// Name returns the name the logger was registered under.
func (l *Logger) Name() string {
	return l.name
}

// Debug logs its arguments at DEBUG level.
func (l *Logger) Debug(ctx context.Context, args ...any) {
	l.log(ctx, zapcore.DebugLevel, fmt.Sprint(args...))
}

// Debugf logs a formatted message at DEBUG level.
func (l *Logger) Debugf(ctx context.Context, format string, args ...any) {
	l.log(ctx, zapcore.DebugLevel, fmt.Sprintf(format, args...))
}

// Info logs its arguments at INFO level.
func (l *Logger) Info(ctx context.Context, args ...any) {
	l.log(ctx, zapcore.InfoLevel, fmt.Sprint(args...))
}

// Infof logs a formatted message at INFO level.
func (l *Logger) Infof(ctx context.Context, format string, args ...any) {
	l.log(ctx, zapcore.InfoLevel, fmt.Sprintf(format, args...))
}

// Warning logs its arguments at WARNING level.
func (l *Logger) Warning(ctx context.Context, args ...any) {
	l.log(ctx, zapcore.WarnLevel, fmt.Sprint(args...))
}

// Warningf logs a formatted message at WARNING level.
func (l *Logger) Warningf(ctx context.Context, format string, args ...any) {
	l.log(ctx, zapcore.WarnLevel, fmt.Sprintf(format, args...))
}

// Error logs its arguments at ERROR level.
func (l *Logger) Error(ctx context.Context, args ...any) {
	l.log(ctx, zapcore.ErrorLevel, fmt.Sprint(args...))
}

// Errorf logs a formatted message at ERROR level.
func (l *Logger) Errorf(ctx context.Context, format string, args ...any) {
	l.log(ctx, zapcore.ErrorLevel, fmt.Sprintf(format, args...))
}

// Critical logs its arguments at CRITICAL level. It does not terminate
// the process.
func (l *Logger) Critical(ctx context.Context, args ...any) {
	l.log(ctx, zapcore.DPanicLevel, fmt.Sprint(args...))
}

// Criticalf logs a formatted message at CRITICAL level. It does not
// terminate the process.
func (l *Logger) Criticalf(ctx context.Context, format string, args ...any) {
	l.log(ctx, zapcore.DPanicLevel, fmt.Sprintf(format, args...))
}

// log enriches the message with the current context snapshot and hands
// it to zap. A fault anywhere in enrichment or rendering never reaches
// the caller: the event degrades to an unformatted line on the same
// destination instead of being dropped.
func (l *Logger) log(ctx context.Context, level zapcore.Level, msg string) {
	defer func() {
		if r := recover(); r != nil {
			l.fallback(level, msg)
		}
	}()

	if ce := l.zl.Check(level, msg); ce != nil {
		ce.Write(contextFields(ctx)...)
	}
}

// fallback emits a bare line when formatting failed. Errors here are
// swallowed: a logging call must never propagate a failure.
func (l *Logger) fallback(level zapcore.Level, msg string) {
	defer func() {
		_ = recover()
	}()

	_, _ = fmt.Fprintf(l.out, "%s %s %s %s\n",
		time.Now().Format(timeLayout), levelLabel(level), l.name, msg)
}
