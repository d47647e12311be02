package ctxlog

import (
	"io"

	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"
	"go.uber.org/zap/zapcore"
)

// levelColors is the fixed severity-to-color table. It is not
// user-extensible.
var levelColors = map[zapcore.Level]string{
	zapcore.DebugLevel:  ansi.ColorCode("cyan"),
	zapcore.InfoLevel:   ansi.ColorCode("green"),
	zapcore.WarnLevel:   ansi.ColorCode("yellow"),
	zapcore.ErrorLevel:  ansi.ColorCode("red"),
	zapcore.DPanicLevel: ansi.ColorCode("red+b"),
	zapcore.PanicLevel:  ansi.ColorCode("red+b"),
	zapcore.FatalLevel:  ansi.ColorCode("red+b"),
}

// colorReset clears any active color attributes.
var colorReset = ansi.ColorCode("reset")

// levelColor returns the ANSI prefix for a severity, or "" when the
// severity has no entry.
func levelColor(level zapcore.Level) string {
	return levelColors[level]
}

// destinationIsTerminal reports whether w writes to an interactive
// terminal. It is consulted exactly once, when a registry decides color
// eligibility at construction; later redirection of the destination
// does not change the decision.
func destinationIsTerminal(w io.Writer) bool {
	fd, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return isatty.IsTerminal(fd.Fd()) || isatty.IsCygwinTerminal(fd.Fd())
}
