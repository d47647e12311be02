package ctxlog

import (
	"io"

	"go.uber.org/zap/zapcore"
)

// Option configures a Registry at construction time.
type Option func(*registryOptions)

// registryOptions collects construction-time settings before the
// registry resolves its effective level and color mode.
type registryOptions struct {
	// out is the destination for every logger the registry creates.
	out io.Writer
	// level, when set, overrides env and file configuration.
	level *zapcore.Level
	// color, when set, overrides the interactive-terminal probe.
	color *bool
	// clock, when set, supplies entry timestamps (used in tests).
	clock zapcore.Clock
	// configPath, when set, overrides the CTXLOG_CONFIG lookup.
	configPath string
}

// WithOutput directs all loggers created by the registry to w.
// The default destination is standard output.
func WithOutput(w io.Writer) Option {
	return func(o *registryOptions) {
		o.out = w
	}
}

// WithLevel fixes the registry's default severity, taking precedence
// over LOG_LEVEL and any configuration file.
func WithLevel(level zapcore.Level) Option {
	return func(o *registryOptions) {
		o.level = &level
	}
}

// WithColor forces colored output on or off instead of probing the
// destination for an interactive terminal.
func WithColor(enabled bool) Option {
	return func(o *registryOptions) {
		o.color = &enabled
	}
}

// WithClock overrides the timestamp source for every logger the
// registry creates.
func WithClock(clock zapcore.Clock) Option {
	return func(o *registryOptions) {
		o.clock = clock
	}
}

// WithConfigFile loads registry configuration from the provided path
// instead of consulting the CTXLOG_CONFIG environment variable.
func WithConfigFile(path string) Option {
	return func(o *registryOptions) {
		o.configPath = path
	}
}
