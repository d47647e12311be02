package ctxlog

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Registry is the process-lifetime composition root: it owns the
// name-to-logger table and the configuration every logger is wired
// with. Construct one at startup with NewRegistry and share it, or use
// the package-level GetLogger, which lazily builds a default registry.
// A registry needs no teardown.
type Registry struct {
	// mu guards the check-then-create path so concurrent first lookups
	// of a name can never wire a logger twice.
	mu sync.Mutex
	// loggers maps names to already-wired loggers.
	loggers map[string]*Logger
	// out is the shared destination of every logger.
	out zapcore.WriteSyncer
	// level is the default severity, resolved once at construction.
	level zapcore.Level
	// color is the color eligibility, decided once at construction.
	color bool
	// clock supplies entry timestamps when overridden, nil otherwise.
	clock zapcore.Clock
	// cfg holds optional file-based overrides, nil when absent.
	cfg *Config
}

// NewRegistry builds a registry. The default severity is resolved
// exactly once, in precedence order: WithLevel option, the LOG_LEVEL
// environment variable, the configuration file, then INFO. A set but
// unrecognized value is never fatal: the registry falls back to INFO
// and reports the fallback once, through its own output.
func NewRegistry(opts ...Option) *Registry {
	options := &registryOptions{
		out: os.Stdout,
	}

	for _, opt := range opts {
		opt(options)
	}

	var notes []string

	cfg, note := resolveConfig(options)
	if note != "" {
		notes = append(notes, note)
	}

	level, note := resolveLevel(options, cfg)
	if note != "" {
		notes = append(notes, note)
	}

	r := &Registry{
		loggers: make(map[string]*Logger),
		out:     zapcore.Lock(zapcore.AddSync(options.out)),
		level:   level,
		color:   resolveColor(options, cfg),
		clock:   options.clock,
		cfg:     cfg,
	}

	// Configuration faults are reported once, at construction, and
	// never repeated per logging call.
	for _, n := range notes {
		r.GetLogger("ctxlog").Warning(context.Background(), n)
	}

	return r
}

// GetLogger returns the logger registered under name, wiring it on
// first lookup. Repeated calls with the same name return the same
// instance; enrichment and formatting are attached exactly once. Safe
// for concurrent use.
func (r *Registry) GetLogger(name string) *Logger {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.loggers[name]; ok {
		return l
	}

	core := zapcore.NewCore(newLineEncoder(r.color), r.out, r.loggerLevel(name))

	zapOptions := []zap.Option{
		zap.AddCaller(),
		zap.AddCallerSkip(2),
	}
	if r.clock != nil {
		zapOptions = append(zapOptions, zap.WithClock(r.clock))
	}

	l := &Logger{
		name: name,
		zl:   zap.New(core, zapOptions...).Named(name),
		out:  r.out,
	}
	r.loggers[name] = l

	return l
}

// Level returns the registry's default severity.
func (r *Registry) Level() zapcore.Level {
	return r.level
}

// loggerLevel resolves the severity for one logger name: a recognized
// per-logger file override wins over the registry default.
func (r *Registry) loggerLevel(name string) zapcore.Level {
	if r.cfg == nil {
		return r.level
	}

	raw, ok := r.cfg.Loggers[name]
	if !ok {
		return r.level
	}

	level, ok := ParseLevel(raw)
	if !ok {
		return r.level
	}

	return level
}

// resolveConfig loads the optional configuration file named by the
// WithConfigFile option or the CTXLOG_CONFIG environment variable.
// Load failures are reduced to a one-time note.
func resolveConfig(options *registryOptions) (*Config, string) {
	path := options.configPath
	if path == "" {
		path = os.Getenv(ConfigEnvVar)
	}

	if path == "" {
		return nil, ""
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, fmt.Sprintf("ignoring config file %q: %v", path, err)
	}

	return cfg, ""
}

// resolveLevel picks the registry default severity and, when a set
// value was unrecognized, the one-time note reporting the fallback.
func resolveLevel(options *registryOptions, cfg *Config) (zapcore.Level, string) {
	if options.level != nil {
		return *options.level, ""
	}

	if raw := os.Getenv(LevelEnvVar); raw != "" {
		level, ok := ParseLevel(raw)
		if ok {
			return level, ""
		}

		return zapcore.InfoLevel,
			fmt.Sprintf("unrecognized %s value %q, defaulting to INFO", LevelEnvVar, raw)
	}

	if cfg != nil && cfg.Level != "" {
		level, ok := ParseLevel(cfg.Level)
		if ok {
			return level, ""
		}

		return zapcore.InfoLevel,
			fmt.Sprintf("unrecognized config level %q, defaulting to INFO", cfg.Level)
	}

	return zapcore.InfoLevel, ""
}

// resolveColor decides color eligibility exactly once: an explicit
// option wins, then a file override, then the interactive-terminal
// probe on the destination. The decision is never revisited, even if
// the destination is later redirected.
func resolveColor(options *registryOptions, cfg *Config) bool {
	if options.color != nil {
		return *options.color
	}

	if cfg != nil && cfg.Color != nil {
		return *cfg.Color
	}

	return destinationIsTerminal(options.out)
}

var (
	// defaultRegistryOnce guards one-time construction of the default
	// registry.
	defaultRegistryOnce sync.Once
	// defaultReg is the registry behind the package-level GetLogger.
	defaultReg *Registry
)

// defaultRegistry returns the lazily-built process-wide registry.
func defaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultReg = NewRegistry()
	})

	return defaultReg
}
