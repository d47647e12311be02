package ctxlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	// LevelEnvVar names the environment variable holding the default
	// severity. It is read once, at registry construction.
	LevelEnvVar = "LOG_LEVEL"

	// ConfigEnvVar names the environment variable pointing at an
	// optional YAML configuration file.
	ConfigEnvVar = "CTXLOG_CONFIG"
)

// Config holds optional file-based overrides for a registry. All fields
// may be omitted; env and option settings take precedence over the file.
type Config struct {
	// Level is the default severity for loggers without an override.
	Level string `yaml:"level"`
	// Color forces colored output on or off. Unset means "probe the
	// destination for an interactive terminal".
	Color *bool `yaml:"color"`
	// Loggers maps logger names to per-logger severities.
	Loggers map[string]string `yaml:"loggers"`
}

// LoadConfig reads a YAML configuration from the provided path.
func LoadConfig(path string) (*Config, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ParseLevel converts a severity name to a zap level. Recognized names
// are DEBUG, INFO, WARNING (or WARN), ERROR, and CRITICAL, matched
// case-insensitively. Unrecognized input yields INFO and false.
func ParseLevel(s string) (zapcore.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zapcore.DebugLevel, true
	case "INFO":
		return zapcore.InfoLevel, true
	case "WARNING", "WARN":
		return zapcore.WarnLevel, true
	case "ERROR":
		return zapcore.ErrorLevel, true
	case "CRITICAL":
		return zapcore.DPanicLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}
