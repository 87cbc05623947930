// Package logging is the structured logging facade used across SimilACTrail.
// Components take a Logger by injection; the zap implementation lives here and
// nowhere else builds zap loggers.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a zap field, so entries pass through without conversion.
type Field = zap.Field

var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Float64  = zap.Float64
	Bool     = zap.Bool
	Duration = zap.Duration
	Any      = zap.Any
)

// Err records err under "error"; a nil err adds nothing.
func Err(err error) Field { return zap.Error(err) }

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	// Warn is for recoverable conditions such as a skipped compound or a
	// missing logo.
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// Fatal exits the process after logging.  Only startup code calls it.
	Fatal(msg string, fields ...Field)
	With(fields ...Field) Logger
	Named(name string) Logger
}

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// LogConfig is the log section of the configuration file.
type LogConfig struct {
	// Level is matched case-insensitively; unknown values mean info.
	Level string `mapstructure:"level" json:"level"`
	// Format is "console" or "json" (the default).
	Format           string   `mapstructure:"format" json:"format"`
	OutputPaths      []string `mapstructure:"output_paths" json:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths" json:"error_output_paths"`
}

// zapLogger shares level with every logger derived from it, so SetLevel on
// any of them retunes the whole tree.
type zapLogger struct {
	*zap.Logger
	level *zap.AtomicLevel
}

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{Logger: l.Logger.With(fields...), level: l.level}
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{Logger: l.Logger.Named(name), level: l.level}
}

// NewLogger builds a zap logger writing to stdout and stderr unless cfg names
// other paths.
func NewLogger(cfg LogConfig) (Logger, error) {
	out, errOut := cfg.OutputPaths, cfg.ErrorOutputPaths
	if len(out) == 0 {
		out = []string{"stdout"}
	}
	if len(errOut) == 0 {
		errOut = []string{"stderr"}
	}

	zc := zap.NewProductionConfig()
	if strings.EqualFold(cfg.Format, "console") {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	zc.Sampling = nil
	zc.OutputPaths, zc.ErrorOutputPaths = out, errOut
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	z, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build zap logger: %w", err)
	}
	return &zapLogger{Logger: z, level: &zc.Level}, nil
}

// NewLoggerFromCore wraps core, typically a zaptest observer.  The result has
// a fixed level.
func NewLoggerFromCore(core zapcore.Core) Logger {
	return &zapLogger{Logger: zap.New(core)}
}

// SetLevel retunes a logger built by NewLogger.  It reports false for any
// other Logger.
func SetLevel(l Logger, level string) bool {
	zl, ok := l.(*zapLogger)
	if !ok || zl.level == nil {
		return false
	}
	zl.level.SetLevel(parseLevel(level))
	return true
}

// parseLevel accepts debug through error only.
func parseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(s))
	if err != nil || lvl > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return lvl
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field)  {}
func (nopLogger) Warn(string, ...Field)  {}
func (nopLogger) Error(string, ...Field) {}
func (nopLogger) Fatal(string, ...Field) {}
func (n nopLogger) With(...Field) Logger { return n }
func (n nopLogger) Named(string) Logger  { return n }

func NewNopLogger() Logger { return nopLogger{} }

//Personal.AI order the ending
