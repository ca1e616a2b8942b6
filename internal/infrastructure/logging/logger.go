package logging

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger used across the shell.
// Fields are alternating key/value pairs: key1, value1, key2, value2, ...
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// Config defines logger configuration.
type Config struct {
	Level       string // "debug", "info", "warn", "error"
	Development bool
	OutputPaths []string
}

// DefaultConfig returns production logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Development: false,
		OutputPaths: []string{"stdout"},
	}
}

// DevelopmentConfig returns development logger configuration.
func DevelopmentConfig() Config {
	return Config{
		Level:       "debug",
		Development: true,
		OutputPaths: []string{"stdout"},
	}
}

// ZapLogger implements Logger on top of a zap sugared logger
type ZapLogger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// New creates a new logger with the provided configuration.
func New(cfg Config) (*ZapLogger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stdout"}
	}

	zapCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Development,
		Encoding:          encodingFormat(cfg.Development),
		EncoderConfig:     encoderConfig(cfg.Development),
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     false,
		DisableStacktrace: !cfg.Development,
	}

	// Skip the wrapper frame so callers show up in the caller field
	base, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return FromZap(base), nil
}

// FromZap wraps an existing zap logger
func FromZap(base *zap.Logger) *ZapLogger {
	if base == nil {
		base = zap.NewNop()
	}
	return &ZapLogger{base: base, sugar: base.Sugar()}
}

// NewDefaultLogger creates a production logger, falling back to a no-op logger
func NewDefaultLogger() Logger {
	logger, err := New(DefaultConfig())
	if err != nil {
		return NewNopLogger()
	}
	return logger
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() Logger {
	return FromZap(zap.NewNop())
}

func (l *ZapLogger) Debug(msg string, fields ...interface{}) {
	l.sugar.Debugw(msg, normalizeFields(fields)...)
}

func (l *ZapLogger) Info(msg string, fields ...interface{}) {
	l.sugar.Infow(msg, normalizeFields(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields ...interface{}) {
	l.sugar.Warnw(msg, normalizeFields(fields)...)
}

func (l *ZapLogger) Error(msg string, fields ...interface{}) {
	l.sugar.Errorw(msg, normalizeFields(fields)...)
}

// Sync flushes buffered entries
func (l *ZapLogger) Sync() error {
	return l.base.Sync()
}

// normalizeFields turns an arbitrary field slice into well-formed key/value pairs.
// Non-string keys and a trailing key without value are kept under indexed names
// instead of tripping zap's development-mode DPanic.
func normalizeFields(fields []interface{}) []interface{} {
	if len(fields) == 0 {
		return nil
	}

	result := make([]interface{}, 0, len(fields)+1)
	for i := 0; i < len(fields); i += 2 {
		if i+1 >= len(fields) {
			result = append(result, fmt.Sprintf("field_%d", i/2), fields[i])
			break
		}
		if key, ok := fields[i].(string); ok {
			result = append(result, key, fields[i+1])
			continue
		}
		result = append(result,
			fmt.Sprintf("field_%d", i/2), fields[i],
			fmt.Sprintf("field_%d_value", i/2), fields[i+1])
	}
	return result
}

// ParseLevel converts a string level to zapcore.Level.
func ParseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, err
	}
	return l, nil
}

func encodingFormat(development bool) string {
	if development {
		return "console"
	}
	return "json"
}

func encoderConfig(development bool) zapcore.EncoderConfig {
	if development {
		return zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			NameKey:        "N",
			CallerKey:      "C",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "M",
			StacktraceKey:  "S",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}
	}

	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// ClassifiedError is implemented by errors that carry a code and context.
// Declared here to avoid importing the errors package.
type ClassifiedError interface {
	Error() string
	GetCode() string
	IsRetryable() bool
	GetContext() map[string]string
	GetTimestamp() time.Time
}

// LogError logs err with its classification and the given context
func LogError(logger Logger, err error, operation string, context map[string]interface{}) {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	if err == nil {
		return
	}

	var fields []interface{}
	var classified ClassifiedError
	if errors.As(err, &classified) {
		fields = []interface{}{
			"operation", operation,
			"error_code", classified.GetCode(),
			"retryable", classified.IsRetryable(),
			"timestamp", classified.GetTimestamp(),
		}
		for k, v := range classified.GetContext() {
			fields = append(fields, k, v)
		}
	} else {
		fields = []interface{}{
			"operation", operation,
			"error_type", fmt.Sprintf("%T", err),
		}
	}

	for k, v := range context {
		fields = append(fields, k, v)
	}

	logger.Error(fmt.Sprintf("%s failed: %s", operation, err.Error()), fields...)
}

// LogOperation logs a completed operation with its duration
func LogOperation(logger Logger, operation string, duration time.Duration, context map[string]interface{}) {
	if logger == nil {
		logger = NewDefaultLogger()
	}

	fields := []interface{}{
		"operation", operation,
		"duration_ms", duration.Milliseconds(),
	}

	for k, v := range context {
		fields = append(fields, k, v)
	}

	logger.Info(fmt.Sprintf("Operation completed: %s", operation), fields...)
}
