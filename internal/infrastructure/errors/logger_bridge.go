package errors

import (
	"fmt"

	"chitchats/internal/infrastructure/logging"
)

// LoggerBridge adapts the logging.Logger interface to RetryLogger
type LoggerBridge struct {
	logger logging.Logger
}

// NewLoggerBridge creates a new bridge from logging.Logger to RetryLogger
func NewLoggerBridge(logger logging.Logger) RetryLogger {
	return &LoggerBridge{logger: logger}
}

// Printf implements RetryLogger by formatting the message and logging it at debug level
func (b *LoggerBridge) Printf(format string, v ...interface{}) {
	if b.logger != nil {
		b.logger.Debug(fmt.Sprintf(format, v...), "source", "retry")
	}
}

// SetDefaultRetryLogger routes retry messages into the given structured logger
func SetDefaultRetryLogger(logger logging.Logger) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	SetRetryLogger(NewLoggerBridge(logger))
}
