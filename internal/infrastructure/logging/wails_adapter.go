package logging

// WailsLoggerAdapter implements the Wails runtime logger interface
// (github.com/wailsapp/wails/v2/pkg/logger.Logger) on top of Logger
type WailsLoggerAdapter struct {
	logger Logger
	source string
}

// NewWailsLoggerAdapter creates a new Wails logger adapter using our structured logger
func NewWailsLoggerAdapter(logger Logger) *WailsLoggerAdapter {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &WailsLoggerAdapter{
		logger: logger,
		source: "wails",
	}
}

// Print logs general Wails output at info level
func (w *WailsLoggerAdapter) Print(message string) {
	w.logger.Info(message, "source", w.source)
}

// Trace logs at debug level, tagged as trace
func (w *WailsLoggerAdapter) Trace(message string) {
	w.logger.Debug(message, "source", w.source, "level", "trace")
}

func (w *WailsLoggerAdapter) Debug(message string) {
	w.logger.Debug(message, "source", w.source)
}

func (w *WailsLoggerAdapter) Info(message string) {
	w.logger.Info(message, "source", w.source)
}

func (w *WailsLoggerAdapter) Warning(message string) {
	w.logger.Warn(message, "source", w.source)
}

func (w *WailsLoggerAdapter) Error(message string) {
	w.logger.Error(message, "source", w.source)
}

// Fatal logs at error level; the shell decides itself whether to exit
func (w *WailsLoggerAdapter) Fatal(message string) {
	w.logger.Error(message, "source", w.source, "level", "fatal")
}
