package services

import (
	"chitchats/internal/infrastructure/errors"
	"chitchats/internal/infrastructure/logging"
	"chitchats/internal/platform"
)

// AutostartManager toggles launching the app at login
type AutostartManager struct {
	entry  platform.AutostartEntry
	logger logging.Logger
}

// NewAutostartManager wraps the OS login item entry
func NewAutostartManager(entry platform.AutostartEntry, logger logging.Logger) *AutostartManager {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &AutostartManager{
		entry:  entry,
		logger: logger,
	}
}

// IsEnabled reports whether the login item is registered
func (m *AutostartManager) IsEnabled() bool {
	return m.entry.IsEnabled()
}

// Enable registers the login item. Enabling twice is a no-op.
func (m *AutostartManager) Enable() error {
	if m.entry.IsEnabled() {
		return nil
	}
	if err := m.entry.Enable(); err != nil {
		return m.fail("enable_autostart", err)
	}
	m.logger.Info("Autostart enabled")
	return nil
}

// Disable removes the login item. Disabling when not registered is a no-op.
func (m *AutostartManager) Disable() error {
	if !m.entry.IsEnabled() {
		return nil
	}
	if err := m.entry.Disable(); err != nil {
		return m.fail("disable_autostart", err)
	}
	m.logger.Info("Autostart disabled")
	return nil
}

func (m *AutostartManager) fail(op string, err error) error {
	code := errors.ClassifyError(err)
	if code == errors.ErrCodeUnknown {
		code = errors.ErrCodeInternal
	}
	wrapped := errors.NewShellError(op, err, code)
	logging.LogError(m.logger, wrapped, op, nil)
	return wrapped
}
