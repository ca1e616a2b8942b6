package testutils

import "sync"

// MockAutostartEntry is an in-memory platform.AutostartEntry for tests
type MockAutostartEntry struct {
	mu sync.Mutex

	Enabled    bool
	EnableErr  error
	DisableErr error

	EnableCalls  int
	DisableCalls int
}

func (m *MockAutostartEntry) IsEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Enabled
}

func (m *MockAutostartEntry) Enable() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnableCalls++
	if m.EnableErr != nil {
		return m.EnableErr
	}
	m.Enabled = true
	return nil
}

func (m *MockAutostartEntry) Disable() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DisableCalls++
	if m.DisableErr != nil {
		return m.DisableErr
	}
	m.Enabled = false
	return nil
}
