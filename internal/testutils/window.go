package testutils

import (
	"fmt"
	"sync"

	"chitchats/internal/types"
)

// MockWindow is an in-memory platform.Window for tests
type MockWindow struct {
	mu sync.Mutex

	Geometry  types.WindowGeometry
	Minimised bool
	Visible   bool
	Focused   bool

	MinimisedErr error
	VisibleErr   error
	PositionErr  error
	SizeErr      error
	MaximisedErr error

	Calls []string
}

// NewMockWindow creates a visible, unmaximized window with the given geometry
func NewMockWindow(x, y int32, width, height uint32) *MockWindow {
	return &MockWindow{
		Geometry: types.WindowGeometry{X: x, Y: y, Width: width, Height: height},
		Visible:  true,
	}
}

func (m *MockWindow) record(call string) {
	m.Calls = append(m.Calls, call)
}

func (m *MockWindow) IsMinimised() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Minimised, m.MinimisedErr
}

func (m *MockWindow) IsVisible() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Visible, m.VisibleErr
}

func (m *MockWindow) IsMaximised() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Geometry.Maximized, m.MaximisedErr
}

func (m *MockWindow) Position() (int32, int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Geometry.X, m.Geometry.Y, m.PositionErr
}

func (m *MockWindow) Size() (uint32, uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Geometry.Width, m.Geometry.Height, m.SizeErr
}

func (m *MockWindow) SetPosition(x, y int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(fmt.Sprintf("SetPosition(%d,%d)", x, y))
	m.Geometry.X, m.Geometry.Y = x, y
	return nil
}

func (m *MockWindow) SetSize(width, height uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(fmt.Sprintf("SetSize(%d,%d)", width, height))
	m.Geometry.Width, m.Geometry.Height = width, height
	return nil
}

func (m *MockWindow) Maximise() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Maximise")
	m.Geometry.Maximized = true
	return nil
}

func (m *MockWindow) Minimise() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Minimise")
	m.Minimised = true
	return nil
}

func (m *MockWindow) Show() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Show")
	m.Visible = true
	return nil
}

func (m *MockWindow) Hide() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Hide")
	m.Visible = false
	return nil
}

func (m *MockWindow) Focus() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Focus")
	m.Focused = true
	return nil
}

// CallLog returns a copy of the mutating calls made so far
func (m *MockWindow) CallLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}
