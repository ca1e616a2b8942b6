package platform

import (
	"context"
	"errors"
	"sync"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	shellerrors "chitchats/internal/infrastructure/errors"
)

var errNoRuntime = errors.New("wails runtime context not available")

// WailsWindow implements Window over the Wails runtime. The runtime has no
// visibility query, so visibility is tracked from Show/Hide calls.
type WailsWindow struct {
	mu      sync.RWMutex
	ctx     context.Context
	visible bool
}

// NewWailsWindow creates a window adapter. startHidden must match the
// StartHidden application option.
func NewWailsWindow(startHidden bool) *WailsWindow {
	return &WailsWindow{visible: !startHidden}
}

// Attach binds the adapter to the runtime context received in OnStartup
func (w *WailsWindow) Attach(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ctx = ctx
}

func (w *WailsWindow) runtimeContext(op string) (context.Context, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.ctx == nil {
		return nil, shellerrors.NewShellError(op, errNoRuntime, shellerrors.ErrCodeInternal)
	}
	return w.ctx, nil
}

func (w *WailsWindow) IsMinimised() (bool, error) {
	ctx, err := w.runtimeContext("window_is_minimised")
	if err != nil {
		return false, err
	}
	return wailsruntime.WindowIsMinimised(ctx), nil
}

func (w *WailsWindow) IsVisible() (bool, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.visible, nil
}

func (w *WailsWindow) IsMaximised() (bool, error) {
	ctx, err := w.runtimeContext("window_is_maximised")
	if err != nil {
		return false, err
	}
	return wailsruntime.WindowIsMaximised(ctx), nil
}

func (w *WailsWindow) Position() (int32, int32, error) {
	ctx, err := w.runtimeContext("window_position")
	if err != nil {
		return 0, 0, err
	}
	x, y := wailsruntime.WindowGetPosition(ctx)
	return int32(x), int32(y), nil
}

func (w *WailsWindow) Size() (uint32, uint32, error) {
	ctx, err := w.runtimeContext("window_size")
	if err != nil {
		return 0, 0, err
	}
	width, height := wailsruntime.WindowGetSize(ctx)
	return toUint32(width), toUint32(height), nil
}

func (w *WailsWindow) SetPosition(x, y int32) error {
	ctx, err := w.runtimeContext("window_set_position")
	if err != nil {
		return err
	}
	wailsruntime.WindowSetPosition(ctx, int(x), int(y))
	return nil
}

func (w *WailsWindow) SetSize(width, height uint32) error {
	ctx, err := w.runtimeContext("window_set_size")
	if err != nil {
		return err
	}
	wailsruntime.WindowSetSize(ctx, int(width), int(height))
	return nil
}

func (w *WailsWindow) Maximise() error {
	ctx, err := w.runtimeContext("window_maximise")
	if err != nil {
		return err
	}
	wailsruntime.WindowMaximise(ctx)
	return nil
}

func (w *WailsWindow) Minimise() error {
	ctx, err := w.runtimeContext("window_minimise")
	if err != nil {
		return err
	}
	wailsruntime.WindowMinimise(ctx)
	return nil
}

func (w *WailsWindow) Show() error {
	ctx, err := w.runtimeContext("window_show")
	if err != nil {
		return err
	}
	wailsruntime.WindowShow(ctx)
	w.setVisible(true)
	return nil
}

func (w *WailsWindow) Hide() error {
	ctx, err := w.runtimeContext("window_hide")
	if err != nil {
		return err
	}
	wailsruntime.WindowHide(ctx)
	w.setVisible(false)
	return nil
}

// Focus brings the window to the front. Wails v2 has no explicit focus call;
// unminimising and showing raises the window on all supported platforms.
func (w *WailsWindow) Focus() error {
	ctx, err := w.runtimeContext("window_focus")
	if err != nil {
		return err
	}
	wailsruntime.WindowUnminimise(ctx)
	wailsruntime.WindowShow(ctx)
	w.setVisible(true)
	return nil
}

func (w *WailsWindow) setVisible(visible bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = visible
}

func toUint32(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}
