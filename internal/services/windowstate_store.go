package services

import (
	"context"

	"chitchats/internal/infrastructure/errors"
	"chitchats/internal/infrastructure/logging"
	"chitchats/internal/platform"
	"chitchats/internal/repository"
	"chitchats/internal/types"
)

// WindowStateStore saves and restores the main window geometry.
// All failures are absorbed; persistence never interrupts the UI.
type WindowStateStore struct {
	repo      repository.WindowStateRepository
	minWidth  uint32
	minHeight uint32
	logger    logging.Logger
}

// NewWindowStateStore creates a store that only applies geometry of at least minWidth x minHeight
func NewWindowStateStore(repo repository.WindowStateRepository, minWidth, minHeight uint32, logger logging.Logger) *WindowStateStore {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &WindowStateStore{
		repo:      repo,
		minWidth:  minWidth,
		minHeight: minHeight,
		logger:    logger,
	}
}

// Save captures the window's current geometry. Minimized or hidden windows are
// skipped. A maximized window only flips the flag on an existing record so the
// restored (unmaximized) geometry is preserved.
func (s *WindowStateStore) Save(ctx context.Context, window platform.Window) {
	if minimised, err := window.IsMinimised(); err == nil && minimised {
		return
	}
	if visible, err := window.IsVisible(); err == nil && !visible {
		return
	}

	x, y, err := window.Position()
	if err != nil {
		return
	}
	width, height, err := window.Size()
	if err != nil {
		return
	}
	maximised, err := window.IsMaximised()
	if err != nil {
		return
	}

	if maximised {
		existing, err := s.repo.Load(ctx)
		if err != nil || existing == nil {
			return
		}
		existing.Maximized = true
		s.write(ctx, existing)
		return
	}

	s.write(ctx, &types.WindowGeometry{
		X:         x,
		Y:         y,
		Width:     width,
		Height:    height,
		Maximized: false,
	})
}

func (s *WindowStateStore) write(ctx context.Context, geometry *types.WindowGeometry) {
	if err := s.repo.Save(ctx, geometry); err != nil {
		s.logger.Warn("Failed to save window state", "path", s.repo.Path(), "error", err.Error())
	}
}

// Restore applies the saved geometry to window, if there is any worth applying
func (s *WindowStateStore) Restore(ctx context.Context, window platform.Window) {
	state, err := s.repo.Load(ctx)
	if err != nil {
		if errors.IsCorruption(err) {
			s.logger.Warn("Failed to parse window state", "path", s.repo.Path(), "error", err.Error())
		} else {
			s.logger.Debug("Window state unavailable", "path", s.repo.Path(), "error", err.Error())
		}
		return
	}
	if state == nil {
		return
	}

	if !state.MeetsMinimum(s.minWidth, s.minHeight) {
		s.logger.Debug("Discarding saved window state below minimum size",
			"width", state.Width, "height", state.Height,
			"min_width", s.minWidth, "min_height", s.minHeight)
		return
	}

	if state.Maximized {
		_ = window.Maximise()
	} else {
		// Position first so the size applies on the target monitor
		_ = window.SetPosition(state.X, state.Y)
		_ = window.SetSize(state.Width, state.Height)
	}

	s.logger.Info("Restored window state",
		"width", state.Width, "height", state.Height,
		"x", state.X, "y", state.Y,
		"maximized", state.Maximized)
}
