package repository

import (
	"context"

	"chitchats/internal/types"
)

// WindowStateRepository defines persistence operations for the main window geometry
type WindowStateRepository interface {
	// Load returns the saved geometry, or (nil, nil) when nothing has been saved.
	// An unreadable or malformed record is reported as a corruption error.
	Load(ctx context.Context) (*types.WindowGeometry, error)

	// Save replaces the saved geometry as a whole
	Save(ctx context.Context, geometry *types.WindowGeometry) error

	// Path returns where the geometry is stored
	Path() string
}
