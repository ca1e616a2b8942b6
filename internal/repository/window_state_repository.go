package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	repoerrors "chitchats/internal/infrastructure/errors"
	"chitchats/internal/infrastructure/logging"
	"chitchats/internal/types"
)

const stateFilePerm = 0o644

// persistedGeometry mirrors types.WindowGeometry with every field required
type persistedGeometry struct {
	X         *int32  `json:"x"`
	Y         *int32  `json:"y"`
	Width     *uint32 `json:"width"`
	Height    *uint32 `json:"height"`
	Maximized *bool   `json:"maximized"`
}

func (p persistedGeometry) toGeometry() (*types.WindowGeometry, error) {
	switch {
	case p.X == nil:
		return nil, errors.New("missing field 'x'")
	case p.Y == nil:
		return nil, errors.New("missing field 'y'")
	case p.Width == nil:
		return nil, errors.New("missing field 'width'")
	case p.Height == nil:
		return nil, errors.New("missing field 'height'")
	case p.Maximized == nil:
		return nil, errors.New("missing field 'maximized'")
	}
	return &types.WindowGeometry{
		X:         *p.X,
		Y:         *p.Y,
		Width:     *p.Width,
		Height:    *p.Height,
		Maximized: *p.Maximized,
	}, nil
}

// FileWindowStateRepository stores the window geometry as a JSON file
type FileWindowStateRepository struct {
	path   string
	logger logging.Logger
}

// NewFileWindowStateRepository creates a repository backed by the file at path
func NewFileWindowStateRepository(path string, logger logging.Logger) *FileWindowStateRepository {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &FileWindowStateRepository{
		path:   path,
		logger: logger,
	}
}

// Path returns the state file location
func (r *FileWindowStateRepository) Path() string {
	return r.path
}

// Load reads the saved geometry
func (r *FileWindowStateRepository) Load(ctx context.Context) (*types.WindowGeometry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, repoerrors.WrapPersistenceError("load_window_state", r.path, err)
	}

	var record persistedGeometry
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, repoerrors.HandleCorruptionError("load_window_state", r.path, err)
	}

	geometry, err := record.toGeometry()
	if err != nil {
		return nil, repoerrors.HandleCorruptionError("load_window_state", r.path, err)
	}
	return geometry, nil
}

// Save writes geometry as pretty-printed JSON, replacing the file atomically
func (r *FileWindowStateRepository) Save(ctx context.Context, geometry *types.WindowGeometry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if geometry == nil {
		return repoerrors.HandleValidationError("save_window_state", "geometry", "nil", "geometry is required")
	}

	data, err := json.MarshalIndent(geometry, "", "  ")
	if err != nil {
		return repoerrors.NewShellError("save_window_state", fmt.Errorf("failed to encode window state: %w", err), repoerrors.ErrCodeInternal)
	}

	if err := WriteFileAtomic(r.path, data, stateFilePerm); err != nil {
		return repoerrors.WrapPersistenceError("save_window_state", r.path, err)
	}

	r.logger.Debug("Window state written", "path", r.path, "maximized", geometry.Maximized)
	return nil
}
