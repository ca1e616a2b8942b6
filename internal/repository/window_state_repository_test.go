package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repoerrors "chitchats/internal/infrastructure/errors"
	"chitchats/internal/testutils"
	"chitchats/internal/types"
)

func newTestRepository(t *testing.T) *FileWindowStateRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".window_state.json")
	return NewFileWindowStateRepository(path, testutils.NewRecordingLogger())
}

func TestFileWindowStateRepository_LoadMissing(t *testing.T) {
	repo := newTestRepository(t)

	geometry, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, geometry)
}

func TestFileWindowStateRepository_SaveAndLoad(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	want := &types.WindowGeometry{X: -120, Y: 40, Width: 1280, Height: 800, Maximized: false}
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileWindowStateRepository_FileFormat(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Save(context.Background(), &types.WindowGeometry{
		X: 100, Y: 50, Width: 1200, Height: 800, Maximized: true,
	}))

	data, err := os.ReadFile(repo.Path())
	require.NoError(t, err)

	expected := "{\n" +
		"  \"x\": 100,\n" +
		"  \"y\": 50,\n" +
		"  \"width\": 1200,\n" +
		"  \"height\": 800,\n" +
		"  \"maximized\": true\n" +
		"}"
	assert.Equal(t, expected, string(data))
}

func TestFileWindowStateRepository_SaveLeavesNoTempFile(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, &types.WindowGeometry{Width: uint32(800 + i), Height: 600}))
	}

	entries, err := os.ReadDir(filepath.Dir(repo.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".window_state.json", entries[0].Name())
}

func TestFileWindowStateRepository_LoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "garbage{"},
		{"empty file", ""},
		{"negative width", `{"x":0,"y":0,"width":-5,"height":300,"maximized":false}`},
		{"missing field", `{"x":0,"y":0,"width":800,"height":600}`},
		{"wrong type", `{"x":"left","y":0,"width":800,"height":600,"maximized":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepository(t)
			require.NoError(t, os.WriteFile(repo.Path(), []byte(tt.content), 0o644))

			geometry, err := repo.Load(context.Background())
			require.Error(t, err)
			assert.Nil(t, geometry)
			assert.True(t, repoerrors.IsCorruption(err))
		})
	}
}

func TestFileWindowStateRepository_LoadIgnoresUnknownFields(t *testing.T) {
	repo := newTestRepository(t)
	content := `{"x":1,"y":2,"width":800,"height":600,"maximized":false,"monitor":"HDMI-1"}`
	require.NoError(t, os.WriteFile(repo.Path(), []byte(content), 0o644))

	geometry, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &types.WindowGeometry{X: 1, Y: 2, Width: 800, Height: 600}, geometry)
}

func TestFileWindowStateRepository_SaveNil(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.Save(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, repoerrors.IsValidation(err))
}

func TestFileWindowStateRepository_SaveIntoMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", ".window_state.json")
	repo := NewFileWindowStateRepository(path, nil)

	err := repo.Save(context.Background(), &types.WindowGeometry{Width: 800, Height: 600})
	require.Error(t, err)
	assert.True(t, repoerrors.IsNotFound(err))
}

func TestFileWindowStateRepository_CancelledContext(t *testing.T) {
	repo := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	err = repo.Save(ctx, &types.WindowGeometry{Width: 800, Height: 600})
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(repo.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFileAtomic_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("OLD=1\n"), 0o600))

	require.NoError(t, WriteFileAtomic(path, []byte("NEW=1\n"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "NEW=1\n", string(data))
}
