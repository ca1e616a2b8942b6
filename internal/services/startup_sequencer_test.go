package services

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitchats/internal/infrastructure/errors"
	"chitchats/internal/platform"
	"chitchats/internal/repository"
	"chitchats/internal/testutils"
	"chitchats/internal/types"
)

type fakeSetup struct {
	needed bool
}

func (f fakeSetup) IsSetupNeeded() bool { return f.needed }

type fakeStarter struct {
	err   error
	calls atomic.Int32
}

func (f *fakeStarter) Start(ctx context.Context) error {
	f.calls.Add(1)
	return f.err
}

// fakeHealth reports healthy from the healthyAt-th call on; zero means never
type fakeHealth struct {
	healthyAt int32
	calls     atomic.Int32
	mu        sync.Mutex
	times     []time.Time
}

func (f *fakeHealth) Poll(ctx context.Context) bool {
	n := f.calls.Add(1)
	f.mu.Lock()
	f.times = append(f.times, time.Now())
	f.mu.Unlock()
	return f.healthyAt > 0 && n >= f.healthyAt
}

// sizingRestorer marks the restore step by resizing the window
type sizingRestorer struct {
	calls atomic.Int32
}

func (r *sizingRestorer) Restore(ctx context.Context, window platform.Window) {
	r.calls.Add(1)
	_ = window.SetSize(1024, 768)
}

func fastStartupOptions(attempts int) StartupOptions {
	return StartupOptions{PollAttempts: attempts, PollInterval: time.Millisecond}
}

func TestStartupSequencer_NormalPath(t *testing.T) {
	starter := &fakeStarter{}
	health := &fakeHealth{healthyAt: 3}
	restorer := &sizingRestorer{}
	window := testutils.NewMockWindow(0, 0, 800, 600)
	window.Visible = false

	seq := NewStartupSequencer(fakeSetup{}, starter, health, restorer, window, fastStartupOptions(30), testutils.NewRecordingLogger())

	assert.Equal(t, types.StartupReady, seq.Run(context.Background()))
	assert.True(t, seq.IsComplete())
	assert.EqualValues(t, 1, starter.calls.Load())
	assert.EqualValues(t, 3, health.calls.Load())
	assert.Equal(t, []string{"SetSize(1024,768)", "Show", "Focus"}, window.CallLog())
	assert.True(t, window.Visible)
}

func TestStartupSequencer_StartMinimized(t *testing.T) {
	window := testutils.NewMockWindow(0, 0, 800, 600)
	window.Visible = false
	opts := fastStartupOptions(30)
	opts.StartMinimized = true

	seq := NewStartupSequencer(fakeSetup{}, &fakeStarter{}, &fakeHealth{healthyAt: 1}, &sizingRestorer{}, window, opts, testutils.NewRecordingLogger())

	assert.Equal(t, types.StartupReady, seq.Run(context.Background()))
	assert.Equal(t, []string{"SetSize(1024,768)", "Show", "Minimise"}, window.CallLog())
	assert.True(t, window.Minimised)
	assert.False(t, window.Focused)
}

func TestStartupSequencer_StartMinimizedStillFocusesSetup(t *testing.T) {
	window := testutils.NewMockWindow(0, 0, 800, 600)
	opts := fastStartupOptions(30)
	opts.StartMinimized = true

	seq := NewStartupSequencer(fakeSetup{needed: true}, &fakeStarter{}, &fakeHealth{}, &sizingRestorer{}, window, opts, testutils.NewRecordingLogger())

	assert.Equal(t, types.StartupSetupRequired, seq.Run(context.Background()))
	assert.Equal(t, []string{"SetSize(1024,768)", "Show", "Focus"}, window.CallLog())
	assert.False(t, window.Minimised)
}

func TestStartupSequencer_SetupNeeded(t *testing.T) {
	starter := &fakeStarter{}
	health := &fakeHealth{healthyAt: 1}
	restorer := &sizingRestorer{}
	window := testutils.NewMockWindow(0, 0, 800, 600)

	seq := NewStartupSequencer(fakeSetup{needed: true}, starter, health, restorer, window, fastStartupOptions(30), testutils.NewRecordingLogger())

	assert.Equal(t, types.StartupSetupRequired, seq.Run(context.Background()))
	assert.False(t, seq.IsComplete())
	assert.EqualValues(t, 0, starter.calls.Load())
	assert.EqualValues(t, 0, health.calls.Load())
	assert.Equal(t, []string{"SetSize(1024,768)", "Show", "Focus"}, window.CallLog())
}

func TestStartupSequencer_StartFailure(t *testing.T) {
	starter := &fakeStarter{err: errors.NewShellError("start_sidecar", stderrors.New("exec format error"), errors.ErrCodeSpawn)}
	health := &fakeHealth{healthyAt: 1}
	restorer := &sizingRestorer{}
	window := testutils.NewMockWindow(0, 0, 800, 600)
	logger := testutils.NewRecordingLogger()

	seq := NewStartupSequencer(fakeSetup{}, starter, health, restorer, window, fastStartupOptions(30), logger)

	assert.Equal(t, types.StartupStartFailed, seq.Run(context.Background()))
	assert.False(t, seq.IsComplete())
	assert.EqualValues(t, 0, health.calls.Load(), "no polling after a failed start")
	assert.Empty(t, window.CallLog())

	_, ok := logger.Find("error", "start_backend failed")
	assert.True(t, ok)
}

func TestStartupSequencer_Timeout(t *testing.T) {
	health := &fakeHealth{}
	restorer := &sizingRestorer{}
	window := testutils.NewMockWindow(0, 0, 800, 600)
	window.Visible = false
	logger := testutils.NewRecordingLogger()

	seq := NewStartupSequencer(fakeSetup{}, &fakeStarter{}, health, restorer, window, fastStartupOptions(30), logger)

	assert.Equal(t, types.StartupTimedOut, seq.Run(context.Background()))
	assert.False(t, seq.IsComplete())
	assert.EqualValues(t, 30, health.calls.Load())
	assert.EqualValues(t, 0, restorer.calls.Load())
	assert.Empty(t, window.CallLog())
	assert.False(t, window.Visible)

	entry, ok := logger.Find("error", "Backend failed to become healthy")
	require.True(t, ok)
	assert.Equal(t, 30, testutils.FieldsToMap(t, entry.Fields)["attempts"])
}

func TestStartupSequencer_PollSpacing(t *testing.T) {
	health := &fakeHealth{healthyAt: 3}
	opts := StartupOptions{PollAttempts: 5, PollInterval: 30 * time.Millisecond}
	seq := NewStartupSequencer(fakeSetup{}, &fakeStarter{}, health, &sizingRestorer{}, testutils.NewMockWindow(0, 0, 800, 600), opts, testutils.NewRecordingLogger())

	require.Equal(t, types.StartupReady, seq.Run(context.Background()))

	health.mu.Lock()
	defer health.mu.Unlock()
	require.Len(t, health.times, 3)
	for i := 1; i < len(health.times); i++ {
		assert.GreaterOrEqual(t, health.times[i].Sub(health.times[i-1]), 25*time.Millisecond)
	}
}

func TestStartupSequencer_RunsOnce(t *testing.T) {
	starter := &fakeStarter{}
	health := &fakeHealth{healthyAt: 1}
	window := testutils.NewMockWindow(0, 0, 800, 600)
	seq := NewStartupSequencer(fakeSetup{}, starter, health, &sizingRestorer{}, window, fastStartupOptions(30), testutils.NewRecordingLogger())

	first := seq.Run(context.Background())
	second := seq.Run(context.Background())

	assert.Equal(t, types.StartupReady, first)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, starter.calls.Load())
	assert.EqualValues(t, 1, health.calls.Load())
	assert.Len(t, window.CallLog(), 3)
}

func TestStartupSequencer_Cancellation(t *testing.T) {
	health := &fakeHealth{}
	opts := StartupOptions{PollAttempts: 30, PollInterval: time.Second}
	window := testutils.NewMockWindow(0, 0, 800, 600)
	seq := NewStartupSequencer(fakeSetup{}, &fakeStarter{}, health, &sizingRestorer{}, window, opts, testutils.NewRecordingLogger())

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	assert.Equal(t, types.StartupTimedOut, seq.Run(ctx))
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Less(t, health.calls.Load(), int32(30))
	assert.Empty(t, window.CallLog())
}

func TestStartupSequencer_RestoresSavedGeometry(t *testing.T) {
	logger := testutils.NewRecordingLogger()
	repo := repository.NewFileWindowStateRepository(filepath.Join(t.TempDir(), ".window_state.json"), logger)
	require.NoError(t, repo.Save(context.Background(), &types.WindowGeometry{X: 10, Y: 20, Width: 1200, Height: 800}))
	store := NewWindowStateStore(repo, 400, 300, logger)

	window := testutils.NewMockWindow(0, 0, 800, 600)
	window.Visible = false

	seq := NewStartupSequencer(fakeSetup{}, &fakeStarter{}, &fakeHealth{healthyAt: 1}, store, window, fastStartupOptions(30), logger)

	require.Equal(t, types.StartupReady, seq.Run(context.Background()))
	assert.Equal(t, []string{"SetPosition(10,20)", "SetSize(1200,800)", "Show", "Focus"}, window.CallLog())
}
