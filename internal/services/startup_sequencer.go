package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"chitchats/internal/infrastructure/errors"
	"chitchats/internal/infrastructure/logging"
	"chitchats/internal/platform"
	"chitchats/internal/types"
)

// SidecarStarter starts the backend process
type SidecarStarter interface {
	Start(ctx context.Context) error
}

// WindowRestorer applies saved geometry to a window
type WindowRestorer interface {
	Restore(ctx context.Context, window platform.Window)
}

// StartupOptions bounds the readiness wait
type StartupOptions struct {
	PollAttempts int
	PollInterval time.Duration
	// StartMinimized reveals a ready window minimised instead of focused.
	// First-run setup always gets a focused window.
	StartMinimized bool
}

// DefaultStartupOptions waits up to 30 probes spaced 500ms apart
func DefaultStartupOptions() StartupOptions {
	return StartupOptions{
		PollAttempts: 30,
		PollInterval: 500 * time.Millisecond,
	}
}

// StartupSequencer brings the application from launch to a revealed window.
// The window stays hidden until the backend answers its health check, unless
// first-run setup is needed, in which case the backend is not started at all.
type StartupSequencer struct {
	setup    SetupPredicate
	sidecar  SidecarStarter
	health   HealthChecker
	restorer WindowRestorer
	window   platform.Window
	opts     StartupOptions
	logger   logging.Logger

	once     sync.Once
	outcome  types.StartupOutcome
	complete atomic.Bool
}

// NewStartupSequencer wires the sequencer's collaborators
func NewStartupSequencer(
	setup SetupPredicate,
	sidecar SidecarStarter,
	health HealthChecker,
	restorer WindowRestorer,
	window platform.Window,
	opts StartupOptions,
	logger logging.Logger,
) *StartupSequencer {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if opts.PollAttempts < 1 {
		opts.PollAttempts = 1
	}
	return &StartupSequencer{
		setup:    setup,
		sidecar:  sidecar,
		health:   health,
		restorer: restorer,
		window:   window,
		opts:     opts,
		logger:   logger,
		outcome:  types.StartupPending,
	}
}

// Run executes the startup sequence once. Later calls return the first
// outcome without side effects.
func (s *StartupSequencer) Run(ctx context.Context) types.StartupOutcome {
	s.once.Do(func() {
		s.outcome = s.run(ctx)
	})
	return s.outcome
}

// IsComplete reports whether the backend became healthy during startup
func (s *StartupSequencer) IsComplete() bool {
	return s.complete.Load()
}

func (s *StartupSequencer) run(ctx context.Context) types.StartupOutcome {
	started := time.Now()

	if s.setup.IsSetupNeeded() {
		s.logger.Info("Setup required, showing window without starting backend")
		s.reveal(ctx, false)
		return types.StartupSetupRequired
	}

	if err := s.sidecar.Start(ctx); err != nil {
		logging.LogError(s.logger, err, "start_backend", nil)
		return types.StartupStartFailed
	}

	attempts, err := errors.PollUntil(ctx, s.opts.PollAttempts, s.opts.PollInterval, "backend_health", func() bool {
		return s.health.Poll(ctx)
	})
	if err != nil {
		if ctx.Err() != nil {
			s.logger.Info("Startup cancelled while waiting for backend", "attempts", attempts)
			return types.StartupTimedOut
		}
		s.logger.Error("Backend failed to become healthy",
			"attempts", attempts,
			"max_attempts", s.opts.PollAttempts,
			"error", err.Error())
		return types.StartupTimedOut
	}

	s.complete.Store(true)
	logging.LogOperation(s.logger, "backend_startup", time.Since(started), map[string]interface{}{
		"attempts": attempts,
	})

	s.reveal(ctx, s.opts.StartMinimized)
	return types.StartupReady
}

// reveal restores geometry before showing so the window never flashes at its default size
func (s *StartupSequencer) reveal(ctx context.Context, minimised bool) {
	s.restorer.Restore(ctx, s.window)
	if err := s.window.Show(); err != nil {
		s.logger.Warn("Failed to show window", "error", err.Error())
	}
	if minimised {
		if err := s.window.Minimise(); err != nil {
			s.logger.Warn("Failed to minimise window", "error", err.Error())
		}
		return
	}
	if err := s.window.Focus(); err != nil {
		s.logger.Warn("Failed to focus window", "error", err.Error())
	}
}
