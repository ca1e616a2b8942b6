package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"chitchats/internal/infrastructure/config"
	"chitchats/internal/infrastructure/logging"
	"chitchats/internal/platform"
	"chitchats/internal/repository"
	"chitchats/internal/services"
	"chitchats/internal/types"
)

const (
	appName        = "chitchats"
	appDisplayName = "ChitChats"
)

// Sidecar is the backend process control surface the app needs
type Sidecar interface {
	Start(ctx context.Context) error
	Stop() error
	IsRunning() bool
	Status() types.SidecarStatus
}

// App struct represents the main application
type App struct {
	ctx    context.Context
	cfg    *config.Config
	logger logging.Logger

	window    platform.Window
	attach    func(ctx context.Context)
	sidecar   Sidecar
	health    services.HealthChecker
	store     *services.WindowStateStore
	setup     *services.SetupChecker
	autostart *services.AutostartManager
	quitFunc  func(ctx context.Context)

	sequencer   *services.StartupSequencer
	startupDone chan struct{}
	quitting    atomic.Bool
	stopOnce    sync.Once
}

// NewApp creates a new App with its services wired from cfg
func NewApp(cfg *config.Config, logger logging.Logger) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	window := platform.NewWailsWindow(true)
	repo := repository.NewFileWindowStateRepository(cfg.StateFilePath(), logger)
	loginItem := platform.NewAutostartEntry(appName, appDisplayName, config.ExecutablePath())

	return &App{
		cfg:    cfg,
		logger: logger,
		window: window,
		attach: window.Attach,
		sidecar: services.NewSidecarSupervisor(
			services.SidecarOptionsFromConfig(cfg),
			platform.NewProcessController(),
			logger,
		),
		health:      services.NewHealthProbe(cfg.Sidecar.HealthURL, cfg.Sidecar.HealthTimeout, logger),
		store:       services.NewWindowStateStore(repo, cfg.Window.MinWidth, cfg.Window.MinHeight, logger),
		setup:       services.NewSetupChecker(cfg.EnvFilePath(), logger),
		autostart:   services.NewAutostartManager(loginItem, logger),
		quitFunc:    wailsruntime.Quit,
		startupDone: make(chan struct{}),
	}
}

// Startup is called at application startup. The window starts hidden and is
// revealed by the startup sequence.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	if a.attach != nil {
		a.attach(ctx)
	}

	a.sequencer = services.NewStartupSequencer(
		a.setup,
		a.sidecar,
		a.health,
		a.store,
		a.window,
		services.StartupOptions{
			PollAttempts:   a.cfg.Sidecar.PollAttempts,
			PollInterval:   a.cfg.Sidecar.PollInterval,
			StartMinimized: a.cfg.Window.StartMinimized,
		},
		a.logger,
	)

	a.logger.Info("Application starting",
		"environment", a.cfg.Environment,
		"work_dir", a.cfg.WorkDir(),
		"sidecar", a.cfg.SidecarPath(),
		"start_minimized", a.cfg.Window.StartMinimized)

	go func() {
		defer close(a.startupDone)
		outcome := a.sequencer.Run(ctx)
		a.logger.Info("Startup sequence finished", "outcome", string(outcome))
	}()
}

// DomReady is called after front-end resources have been loaded
func (a *App) DomReady(ctx context.Context) {}

// BeforeClose saves the window geometry. With hide-on-close enabled the window
// is hidden instead of closed and the app keeps running in the background.
func (a *App) BeforeClose(ctx context.Context) (prevent bool) {
	a.store.Save(ctx, a.window)

	if a.quitting.Load() || !a.cfg.Window.HideOnClose {
		return false
	}

	if err := a.window.Hide(); err != nil {
		a.logger.Warn("Failed to hide window, closing instead", "error", err.Error())
		return false
	}
	return true
}

// Shutdown is called at application termination
func (a *App) Shutdown(ctx context.Context) {
	a.logger.Info("Starting application shutdown sequence...")
	a.stopSidecar()
	a.logger.Info("Application shutdown completed")
}

func (a *App) stopSidecar() {
	a.stopOnce.Do(func() {
		if err := a.sidecar.Stop(); err != nil {
			logging.LogError(a.logger, err, "stop_backend", nil)
		}
	})
}

// Quit stops the backend without waiting for it and exits the application
func (a *App) Quit() {
	a.quitting.Store(true)
	go a.stopSidecar()
	if a.quitFunc != nil {
		a.quitFunc(a.ctx)
	}
}

// ShowWindow reveals and focuses the main window
func (a *App) ShowWindow() {
	if err := a.window.Show(); err != nil {
		a.logger.Warn("Failed to show window", "error", err.Error())
		return
	}
	if err := a.window.Focus(); err != nil {
		a.logger.Warn("Failed to focus window", "error", err.Error())
	}
}

// SaveWindowState persists the current geometry; the frontend calls it on move and resize
func (a *App) SaveWindowState() {
	a.store.Save(a.context(), a.window)
}

// StartBackend starts the backend sidecar if it is not running
func (a *App) StartBackend() error {
	return a.sidecar.Start(a.context())
}

// StopBackend stops the backend sidecar
func (a *App) StopBackend() error {
	return a.sidecar.Stop()
}

// CheckBackendHealth probes the backend health endpoint once
func (a *App) CheckBackendHealth() bool {
	return a.health.Poll(a.context())
}

// GetBackendStatus returns the backend process status
func (a *App) GetBackendStatus() types.SidecarStatus {
	return a.sidecar.Status()
}

// CheckSetupNeeded reports whether first-run setup must be completed
func (a *App) CheckSetupNeeded() bool {
	return a.setup.IsSetupNeeded()
}

// CreateEnvFile completes first-run setup
func (a *App) CreateEnvFile(password, userName string) error {
	return a.setup.CreateEnvFile(password, userName)
}

// EnableAutostart launches the app minimised at login
func (a *App) EnableAutostart() error {
	return a.autostart.Enable()
}

// DisableAutostart removes the login item
func (a *App) DisableAutostart() error {
	return a.autostart.Disable()
}

// IsAutostartEnabled reports whether the app launches at login
func (a *App) IsAutostartEnabled() bool {
	return a.autostart.IsEnabled()
}

// GetAppDataDir returns the directory holding the env and window-state files
func (a *App) GetAppDataDir() string {
	return a.cfg.WorkDir()
}

// waitForStartup blocks until the startup sequence finished or timeout elapsed
func (a *App) waitForStartup(timeout time.Duration) bool {
	select {
	case <-a.startupDone:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (a *App) context() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}
