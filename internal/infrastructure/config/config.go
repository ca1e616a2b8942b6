package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/kelseyhightower/envconfig"

	"chitchats/internal/infrastructure/errors"
	"chitchats/internal/infrastructure/logging"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "CHITCHATS"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all shell configuration.
type Config struct {
	Environment string // defaults per build mode, see defaultEnvironment
	Sidecar     SidecarConfig
	Window      WindowConfig
	Logging     LogConfig
	Setup       SetupConfig
}

// SidecarConfig holds backend subprocess configuration.
type SidecarConfig struct {
	Name          string        `default:"chitchats-backend"`
	Path          string        // overrides the resolved executable path when set
	Args          []string      // extra command line arguments
	HealthURL     string        `split_words:"true" default:"http://localhost:8000/health"`
	HealthTimeout time.Duration `split_words:"true" default:"2s"`
	PollAttempts  int           `split_words:"true" default:"30"`
	PollInterval  time.Duration `split_words:"true" default:"500ms"`
}

// WindowConfig holds host window configuration.
type WindowConfig struct {
	StateFile   string `split_words:"true" default:".window_state.json"`
	MinWidth    uint32 `split_words:"true" default:"400"`
	MinHeight   uint32 `split_words:"true" default:"300"`
	HideOnClose bool   `split_words:"true"` // defaults per platform, see defaultHideOnClose
	// StartMinimized keeps the window minimised once startup completes.
	// Also set by the --minimized launch flag.
	StartMinimized bool `split_words:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `default:"info"`
	Development bool   `default:"false"`
}

// SetupConfig holds first-run setup configuration.
type SetupConfig struct {
	EnvFile string `split_words:"true" default:".env"`
}

// Overridable in tests
var (
	executablePath = os.Executable
	workingDir     = os.Getwd
)

// Load loads configuration from CHITCHATS_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, errors.NewShellError("load_config", fmt.Errorf("failed to load config: %w", err), errors.ErrCodeConfig)
	}
	if cfg.Environment == "" {
		cfg.Environment = defaultEnvironment
	}
	if _, set := os.LookupEnv(EnvPrefix + "_WINDOW_HIDE_ON_CLOSE"); !set {
		cfg.Window.HideOnClose = defaultHideOnClose()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns the
// defaults for the requested environment.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return ConfigForEnvironment(os.Getenv(EnvPrefix + "_ENVIRONMENT"))
	}
	return cfg
}

// Default returns the default configuration for the build mode.
func Default() *Config {
	return &Config{
		Environment: defaultEnvironment,
		Sidecar: SidecarConfig{
			Name:          "chitchats-backend",
			HealthURL:     "http://localhost:8000/health",
			HealthTimeout: 2 * time.Second,
			PollAttempts:  30,
			PollInterval:  500 * time.Millisecond,
		},
		Window: WindowConfig{
			StateFile:   ".window_state.json",
			MinWidth:    400,
			MinHeight:   300,
			HideOnClose: defaultHideOnClose(),
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Setup: SetupConfig{
			EnvFile: ".env",
		},
	}
}

// ConfigForEnvironment returns defaults tuned for env.
// An empty env uses the build mode; unknown values fall back to production.
func ConfigForEnvironment(env string) *Config {
	if env == "" {
		env = defaultEnvironment
	}
	cfg := Default()
	cfg.Environment = EnvProduction
	if env == EnvDevelopment {
		cfg.Environment = EnvDevelopment
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}
	return cfg
}

// defaultHideOnClose keeps the app alive on close only where the application
// menu stays reachable without a window (macOS)
func defaultHideOnClose() bool {
	return runtime.GOOS == "darwin"
}

// IsDevelopment reports whether paths resolve against the working directory
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// LoggerConfig converts the logging section into a logger configuration
func (c *Config) LoggerConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Development = c.Logging.Development
	return cfg
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	const op = "validate_config"

	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return configError(op, "environment", "must be 'development' or 'production', got %q", c.Environment)
	}
	if c.Sidecar.Name == "" && c.Sidecar.Path == "" {
		return configError(op, "sidecar.name", "must be set when no sidecar path override is given")
	}

	u, err := url.Parse(c.Sidecar.HealthURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return configError(op, "sidecar.health_url", "must be an absolute http(s) URL, got %q", c.Sidecar.HealthURL)
	}
	if c.Sidecar.HealthTimeout <= 0 {
		return configError(op, "sidecar.health_timeout", "must be positive, got %v", c.Sidecar.HealthTimeout)
	}
	if c.Sidecar.PollAttempts < 1 {
		return configError(op, "sidecar.poll_attempts", "must be at least 1, got %d", c.Sidecar.PollAttempts)
	}
	if c.Sidecar.PollInterval < 0 {
		return configError(op, "sidecar.poll_interval", "cannot be negative, got %v", c.Sidecar.PollInterval)
	}

	if c.Window.StateFile == "" {
		return configError(op, "window.state_file", "cannot be empty")
	}
	if c.Window.MinWidth == 0 || c.Window.MinHeight == 0 {
		return configError(op, "window.min_size", "must be positive, got %dx%d", c.Window.MinWidth, c.Window.MinHeight)
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return configError(op, "logging.level", "unknown level %q", c.Logging.Level)
	}

	if c.Setup.EnvFile == "" {
		return configError(op, "setup.env_file", "cannot be empty")
	}

	return nil
}

func configError(op, field, format string, args ...interface{}) error {
	return errors.NewShellErrorWithContext(op, fmt.Errorf(format, args...), errors.ErrCodeConfig, map[string]string{
		"field": field,
	})
}

// WorkDir returns the directory holding the sidecar, the env file and the
// window-state file. Development uses the working directory; production uses
// the executable's directory and falls back to "." when it cannot be resolved.
func (c *Config) WorkDir() string {
	if c.IsDevelopment() {
		if dir, err := workingDir(); err == nil {
			return dir
		}
		return "."
	}

	exe, err := resolvedExecutable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ExecutablePath returns the running shell binary with symlinks resolved,
// falling back to argv[0]
func ExecutablePath() string {
	exe, err := resolvedExecutable()
	if err != nil {
		return os.Args[0]
	}
	return exe
}

func resolvedExecutable() (string, error) {
	exe, err := executablePath()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe, nil
}

// StateFilePath returns the location of the persisted window geometry
func (c *Config) StateFilePath() string {
	return c.resolve(c.Window.StateFile)
}

// EnvFilePath returns the location of the backend's .env file
func (c *Config) EnvFilePath() string {
	return c.resolve(c.Setup.EnvFile)
}

// SidecarPath returns the backend executable to spawn
func (c *Config) SidecarPath() string {
	if c.Sidecar.Path != "" {
		return c.Sidecar.Path
	}
	return filepath.Join(c.WorkDir(), ExecutableName(c.Sidecar.Name))
}

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.WorkDir(), name)
}

// ExecutableName appends the platform executable suffix to name
func ExecutableName(name string) string {
	if runtime.GOOS == "windows" && filepath.Ext(name) != ".exe" {
		return name + ".exe"
	}
	return name
}
