package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"chitchats/internal/infrastructure/errors"
	"chitchats/internal/infrastructure/logging"
	"chitchats/internal/repository"
)

const (
	MinPasswordLength = 4
	DefaultUserName   = "User"

	jwtSecretBytes = 32
	envFilePerm    = 0o600
)

// Values the example .env ships with; their presence means setup never ran
var envPlaceholders = []string{"example_hash", "paste_your", "your-random-secret"}

// SetupPredicate reports whether first-run setup must happen before the backend starts
type SetupPredicate interface {
	IsSetupNeeded() bool
}

// SetupChecker inspects and creates the backend's .env file
type SetupChecker struct {
	envFile string
	logger  logging.Logger
}

// NewSetupChecker creates a checker for the .env file at envFile
func NewSetupChecker(envFile string, logger logging.Logger) *SetupChecker {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &SetupChecker{
		envFile: envFile,
		logger:  logger,
	}
}

// EnvFilePath returns the managed .env file
func (c *SetupChecker) EnvFilePath() string {
	return c.envFile
}

// DataDir returns the directory holding the .env file
func (c *SetupChecker) DataDir() string {
	return filepath.Dir(c.envFile)
}

// IsSetupNeeded is true unless the .env file carries a real API key hash and JWT secret
func (c *SetupChecker) IsSetupNeeded() bool {
	data, err := os.ReadFile(c.envFile)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("Failed to read env file", "path", c.envFile, "error", err.Error())
		}
		return true
	}

	content := string(data)
	for _, placeholder := range envPlaceholders {
		if strings.Contains(content, placeholder) {
			return true
		}
	}
	return !strings.Contains(content, "API_KEY_HASH=") || !strings.Contains(content, "JWT_SECRET=")
}

// CreateEnvFile writes a fresh .env with a bcrypt hash of password and a random JWT secret
func (c *SetupChecker) CreateEnvFile(password, userName string) error {
	const op = "create_env_file"

	if utf8.RuneCountInString(password) < MinPasswordLength {
		return errors.HandleValidationError(op, "password", "", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}

	userName = strings.TrimSpace(userName)
	if userName == "" {
		userName = DefaultUserName
	}
	if strings.ContainsAny(userName, "\r\n") {
		return errors.HandleValidationError(op, "user_name", userName, "must be a single line")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.HandleValidationError(op, "password", "", err.Error())
	}

	secret := make([]byte, jwtSecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return errors.NewShellError(op, fmt.Errorf("failed to generate JWT secret: %w", err), errors.ErrCodeSetup)
	}

	content := renderEnvFile(userName, string(hash), hex.EncodeToString(secret))
	if err := repository.WriteFileAtomic(c.envFile, []byte(content), envFilePerm); err != nil {
		wrapped := errors.NewShellErrorWithContext(op, err, errors.ErrCodeSetup, map[string]string{"path": c.envFile})
		logging.LogError(c.logger, wrapped, op, nil)
		return wrapped
	}

	c.logger.Info("Env file created", "path", c.envFile, "user_name", userName)
	return nil
}

func renderEnvFile(userName, passwordHash, jwtSecret string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "USER_NAME=%s\n", userName)
	b.WriteString("CLAUDE_AGENT_SDK_SKIP_VERSION_CHECK=true\n")
	b.WriteString("\n# Authentication (auto-generated by setup wizard)\n")
	fmt.Fprintf(&b, "API_KEY_HASH=%s\n", passwordHash)
	b.WriteString("\n# JWT Secret (auto-generated)\n")
	fmt.Fprintf(&b, "JWT_SECRET=%s\n", jwtSecret)
	b.WriteString("\n# Set to \"true\" for debug logging\n")
	b.WriteString("DEBUG_AGENTS=false\n")
	return b.String()
}
