package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrorCode represents the different classes of shell errors
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeSpawn
	ErrCodeKill
	ErrCodeLock
	ErrCodeUnhealthy
	ErrCodeTimeout
	ErrCodeNotFound
	ErrCodePermission
	ErrCodeCorruption
	ErrCodeValidation
	ErrCodeConfig
	ErrCodeSetup
	ErrCodeInternal
)

// String returns a string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case ErrCodeSpawn:
		return "SPAWN"
	case ErrCodeKill:
		return "KILL"
	case ErrCodeLock:
		return "LOCK"
	case ErrCodeUnhealthy:
		return "UNHEALTHY"
	case ErrCodeTimeout:
		return "TIMEOUT"
	case ErrCodeNotFound:
		return "NOT_FOUND"
	case ErrCodePermission:
		return "PERMISSION"
	case ErrCodeCorruption:
		return "CORRUPTION"
	case ErrCodeValidation:
		return "VALIDATION"
	case ErrCodeConfig:
		return "CONFIG"
	case ErrCodeSetup:
		return "SETUP"
	case ErrCodeInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// ShellError is an error raised by the desktop shell with classification and context
type ShellError struct {
	Op        string            // operation name
	Err       error             // underlying error
	Code      ErrorCode         // error classification
	Retryable bool              // whether the operation may be attempted again
	Context   map[string]string // additional context information
	Timestamp time.Time         // when the error occurred
}

func (e *ShellError) Error() string {
	if e == nil {
		return "shell error"
	}

	var parts []string

	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}

	if e.Code != ErrCodeUnknown {
		parts = append(parts, fmt.Sprintf("code=%s", e.Code.String()))
	}

	if e.Retryable {
		parts = append(parts, "retryable=true")
	}

	// Context keys are sorted for deterministic output
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, e.Context[k]))
		}
	}

	contextStr := ""
	if len(parts) > 0 {
		contextStr = fmt.Sprintf(" [%s]", strings.Join(parts, " "))
	}

	if e.Err != nil {
		return e.Err.Error() + contextStr
	}
	return "shell error" + contextStr
}

func (e *ShellError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements error matching for errors.Is
func (e *ShellError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*ShellError); ok {
		return e.Code == t.Code
	}
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}
	return false
}

// IsRetryable returns whether the error is retryable
func (e *ShellError) IsRetryable() bool {
	if e == nil {
		return false
	}
	return e.Retryable
}

// GetCode returns the error code as a string (for logging interface compatibility)
func (e *ShellError) GetCode() string {
	if e == nil {
		return ErrCodeUnknown.String()
	}
	return e.Code.String()
}

// GetContext returns the error context (for logging interface compatibility)
func (e *ShellError) GetContext() map[string]string {
	if e == nil || e.Context == nil {
		return make(map[string]string)
	}
	return e.Context
}

// GetTimestamp returns the error timestamp (for logging interface compatibility)
func (e *ShellError) GetTimestamp() time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.Timestamp
}

// WithContext adds context information to the error by mutating the receiver.
// It must not be used after the error has been shared between goroutines.
func (e *ShellError) WithContext(key, value string) *ShellError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// NewShellError creates a new shell error with the given parameters
func NewShellError(op string, err error, code ErrorCode) *ShellError {
	return &ShellError{
		Op:        op,
		Err:       err,
		Code:      code,
		Retryable: isRetryableCode(code),
		Context:   make(map[string]string),
		Timestamp: time.Now(),
	}
}

// NewShellErrorWithContext creates a new shell error with additional context
func NewShellErrorWithContext(op string, err error, code ErrorCode, context map[string]string) *ShellError {
	shellErr := NewShellError(op, err, code)
	if context != nil {
		// Clone so later mutation by the caller does not race with readers
		shellErr.Context = make(map[string]string, len(context))
		for k, v := range context {
			shellErr.Context[k] = v
		}
	}
	return shellErr
}

// isRetryableCode reports which codes describe transient conditions.
// Spawn and kill failures are deliberately final: the shell never respawns on its own.
func isRetryableCode(code ErrorCode) bool {
	switch code {
	case ErrCodeUnhealthy, ErrCodeTimeout:
		return true
	default:
		return false
	}
}

func hasCode(err error, code ErrorCode) bool {
	var shellErr *ShellError
	if errors.As(err, &shellErr) {
		return shellErr.Code == code
	}
	return false
}

// IsSpawn checks if the error is a sidecar spawn failure
func IsSpawn(err error) bool { return hasCode(err, ErrCodeSpawn) }

// IsKill checks if the error is a sidecar kill failure
func IsKill(err error) bool { return hasCode(err, ErrCodeKill) }

// IsLock checks if the error is a lock failure
func IsLock(err error) bool { return hasCode(err, ErrCodeLock) }

// IsUnhealthy checks if the error is a failed health probe
func IsUnhealthy(err error) bool { return hasCode(err, ErrCodeUnhealthy) }

// IsTimeout checks if the error is a timeout
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsNotFound checks if the error is a "not found" error
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsPermission checks if the error is a permission error
func IsPermission(err error) bool { return hasCode(err, ErrCodePermission) }

// IsCorruption checks if the error reports malformed persisted data
func IsCorruption(err error) bool { return hasCode(err, ErrCodeCorruption) }

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsConfig checks if the error is a configuration error
func IsConfig(err error) bool { return hasCode(err, ErrCodeConfig) }

// IsSetup checks if the error is a first-run setup error
func IsSetup(err error) bool { return hasCode(err, ErrCodeSetup) }

// IsRetryable checks if the error is retryable
func IsRetryable(err error) bool {
	var shellErr *ShellError
	if errors.As(err, &shellErr) {
		return shellErr.Retryable
	}
	return false
}
