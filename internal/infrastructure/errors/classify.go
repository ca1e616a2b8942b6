package errors

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ClassifyError maps process and filesystem errors onto shell error codes
func ClassifyError(err error) ErrorCode {
	if err == nil {
		return ErrCodeUnknown
	}

	var shellErr *ShellError
	if errors.As(err, &shellErr) {
		return shellErr.Code
	}

	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrCodePermission
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return ErrCodeTimeout
	case errors.Is(err, os.ErrProcessDone):
		return ErrCodeKill
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "permission denied"), strings.Contains(errStr, "access is denied"):
		return ErrCodePermission
	case strings.Contains(errStr, "executable file not found"), strings.Contains(errStr, "no such file"):
		return ErrCodeNotFound
	case strings.Contains(errStr, "timeout"):
		return ErrCodeTimeout
	default:
		return ErrCodeUnknown
	}
}

// WrapSpawnError wraps a failure to launch the sidecar executable
func WrapSpawnError(op string, path string, err error) error {
	if err == nil {
		return nil
	}

	code := ClassifyError(err)
	if code == ErrCodeUnknown || code == ErrCodeTimeout {
		code = ErrCodeSpawn
	}
	return NewShellErrorWithContext(op, err, code, map[string]string{
		"path": path,
	})
}

// WrapKillError wraps a failure to deliver the kill signal
func WrapKillError(op string, pid int, err error) error {
	if err == nil {
		return nil
	}
	return NewShellErrorWithContext(op, err, ErrCodeKill, map[string]string{
		"pid": strconv.Itoa(pid),
	})
}

// WrapPersistenceError wraps a window-state file failure
func WrapPersistenceError(op string, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewShellErrorWithContext(op, err, ClassifyError(err), map[string]string{
		"path": path,
	})
}

// HandleValidationError creates a standardized validation error
func HandleValidationError(op string, field string, value string, reason string) error {
	return NewShellErrorWithContext(op, errors.New("validation failed"), ErrCodeValidation, map[string]string{
		"field":  field,
		"value":  value,
		"reason": reason,
	})
}

// HandleCorruptionError creates a standardized error for unparsable persisted data
func HandleCorruptionError(op string, path string, err error) error {
	return NewShellErrorWithContext(op, err, ErrCodeCorruption, map[string]string{
		"path": path,
	})
}

// HandleLockError converts a panic recovered inside a critical section into an error
func HandleLockError(op string, recovered any) error {
	return NewShellError(op, errors.New("lock poisoned: "+fmt.Sprint(recovered)), ErrCodeLock)
}
