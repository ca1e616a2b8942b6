package types

import "time"

// SidecarStatus is a point-in-time snapshot of the supervised backend process
type SidecarStatus struct {
	Running   bool       `json:"running"`
	PID       int        `json:"pid,omitempty"`
	RunID     string     `json:"runId,omitempty"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
}

// StartupOutcome is the terminal state reached by the startup sequence
type StartupOutcome string

const (
	StartupPending       StartupOutcome = "pending"
	StartupSetupRequired StartupOutcome = "setup_required"
	StartupReady         StartupOutcome = "ready"
	StartupTimedOut      StartupOutcome = "timed_out"
	StartupStartFailed   StartupOutcome = "start_failed"
)
