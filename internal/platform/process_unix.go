//go:build !windows

package platform

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

type processController struct{}

// Configure places the child in its own process group so KillTree reaches
// everything it spawns
func (processController) Configure(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillTree sends SIGKILL to the child's process group
func (processController) KillTree(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return os.ErrProcessDone
	}

	pid := cmd.Process.Pid
	err := unix.Kill(-pid, unix.SIGKILL)
	if err == nil {
		return nil
	}
	if errors.Is(err, unix.ESRCH) {
		// Group already gone; make sure the leader itself is not left behind
		if killErr := cmd.Process.Kill(); killErr != nil && !errors.Is(killErr, os.ErrProcessDone) {
			return killErr
		}
		return nil
	}
	if errors.Is(err, unix.EPERM) {
		return cmd.Process.Kill()
	}
	return err
}

// TerminationSignal returns the name of the signal that ended the process, if any
func TerminationSignal(state *os.ProcessState) (string, bool) {
	if state == nil {
		return "", false
	}
	status, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !status.Signaled() {
		return "", false
	}
	return unix.SignalName(status.Signal()), true
}
