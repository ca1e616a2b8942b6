package platform

import (
	"os/exec"
)

// Window defines the host window operations the shell needs
type Window interface {
	IsMinimised() (bool, error)
	IsVisible() (bool, error)
	IsMaximised() (bool, error)
	Position() (x, y int32, err error)
	Size() (width, height uint32, err error)
	SetPosition(x, y int32) error
	SetSize(width, height uint32) error
	Maximise() error
	Minimise() error
	Show() error
	Hide() error
	Focus() error
}

// ProcessController prepares child processes and tears them down together
// with their descendants
type ProcessController interface {
	Configure(cmd *exec.Cmd)
	KillTree(cmd *exec.Cmd) error
}

// NewProcessController returns the controller for the current platform
func NewProcessController() ProcessController {
	return processController{}
}
