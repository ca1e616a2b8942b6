package platform

import (
	"slices"

	"github.com/emersion/go-autostart"
)

// MinimizedFlag is the start argument registered for login launches
const MinimizedFlag = "--minimized"

// AutostartEntry is a login item registered with the operating system
type AutostartEntry interface {
	IsEnabled() bool
	Enable() error
	Disable() error
}

// NewAutostartEntry returns the login item that launches executable with
// MinimizedFlag. macOS gets a LaunchAgent, Linux an XDG autostart file and
// Windows a Startup folder shortcut.
func NewAutostartEntry(name, displayName, executable string) AutostartEntry {
	return &autostart.App{
		Name:        name,
		DisplayName: displayName,
		Exec:        []string{executable, MinimizedFlag},
	}
}

// HasMinimizedFlag reports whether the process arguments request a minimised launch
func HasMinimizedFlag(args []string) bool {
	return slices.Contains(args, MinimizedFlag)
}
