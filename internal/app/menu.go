package app

import (
	"runtime"

	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
)

const (
	menuShowLabel = "Show ChitChats"
	menuExitLabel = "Exit"
)

// Menu builds the application menu. It replaces a system tray: "Show"
// brings back a hidden window and "Exit" is the only way to really quit
// while hide-on-close is active.
func (a *App) Menu() *menu.Menu {
	appMenu := menu.NewMenu()

	// Clipboard shortcuts in the webview need the edit menu on macOS
	if runtime.GOOS == "darwin" {
		appMenu.Append(menu.EditMenu())
	}

	shell := appMenu.AddSubmenu("ChitChats")
	shell.AddText(menuShowLabel, keys.CmdOrCtrl("1"), func(_ *menu.CallbackData) {
		a.ShowWindow()
	})
	shell.AddSeparator()
	shell.AddText(menuExitLabel, keys.CmdOrCtrl("q"), func(_ *menu.CallbackData) {
		a.Quit()
	})

	return appMenu
}
