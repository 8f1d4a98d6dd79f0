package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// FormatBadge derives the badge text from the remaining seconds: whole
// minutes once at least a minute is left, raw seconds below that, and an
// empty string (badge cleared) at zero.
func FormatBadge(remainingSeconds int) string {
	if remainingSeconds <= 0 {
		return ""
	}
	if remainingSeconds >= 60 {
		return fmt.Sprintf("%dm", remainingSeconds/60)
	}
	return fmt.Sprintf("%ds", remainingSeconds)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnOpen        func()
	OnToggleRun   func()
	OnReset       func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state. The status item carries the badge
// text while a run is active.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	resetItem  *fyne.MenuItem
	callbacks  Callbacks
	running    bool
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Timer: idle", nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnToggleRun != nil {
			manager.callbacks.OnToggleRun()
		}
	})

	manager.resetItem = fyne.NewMenuItem("Reset", func() {
		if manager.callbacks.OnReset != nil {
			manager.callbacks.OnReset()
		}
	})

	app.SetSystemTrayMenu(manager.buildMenu())
	return manager
}

// SetBadge updates the badge text; an empty badge shows the timer as idle.
func (manager *Manager) SetBadge(badge string) {
	if badge == "" {
		manager.statusItem.Label = "Timer: idle"
	} else {
		manager.statusItem.Label = fmt.Sprintf("Timer: %s", badge)
	}
	manager.refreshMenu()
}

// SetRunning flips the start/stop entry.
func (manager *Manager) SetRunning(running bool) {
	manager.running = running
	if running {
		manager.toggleItem.Label = "Stop"
	} else {
		manager.toggleItem.Label = "Start"
	}
	manager.refreshMenu()
}

func (manager *Manager) buildMenu() *fyne.Menu {
	return fyne.NewMenu("Pomodoro",
		manager.statusItem,
		fyne.NewMenuItem("Open timer", func() {
			if manager.callbacks.OnOpen != nil {
				manager.callbacks.OnOpen()
			}
		}),
		manager.toggleItem,
		manager.resetItem,
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	)
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.buildMenu())
	}
}
