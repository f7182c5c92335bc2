package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"pomotray/internal/core/model"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggleRun    func()
	OnReset        func()
	OnPreferences  func()
	OnSetAutostart func(enabled bool)
	OnQuit         func()
}

// Manager handles system tray state.
type Manager struct {
	app           desktop.App
	statusItem    *fyne.MenuItem
	runItem       *fyne.MenuItem
	resetItem     *fyne.MenuItem
	autostartItem *fyne.MenuItem
	callbacks     Callbacks
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks, autostartEnabled bool) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Work 25:00", nil)
	manager.statusItem.Disabled = true

	manager.runItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnToggleRun != nil {
			manager.callbacks.OnToggleRun()
		}
	})

	manager.resetItem = fyne.NewMenuItem("Reset", func() {
		if manager.callbacks.OnReset != nil {
			manager.callbacks.OnReset()
		}
	})

	manager.autostartItem = fyne.NewMenuItem("Start at login", func() {
		if manager.callbacks.OnSetAutostart != nil {
			manager.callbacks.OnSetAutostart(!manager.autostartItem.Checked)
		}
	})
	manager.autostartItem.Checked = autostartEnabled

	manager.refreshMenu()
	return manager
}

// Update re-renders the tray from the session's observable state.
func (manager *Manager) Update(phase model.Phase, remaining time.Duration, running bool, completed, intervals int) {
	manager.statusItem.Label = statusLine(phase, remaining, completed, intervals)
	if running {
		manager.runItem.Label = "Pause"
	} else {
		manager.runItem.Label = "Start"
	}
	manager.refreshMenu()
}

// SetAutostart updates the login-entry checkmark.
func (manager *Manager) SetAutostart(enabled bool) {
	manager.autostartItem.Checked = enabled
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Pomotray",
		manager.statusItem,
		manager.runItem,
		manager.resetItem,
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		manager.autostartItem,
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}

func statusLine(phase model.Phase, remaining time.Duration, completed, intervals int) string {
	return fmt.Sprintf("%s %s · %d/%d", phaseLabel(phase), formatRemaining(remaining), completed, intervals)
}

func phaseLabel(phase model.Phase) string {
	switch phase {
	case model.PhaseBreak:
		return "Break"
	case model.PhaseLongBreak:
		return "Long break"
	default:
		return "Work"
	}
}

func formatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
