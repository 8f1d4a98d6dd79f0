package main

import (
	"context"
	"log"
	"os"
	"time"

	"pomodoro/internal/core/clock"
	"pomodoro/internal/core/timekeeper"
	"pomodoro/internal/platform"
	"pomodoro/internal/storage"
	"pomodoro/internal/ui/apptheme"
	"pomodoro/internal/ui/popup"
	"pomodoro/internal/ui/preferences"
	"pomodoro/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const appName = "Pomodoro"

const (
	completionTitle = "Timer Complete!"
	completionBody  = "Your Pomodoro session has finished. Time for a break!"
)

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID("com.pomodoro.app")
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		log.Printf("system tray unsupported on this platform")
		return
	}

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		log.Printf("load settings: %v", err)
	}
	fyneApp.Settings().SetTheme(apptheme.For(settings.Theme))

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("Pomodoro is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	statePath, err := storage.DefaultStatePath(appName)
	if err != nil {
		log.Printf("resolve state path: %v", err)
		return
	}
	store := storage.NewStateStore(statePath)

	keeper := timekeeper.New(store, clock.System(), timekeeper.Config{TickInterval: time.Second})
	defer keeper.Close()

	autostart := platform.NewAutostart()

	var popupWindow *popup.Window
	var prefsWindow *preferences.Window

	applySettings := func(updated preferences.Settings) {
		previous := settings
		settings = updated

		if err := storage.SaveSettings(appName, updated); err != nil {
			log.Printf("save settings: %v", err)
		}
		if updated.Theme != previous.Theme {
			fyneApp.Settings().SetTheme(apptheme.For(updated.Theme))
		}
		if updated.LaunchAtLogin != previous.LaunchAtLogin {
			if updated.LaunchAtLogin {
				if execPath, err := os.Executable(); err != nil {
					log.Printf("resolve executable: %v", err)
				} else if err := autostart.Enable(appName, execPath); err != nil {
					log.Printf("enable autostart: %v", err)
				}
			} else if err := autostart.Disable(appName); err != nil {
				log.Printf("disable autostart: %v", err)
			}
		}

		if prefsWindow != nil {
			prefsWindow.UpdateSettings(updated)
		}
		if popupWindow != nil {
			popupWindow.SetAutoOpen(updated.AutoOpenPopup)
		}
	}

	popupWindow = popup.New(fyneApp, keeper, popup.Capabilities{
		HasThemeToggle:          true,
		HasAutoOpenToggle:       true,
		HasDebouncedCustomInput: true,
	}, popup.Callbacks{
		OnToggleTheme: func() {
			updated := settings
			if updated.Theme == preferences.ThemeDark {
				updated.Theme = preferences.ThemeLight
			} else {
				updated.Theme = preferences.ThemeDark
			}
			applySettings(updated)
		},
		OnAutoOpenChanged: func(checked bool) {
			if checked == settings.AutoOpenPopup {
				return
			}
			updated := settings
			updated.AutoOpenPopup = checked
			applySettings(updated)
		},
	})
	popupWindow.SetAutoOpen(settings.AutoOpenPopup)

	prefsWindow = preferences.New(fyneApp, settings, applySettings)

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnOpen: func() {
			popupWindow.Show()
		},
		OnToggleRun: func() {
			state := keeper.State()
			if state.IsRunning {
				if err := keeper.StopRun(); err != nil {
					log.Printf("stop run: %v", err)
				}
				return
			}
			startValue := state.TimeRemaining
			if startValue == 0 {
				startValue = state.Duration * 60
			}
			if err := keeper.StartRun(startValue); err != nil {
				log.Printf("start run: %v", err)
			}
		},
		OnReset: func() {
			if err := keeper.ResetRun(); err != nil {
				log.Printf("reset run: %v", err)
			}
		},
		OnPreferences: func() {
			prefsWindow.Show()
		},
		OnQuit: func() {
			keeper.Close()
			fyneApp.Quit()
		},
	})

	events := keeper.Subscribe(16)
	go func() {
		for event := range events {
			event := event
			switch event.Type {
			case timekeeper.EventStateChange, timekeeper.EventProgress:
				fyne.Do(func() {
					badge := ""
					if event.Running {
						badge = tray.FormatBadge(event.Remaining)
					}
					trayManager.SetBadge(badge)
					trayManager.SetRunning(event.Running)
				})
				popupWindow.SetState(keeper.State())
			case timekeeper.EventCompleted:
				popupWindow.SetState(keeper.State())
				fyneApp.SendNotification(fyne.NewNotification(completionTitle, completionBody))
				fyne.Do(func() {
					trayManager.SetBadge("")
					trayManager.SetRunning(false)
					// Surfacing the popup is best-effort; a platform that
					// refuses simply leaves the notification as the signal.
					if settings.AutoOpenPopup {
						popupWindow.Show()
					}
				})
			}
		}
	}()

	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	if changes, err := store.Watch(watchCtx); err != nil {
		log.Printf("watch state store: %v", err)
	} else {
		go func() {
			for range changes {
				// While a run is active the local timekeeper owns the
				// record; external edits only matter when we are idle.
				if keeper.State().IsRunning {
					continue
				}
				loaded, err := store.LoadState()
				if err != nil {
					log.Printf("reload timer state: %v", err)
					continue
				}
				popupWindow.SetState(loaded.Normalize())
			}
		}()
	}

	if err := keeper.Restore(); err != nil {
		log.Printf("restore timer state: %v", err)
	}

	popupWindow.Show()
	fyneApp.Run()
}
