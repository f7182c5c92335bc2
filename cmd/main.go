package main

import (
	"errors"
	"os"
	"time"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pomotray/internal/audio"
	"pomotray/internal/core/model"
	"pomotray/internal/core/session"
	"pomotray/internal/notify"
	"pomotray/internal/platform"
	"pomotray/internal/storage"
	"pomotray/internal/ui/preferences"
	"pomotray/internal/ui/tray"
	"pomotray/resources"
)

const appName = "Pomotray"

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Error().Err(err).Msg("another instance is already running")
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID("com.pomotray.app")
	fyneApp.SetIcon(resources.Icon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		log.Error().Msg("system tray unsupported on this platform")
		return
	}
	desktopApp.SetSystemTrayIcon(resources.Icon())

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("Pomotray is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	config, err := storage.LoadConfig("pomotray")
	if err != nil {
		log.Warn().Err(err).Msg("loading config failed, using defaults")
	}

	player := audio.NewPlayer()
	notifier := notify.New(fyneApp)
	sess := session.New(config, session.Config{TickInterval: time.Second}, notifier, player)

	watcher := platform.NewLockWatcher()
	if err := watcher.Watch(sess.HandleScreenLock, sess.HandleScreenUnlock); err != nil {
		if errors.Is(err, platform.ErrLockWatchUnsupported) {
			log.Info().Msg("screen lock detection unavailable, auto-pause disabled")
		} else {
			log.Warn().Err(err).Msg("screen lock watcher failed, auto-pause disabled")
		}
	}

	prefsWindow := preferences.New(fyneApp, sess.Config(), func(updated model.TimerConfig) {
		sess.Configure(updated)
	})

	var trayManager *tray.Manager
	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnToggleRun: func() {
			if sess.Snapshot().Running {
				sess.Pause()
			} else {
				sess.Start()
			}
		},
		OnReset: func() {
			sess.Reset()
		},
		OnPreferences: func() {
			prefsWindow.UpdateConfig(sess.Config())
			prefsWindow.Show()
		},
		OnSetAutostart: func(enabled bool) {
			if enabled {
				execPath, err := os.Executable()
				if err != nil {
					log.Warn().Err(err).Msg("resolve executable path")
					return
				}
				if err := platform.EnableAutostart(appName, execPath); err != nil {
					log.Warn().Err(err).Msg("enable autostart")
				}
			} else {
				if err := platform.DisableAutostart(appName); err != nil {
					log.Warn().Err(err).Msg("disable autostart")
				}
			}
			trayManager.SetAutostart(platform.AutostartEnabled(appName))
		},
		OnQuit: func() {
			watcher.Close()
			sess.Close()
			player.Close()
			fyneApp.Quit()
		},
	}, platform.AutostartEnabled(appName))

	snapshot := sess.Snapshot()
	trayManager.Update(snapshot.Phase, snapshot.Remaining, snapshot.Running,
		snapshot.CompletedIntervals, sess.Config().IntervalsUntilLongBreak)

	events := sess.Subscribe(8)
	go func() {
		for event := range events {
			trayManager.Update(event.Phase, event.Remaining, event.Running,
				event.CompletedIntervals, sess.Config().IntervalsUntilLongBreak)
		}
	}()

	fyneApp.Run()
}
