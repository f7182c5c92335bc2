//go:build linux

package platform

import (
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"
)

// lockWatcher listens for ActiveChanged signals from the session screensaver
// service. Both the freedesktop and the GNOME interfaces are matched; which
// one fires depends on the desktop environment.
type lockWatcher struct {
	conn    *dbus.Conn
	signals chan *dbus.Signal
	edge    lockEdge
}

func newLockWatcher() LockWatcher {
	return &lockWatcher{}
}

func (watcher *lockWatcher) Watch(onLock, onUnlock func()) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}

	for _, iface := range []string{"org.freedesktop.ScreenSaver", "org.gnome.ScreenSaver"} {
		if err := conn.AddMatchSignal(
			dbus.WithMatchInterface(iface),
			dbus.WithMatchMember("ActiveChanged"),
		); err != nil {
			conn.Close()
			return fmt.Errorf("add match for %s: %w", iface, err)
		}
	}

	watcher.conn = conn
	watcher.signals = make(chan *dbus.Signal, 16)
	conn.Signal(watcher.signals)

	go watcher.consume(onLock, onUnlock)
	return nil
}

func (watcher *lockWatcher) consume(onLock, onUnlock func()) {
	for signal := range watcher.signals {
		if !strings.HasSuffix(signal.Name, ".ActiveChanged") || len(signal.Body) != 1 {
			continue
		}
		active, ok := signal.Body[0].(bool)
		if !ok {
			continue
		}
		log.Debug().Bool("locked", active).Msg("screensaver signal")
		watcher.edge.report(active, onLock, onUnlock)
	}
}

func (watcher *lockWatcher) Close() {
	if watcher.conn != nil {
		watcher.conn.Close()
		watcher.conn = nil
	}
}
