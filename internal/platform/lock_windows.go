//go:build windows

package platform

import (
	"syscall"
	"time"
)

const desktopSwitchDesktop = 0x0100

// lockWatcher polls the input desktop. While the workstation is locked the
// secure desktop holds input, so OpenInputDesktop/SwitchDesktop fail.
type lockWatcher struct {
	stop chan struct{}
	edge lockEdge
}

func newLockWatcher() LockWatcher {
	return &lockWatcher{stop: make(chan struct{})}
}

func (watcher *lockWatcher) Watch(onLock, onUnlock func()) error {
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-watcher.stop:
				return
			case <-ticker.C:
				watcher.edge.report(isWorkstationLocked(), onLock, onUnlock)
			}
		}
	}()
	return nil
}

func (watcher *lockWatcher) Close() {
	select {
	case <-watcher.stop:
	default:
		close(watcher.stop)
	}
}

func isWorkstationLocked() bool {
	user32 := syscall.NewLazyDLL("user32.dll")
	openInputDesktop := user32.NewProc("OpenInputDesktop")
	switchDesktop := user32.NewProc("SwitchDesktop")
	closeDesktop := user32.NewProc("CloseDesktop")

	handle, _, _ := openInputDesktop.Call(0, 0, desktopSwitchDesktop)
	if handle == 0 {
		return true
	}
	defer closeDesktop.Call(handle)

	switched, _, _ := switchDesktop.Call(handle)
	return switched == 0
}
