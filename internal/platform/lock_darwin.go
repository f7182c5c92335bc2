//go:build darwin

package platform

type lockWatcher struct{}

func newLockWatcher() LockWatcher {
	return &lockWatcher{}
}

func (watcher *lockWatcher) Watch(onLock, onUnlock func()) error {
	return ErrLockWatchUnsupported
}

func (watcher *lockWatcher) Close() {}
