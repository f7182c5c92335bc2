package platform

import "errors"

// ErrLockWatchUnsupported indicates screen-lock detection is not available
// on this system.
var ErrLockWatchUnsupported = errors.New("screen lock detection unsupported")

// LockWatcher reports screen lock and unlock transitions. Callbacks are
// delivered at most once per physical transition.
type LockWatcher interface {
	Watch(onLock, onUnlock func()) error
	Close()
}

// NewLockWatcher returns a platform-specific lock watcher.
func NewLockWatcher() LockWatcher {
	return newLockWatcher()
}

// lockEdge deduplicates repeated lock-state reports into clean transitions.
// The OS side may repeat the current state; the session must only ever see
// one callback per real change.
type lockEdge struct {
	locked bool
}

func (edge *lockEdge) report(locked bool, onLock, onUnlock func()) {
	if locked == edge.locked {
		return
	}
	edge.locked = locked
	if locked {
		if onLock != nil {
			onLock()
		}
	} else if onUnlock != nil {
		onUnlock()
	}
}
