package session

// Screen-lock suspension. The OS integration delivers at most one logical
// lock or unlock callback per physical transition; these handlers pause a
// running session across the locked span and resume it on unlock, while a
// deliberate user pause survives the lock/unlock cycle untouched.
//
// wasRunningBeforeLock is set and cleared only here, never by Pause or Start.

// HandleScreenLock pauses the session if it is running and remembers that
// the lock did so.
func (sess *Session) HandleScreenLock() {
	sess.mu.Lock()
	if !sess.running {
		sess.mu.Unlock()
		return
	}
	sess.wasRunningBeforeLock = true
	sess.pauseLocked()
	event := sess.stateEventLocked()
	sess.mu.Unlock()

	sess.emit(event)
}

// HandleScreenUnlock resumes the session only if the preceding lock paused
// it.
func (sess *Session) HandleScreenUnlock() {
	sess.mu.Lock()
	if !sess.wasRunningBeforeLock {
		sess.mu.Unlock()
		return
	}
	sess.wasRunningBeforeLock = false
	sess.mu.Unlock()

	sess.Start()
}
