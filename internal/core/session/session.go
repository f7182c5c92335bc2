package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"pomotray/internal/core/model"
)

// Config contains runtime options for the Session.
type Config struct {
	TickInterval time.Duration
}

// Session is the Pomodoro state machine. It owns the phase, the remaining
// time and the interval counter, advances once per tick while running, and
// dispatches a notification and a sound cue at every phase transition.
//
// All mutation goes through the session's own methods under a single mutex;
// the tick loop, the tray callbacks and the screen-lock handlers may run on
// different goroutines.
type Session struct {
	mu                   sync.Mutex
	config               model.TimerConfig
	options              Config
	phase                model.Phase
	remaining            time.Duration
	running              bool
	completed            int
	wasRunningBeforeLock bool
	stop                 chan struct{}
	notifier             Notifier
	player               SoundPlayer
	events               []chan Event
	closed               bool
}

// New creates a Session in the initial idle work state.
func New(config model.TimerConfig, options Config, notifier Notifier, player SoundPlayer) *Session {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	config = config.Clamp()

	sess := &Session{
		config:    config,
		options:   options,
		phase:     model.PhaseWork,
		remaining: config.WorkDuration,
		notifier:  notifier,
		player:    player,
	}
	if player != nil {
		player.SetVolume(config.SoundVolume)
	}
	return sess
}

// Subscribe registers a new observer channel. Subscribing to a closed
// session yields an already-closed channel.
func (sess *Session) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		close(ch)
		return ch
	}
	sess.events = append(sess.events, ch)
	sess.mu.Unlock()
	return ch
}

// Start arms the tick loop. Calling Start while already running is a no-op;
// at most one loop is ever armed.
func (sess *Session) Start() {
	sess.mu.Lock()
	if sess.closed || sess.running {
		sess.mu.Unlock()
		return
	}
	sess.running = true
	stop := make(chan struct{})
	sess.stop = stop
	interval := sess.options.TickInterval
	event := sess.stateEventLocked()
	sess.mu.Unlock()

	go sess.run(stop, interval)
	sess.emit(event)
}

// Pause freezes the countdown and stops the tick loop. Idempotent.
func (sess *Session) Pause() {
	sess.mu.Lock()
	if !sess.pauseLocked() {
		sess.mu.Unlock()
		return
	}
	event := sess.stateEventLocked()
	sess.mu.Unlock()

	sess.emit(event)
}

// Reset pauses and returns to the initial work state. It fires no
// notification or sound.
func (sess *Session) Reset() {
	sess.mu.Lock()
	sess.pauseLocked()
	sess.phase = model.PhaseWork
	sess.completed = 0
	sess.remaining = sess.config.WorkDuration
	event := sess.stateEventLocked()
	sess.mu.Unlock()

	sess.emit(event)
}

// Configure replaces the timer configuration, clamping out-of-range values.
// Editing the current phase's duration while idle re-bases the remaining
// time; any other change takes effect at the next entry into its phase.
func (sess *Session) Configure(config model.TimerConfig) {
	config = config.Clamp()

	sess.mu.Lock()
	previous := sess.config.PhaseDuration(sess.phase)
	sess.config = config
	if !sess.running && config.PhaseDuration(sess.phase) != previous {
		sess.remaining = config.PhaseDuration(sess.phase)
	}
	// A lowered threshold must not leave the counter outside
	// [0, IntervalsUntilLongBreak); the next work completion then takes the
	// long break.
	if sess.completed >= config.IntervalsUntilLongBreak {
		sess.completed = config.IntervalsUntilLongBreak - 1
	}
	player := sess.player
	event := sess.stateEventLocked()
	sess.mu.Unlock()

	if player != nil {
		player.SetVolume(config.SoundVolume)
	}
	sess.emit(event)
}

// Snapshot returns a consistent copy of the observable state.
func (sess *Session) Snapshot() Snapshot {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return Snapshot{
		Phase:              sess.phase,
		Remaining:          sess.remaining,
		Running:            sess.running,
		CompletedIntervals: sess.completed,
	}
}

// Config returns the current timer configuration.
func (sess *Session) Config() model.TimerConfig {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.config
}

// Close pauses the session and closes all observer channels. The session
// cannot be restarted afterwards.
func (sess *Session) Close() {
	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return
	}
	sess.closed = true
	sess.pauseLocked()
	events := sess.events
	sess.events = nil
	sess.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (sess *Session) run(stop chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			sess.tick()
		}
	}
}

// tick consumes one elapsed second. A tick that lands on zero commits the
// phase transition in the same cycle, so a phase of D seconds completes after
// exactly D ticks. A stray tick delivered while paused is ignored.
func (sess *Session) tick() {
	sess.mu.Lock()
	if !sess.running {
		sess.mu.Unlock()
		return
	}

	if sess.remaining > 0 {
		sess.remaining -= time.Second
	}
	if sess.remaining > 0 {
		event := sess.progressEventLocked()
		sess.mu.Unlock()
		sess.emit(event)
		return
	}

	cue, title, body := sess.advancePhaseLocked()
	event := sess.stateEventLocked()
	sess.mu.Unlock()

	sess.dispatch(cue, title, body)
	sess.emit(event)
}

// advancePhaseLocked commits the next phase and returns the transition's
// dispatch payload. The session stays running; the countdown continues into
// the new phase on the next tick.
func (sess *Session) advancePhaseLocked() (Cue, string, string) {
	if sess.phase == model.PhaseWork {
		sess.completed++
		if sess.completed >= sess.config.IntervalsUntilLongBreak {
			sess.phase = model.PhaseLongBreak
			sess.completed = 0
		} else {
			sess.phase = model.PhaseBreak
		}
		sess.remaining = sess.config.PhaseDuration(sess.phase)
		minutes := int(sess.remaining.Minutes())
		return CueBreak, "Break time", fmt.Sprintf("Step away for %d minutes.", minutes)
	}

	sess.phase = model.PhaseWork
	sess.remaining = sess.config.WorkDuration
	minutes := int(sess.remaining.Minutes())
	return CueWork, "Back to work", fmt.Sprintf("Focus for %d minutes.", minutes)
}

// pauseLocked stops the loop and reports whether anything changed. Any tick
// already in flight re-checks running under the mutex before mutating.
func (sess *Session) pauseLocked() bool {
	if !sess.running {
		return false
	}
	sess.running = false
	if sess.stop != nil {
		close(sess.stop)
		sess.stop = nil
	}
	return true
}

// dispatch fires the transition side effects. Both collaborators are
// fire-and-forget; the state is already committed and their failures are
// theirs to log.
func (sess *Session) dispatch(cue Cue, title, body string) {
	log.Debug().Str("cue", string(cue)).Str("title", title).Msg("phase transition")
	if sess.notifier != nil {
		sess.notifier.Notify(title, body)
	}
	if sess.player != nil {
		sess.player.Play(cue)
	}
}

func (sess *Session) stateEventLocked() Event {
	return Event{
		Type:               EventStateChange,
		Phase:              sess.phase,
		Running:            sess.running,
		Remaining:          sess.remaining,
		CompletedIntervals: sess.completed,
		At:                 time.Now(),
	}
}

func (sess *Session) progressEventLocked() Event {
	event := sess.stateEventLocked()
	event.Type = EventProgress
	return event
}

// emit delivers the event to every observer without blocking. The sends stay
// under the mutex so they cannot interleave with Close nulling the slice and
// closing the channels.
func (sess *Session) emit(event Event) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	for _, ch := range sess.events {
		select {
		case ch <- event:
		default:
		}
	}
}
