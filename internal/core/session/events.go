package session

import (
	"time"

	"pomotray/internal/core/model"
)

// Cue selects which sound the player fires on a phase transition. Break and
// LongBreak share the break cue.
type Cue string

const (
	CueWork  Cue = "work"
	CueBreak Cue = "break"
)

// Notifier delivers a desktop notification. Failures must be handled by the
// implementation; the session never sees them.
type Notifier interface {
	Notify(title, body string)
}

// SoundPlayer plays a short cue and tracks the configured volume. Play must
// not block.
type SoundPlayer interface {
	Play(cue Cue)
	SetVolume(volume float64)
}

// EventType defines the type of session event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
)

// Event represents a session update for observers.
type Event struct {
	Type               EventType
	Phase              model.Phase
	Running            bool
	Remaining          time.Duration
	CompletedIntervals int
	At                 time.Time
}

// Snapshot is a consistent copy of the observable session state.
type Snapshot struct {
	Phase              model.Phase
	Remaining          time.Duration
	Running            bool
	CompletedIntervals int
}
