package model

import "time"

// Phase identifies the active Pomodoro interval kind.
type Phase string

const (
	PhaseWork      Phase = "work"
	PhaseBreak     Phase = "break"
	PhaseLongBreak Phase = "long_break"
)

// Valid ranges for user-tunable values. Out-of-range input is clamped to the
// nearest bound rather than rejected; the settings UI constrains input first
// and the clamp is the second line of defense.
const (
	MinWorkDuration = 1 * time.Minute
	MaxWorkDuration = 120 * time.Minute

	MinBreakDuration = 1 * time.Minute
	MaxBreakDuration = 60 * time.Minute

	MinLongBreakDuration = 15 * time.Minute
	MaxLongBreakDuration = 45 * time.Minute

	MinIntervals = 2
	MaxIntervals = 8
)

// TimerConfig contains the user-tunable settings for the Pomodoro session.
type TimerConfig struct {
	WorkDuration            time.Duration
	BreakDuration           time.Duration
	LongBreakDuration       time.Duration
	IntervalsUntilLongBreak int
	SoundVolume             float64
}

// DefaultConfig returns the classic 25/5/15 Pomodoro schedule.
func DefaultConfig() TimerConfig {
	return TimerConfig{
		WorkDuration:            25 * time.Minute,
		BreakDuration:           5 * time.Minute,
		LongBreakDuration:       15 * time.Minute,
		IntervalsUntilLongBreak: 4,
		SoundVolume:             1.0,
	}
}

// Clamp snaps every field to its valid range.
func (config TimerConfig) Clamp() TimerConfig {
	config.WorkDuration = clampDuration(config.WorkDuration, MinWorkDuration, MaxWorkDuration)
	config.BreakDuration = clampDuration(config.BreakDuration, MinBreakDuration, MaxBreakDuration)
	config.LongBreakDuration = clampDuration(config.LongBreakDuration, MinLongBreakDuration, MaxLongBreakDuration)

	if config.IntervalsUntilLongBreak < MinIntervals {
		config.IntervalsUntilLongBreak = MinIntervals
	}
	if config.IntervalsUntilLongBreak > MaxIntervals {
		config.IntervalsUntilLongBreak = MaxIntervals
	}

	if config.SoundVolume < 0 {
		config.SoundVolume = 0
	}
	if config.SoundVolume > 1 {
		config.SoundVolume = 1
	}

	return config
}

// PhaseDuration returns the configured duration for the given phase.
func (config TimerConfig) PhaseDuration(phase Phase) time.Duration {
	switch phase {
	case PhaseBreak:
		return config.BreakDuration
	case PhaseLongBreak:
		return config.LongBreakDuration
	default:
		return config.WorkDuration
	}
}

func clampDuration(value, min, max time.Duration) time.Duration {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
