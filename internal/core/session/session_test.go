package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomotray/internal/core/model"
)

type fakeNotifier struct {
	mu            sync.Mutex
	notifications []string
}

func (fake *fakeNotifier) Notify(title, body string) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.notifications = append(fake.notifications, title+": "+body)
}

func (fake *fakeNotifier) count() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return len(fake.notifications)
}

type fakePlayer struct {
	mu      sync.Mutex
	cues    []Cue
	volumes []float64
}

func (fake *fakePlayer) Play(cue Cue) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.cues = append(fake.cues, cue)
}

func (fake *fakePlayer) SetVolume(volume float64) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.volumes = append(fake.volumes, volume)
}

func (fake *fakePlayer) played() []Cue {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return append([]Cue(nil), fake.cues...)
}

// newTestSession uses an effectively inert ticker so tests drive ticks by
// hand.
func newTestSession(config model.TimerConfig, notifier *fakeNotifier, player *fakePlayer) *Session {
	var n Notifier
	var p SoundPlayer
	if notifier != nil {
		n = notifier
	}
	if player != nil {
		p = player
	}
	return New(config, Config{TickInterval: time.Hour}, n, p)
}

func tickSeconds(sess *Session, n int) {
	for i := 0; i < n; i++ {
		sess.tick()
	}
}

func TestInitialState(t *testing.T) {
	sess := newTestSession(model.DefaultConfig(), nil, nil)
	snapshot := sess.Snapshot()

	assert.Equal(t, model.PhaseWork, snapshot.Phase)
	assert.Equal(t, 25*time.Minute, snapshot.Remaining)
	assert.False(t, snapshot.Running)
	assert.Zero(t, snapshot.CompletedIntervals)
}

func TestNewClampsConfig(t *testing.T) {
	config := model.TimerConfig{
		WorkDuration:            10 * time.Second,
		BreakDuration:           24 * time.Hour,
		LongBreakDuration:       time.Minute,
		IntervalsUntilLongBreak: 100,
		SoundVolume:             3,
	}
	player := &fakePlayer{}
	sess := newTestSession(config, nil, player)

	assert.Equal(t, model.MinWorkDuration, sess.Snapshot().Remaining)
	require.Len(t, player.volumes, 1)
	assert.Equal(t, 1.0, player.volumes[0])
}

func TestWorkPhaseCompletesAfterExactTickCount(t *testing.T) {
	notifier := &fakeNotifier{}
	player := &fakePlayer{}
	sess := newTestSession(model.DefaultConfig(), notifier, player)
	defer sess.Close()

	sess.Start()
	tickSeconds(sess, 1499)

	snapshot := sess.Snapshot()
	assert.Equal(t, model.PhaseWork, snapshot.Phase)
	assert.Equal(t, time.Second, snapshot.Remaining)
	assert.Zero(t, notifier.count())

	sess.tick()

	snapshot = sess.Snapshot()
	assert.Equal(t, model.PhaseBreak, snapshot.Phase)
	assert.Equal(t, 5*time.Minute, snapshot.Remaining)
	assert.True(t, snapshot.Running, "countdown continues into the new phase")
	assert.Equal(t, 1, snapshot.CompletedIntervals)

	require.Equal(t, 1, notifier.count(), "exactly one notification")
	require.Equal(t, []Cue{CueBreak}, player.played(), "exactly one break cue")
}

func TestBreakReturnsToWork(t *testing.T) {
	notifier := &fakeNotifier{}
	player := &fakePlayer{}
	sess := newTestSession(model.DefaultConfig(), notifier, player)
	defer sess.Close()

	sess.Start()
	tickSeconds(sess, 1500) // work -> break
	tickSeconds(sess, 300)  // break -> work

	snapshot := sess.Snapshot()
	assert.Equal(t, model.PhaseWork, snapshot.Phase)
	assert.Equal(t, 25*time.Minute, snapshot.Remaining)
	assert.Equal(t, 1, snapshot.CompletedIntervals)
	assert.Equal(t, []Cue{CueBreak, CueWork}, player.played())
}

func TestLongBreakCadence(t *testing.T) {
	config := model.DefaultConfig()
	config.WorkDuration = time.Minute
	config.BreakDuration = time.Minute
	config.IntervalsUntilLongBreak = 4

	player := &fakePlayer{}
	sess := newTestSession(config, nil, player)
	defer sess.Close()
	sess.Start()

	for transition := 1; transition <= 3; transition++ {
		tickSeconds(sess, 60)
		snapshot := sess.Snapshot()
		assert.Equal(t, model.PhaseBreak, snapshot.Phase, "transition %d goes to a short break", transition)
		assert.Equal(t, transition, snapshot.CompletedIntervals)
		tickSeconds(sess, 60)
	}

	tickSeconds(sess, 60)
	snapshot := sess.Snapshot()
	assert.Equal(t, model.PhaseLongBreak, snapshot.Phase, "transition 4 goes to the long break")
	assert.Zero(t, snapshot.CompletedIntervals, "interval counter resets")
	assert.Equal(t, config.LongBreakDuration, snapshot.Remaining)

	tickSeconds(sess, int(config.LongBreakDuration.Seconds()))
	snapshot = sess.Snapshot()
	assert.Equal(t, model.PhaseWork, snapshot.Phase)
	assert.Zero(t, snapshot.CompletedIntervals)
}

func TestStartIsIdempotent(t *testing.T) {
	sess := newTestSession(model.DefaultConfig(), nil, nil)
	defer sess.Close()

	sess.Start()
	before := sess.Snapshot()
	sess.Start()
	after := sess.Snapshot()

	assert.Equal(t, before, after)
	assert.True(t, after.Running)
}

func TestPauseIsIdempotent(t *testing.T) {
	sess := newTestSession(model.DefaultConfig(), nil, nil)
	defer sess.Close()

	sess.Pause()
	assert.False(t, sess.Snapshot().Running)

	sess.Start()
	sess.Pause()
	sess.Pause()
	assert.False(t, sess.Snapshot().Running)
}

func TestTickWhilePausedIsIgnored(t *testing.T) {
	sess := newTestSession(model.DefaultConfig(), nil, nil)
	defer sess.Close()

	sess.Start()
	tickSeconds(sess, 10)
	sess.Pause()
	remaining := sess.Snapshot().Remaining

	tickSeconds(sess, 120)
	assert.Equal(t, remaining, sess.Snapshot().Remaining, "stray ticks must not decrement a paused session")

	sess.Start()
	sess.tick()
	assert.Equal(t, remaining-time.Second, sess.Snapshot().Remaining)
}

func TestPauseStopsTickLoop(t *testing.T) {
	notifier := &fakeNotifier{}
	sess := New(model.DefaultConfig(), Config{TickInterval: 5 * time.Millisecond}, notifier, nil)
	defer sess.Close()

	sess.Start()
	require.Eventually(t, func() bool {
		return sess.Snapshot().Remaining < 25*time.Minute
	}, time.Second, time.Millisecond, "tick loop should be decrementing")

	sess.Pause()
	remaining := sess.Snapshot().Remaining
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, remaining, sess.Snapshot().Remaining, "no tick may land after Pause returns")
}

func TestResetAlwaysYieldsInitialState(t *testing.T) {
	notifier := &fakeNotifier{}
	player := &fakePlayer{}
	sess := newTestSession(model.DefaultConfig(), notifier, player)
	defer sess.Close()

	sess.Start()
	tickSeconds(sess, 1500+42) // into the first break

	sess.Reset()
	sess.Reset()

	snapshot := sess.Snapshot()
	assert.Equal(t, model.PhaseWork, snapshot.Phase)
	assert.Equal(t, 25*time.Minute, snapshot.Remaining)
	assert.False(t, snapshot.Running)
	assert.Zero(t, snapshot.CompletedIntervals)

	assert.Equal(t, 1, notifier.count(), "reset fires no notification")
	assert.Len(t, player.played(), 1, "reset plays no sound")
}

func TestTickWithZeroRemainingTransitionsInsteadOfGoingNegative(t *testing.T) {
	sess := newTestSession(model.DefaultConfig(), nil, nil)
	defer sess.Close()

	sess.Start()
	sess.mu.Lock()
	sess.remaining = 0
	sess.mu.Unlock()

	sess.tick()

	snapshot := sess.Snapshot()
	assert.Equal(t, model.PhaseBreak, snapshot.Phase)
	assert.Equal(t, 5*time.Minute, snapshot.Remaining)
}

func TestConfigureRebasesRemainingOnlyWhenIdle(t *testing.T) {
	sess := newTestSession(model.DefaultConfig(), nil, nil)
	defer sess.Close()

	// Idle in the work phase: a new work duration re-bases immediately.
	config := sess.Config()
	config.WorkDuration = 10 * time.Minute
	sess.Configure(config)
	assert.Equal(t, 10*time.Minute, sess.Snapshot().Remaining)

	// Running: the edit waits for the next work phase entry.
	sess.Start()
	tickSeconds(sess, 30)
	remaining := sess.Snapshot().Remaining
	config.WorkDuration = 20 * time.Minute
	sess.Configure(config)
	assert.Equal(t, remaining, sess.Snapshot().Remaining)

	tickSeconds(sess, int(remaining.Seconds())) // finish work
	tickSeconds(sess, 300)                      // finish break
	assert.Equal(t, 20*time.Minute, sess.Snapshot().Remaining, "new duration applies on next entry")
}

func TestConfigureNonActivePhaseDurationLeavesRemaining(t *testing.T) {
	sess := newTestSession(model.DefaultConfig(), nil, nil)
	defer sess.Close()

	config := sess.Config()
	config.BreakDuration = 10 * time.Minute
	sess.Configure(config)

	snapshot := sess.Snapshot()
	assert.Equal(t, model.PhaseWork, snapshot.Phase)
	assert.Equal(t, 25*time.Minute, snapshot.Remaining)
}

func TestConfigureUnchangedDurationKeepsMidPhaseRemaining(t *testing.T) {
	sess := newTestSession(model.DefaultConfig(), nil, nil)
	defer sess.Close()

	sess.Start()
	tickSeconds(sess, 90)
	sess.Pause()
	remaining := sess.Snapshot().Remaining

	config := sess.Config()
	config.SoundVolume = 0.5
	sess.Configure(config)

	assert.Equal(t, remaining, sess.Snapshot().Remaining, "mid-phase progress survives unrelated edits")
}

func TestConfigureForwardsVolume(t *testing.T) {
	player := &fakePlayer{}
	sess := newTestSession(model.DefaultConfig(), nil, player)
	defer sess.Close()

	config := sess.Config()
	config.SoundVolume = 0.25
	sess.Configure(config)

	config.SoundVolume = -4
	sess.Configure(config)

	require.Len(t, player.volumes, 3) // New + two Configure calls
	assert.Equal(t, 0.25, player.volumes[1])
	assert.Equal(t, 0.0, player.volumes[2], "volume clamps to range")
}

func TestNotificationBodyCarriesMinutes(t *testing.T) {
	notifier := &fakeNotifier{}
	sess := newTestSession(model.DefaultConfig(), notifier, nil)
	defer sess.Close()

	sess.Start()
	tickSeconds(sess, 1500)

	require.Equal(t, 1, notifier.count())
	assert.Equal(t, fmt.Sprintf("Break time: Step away for %d minutes.", 5), notifier.notifications[0])

	tickSeconds(sess, 300)
	require.Equal(t, 2, notifier.count())
	assert.Equal(t, fmt.Sprintf("Back to work: Focus for %d minutes.", 25), notifier.notifications[1])
}

func TestSubscribeObservesTransitions(t *testing.T) {
	sess := newTestSession(model.DefaultConfig(), nil, nil)
	events := sess.Subscribe(16)

	sess.Start()
	tickSeconds(sess, 3)
	sess.Pause()
	sess.Close()

	var stateChanges, progress int
	for event := range events {
		switch event.Type {
		case EventStateChange:
			stateChanges++
		case EventProgress:
			progress++
		}
	}
	assert.Equal(t, 2, stateChanges, "start and pause edges")
	assert.Equal(t, 3, progress)
}

func TestCloseDuringEmitDoesNotPanic(t *testing.T) {
	// Ticks and pauses racing Close must never send on a channel Close has
	// already closed.
	for i := 0; i < 200; i++ {
		sess := newTestSession(model.DefaultConfig(), nil, nil)
		sess.Subscribe(1)
		sess.Start()

		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				sess.tick()
			}
		}()
		go func() {
			defer wg.Done()
			sess.Pause()
		}()
		go func() {
			defer wg.Done()
			sess.Close()
		}()
		wg.Wait()
	}
}

func TestSubscribeAfterCloseReturnsClosedChannel(t *testing.T) {
	sess := newTestSession(model.DefaultConfig(), nil, nil)
	sess.Close()

	events := sess.Subscribe(4)
	_, open := <-events
	assert.False(t, open, "an observer of a closed session must not block forever")
}

func TestConfigureClampsCompletedIntervalsToNewThreshold(t *testing.T) {
	config := model.DefaultConfig()
	config.WorkDuration = time.Minute
	config.BreakDuration = time.Minute
	config.IntervalsUntilLongBreak = 8

	sess := newTestSession(config, nil, nil)
	defer sess.Close()
	sess.Start()

	for i := 0; i < 3; i++ {
		tickSeconds(sess, 60) // work -> break
		tickSeconds(sess, 60) // break -> work
	}
	require.Equal(t, 3, sess.Snapshot().CompletedIntervals)

	config.IntervalsUntilLongBreak = 2
	sess.Configure(config)

	snapshot := sess.Snapshot()
	assert.Equal(t, 1, snapshot.CompletedIntervals, "counter stays inside [0, threshold)")

	tickSeconds(sess, 60)
	snapshot = sess.Snapshot()
	assert.Equal(t, model.PhaseLongBreak, snapshot.Phase, "next work completion takes the long break")
	assert.Zero(t, snapshot.CompletedIntervals)
}

func TestCloseIsTerminal(t *testing.T) {
	sess := newTestSession(model.DefaultConfig(), nil, nil)

	sess.Start()
	sess.Close()
	sess.Close()

	sess.Start()
	assert.False(t, sess.Snapshot().Running, "a closed session cannot restart")
}
