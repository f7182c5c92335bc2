// Package audio plays the phase-transition sound cues through the system
// speaker. Playback is fire-and-forget: every failure downgrades to a logged
// warning and a silent no-op, never an error for the caller.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"github.com/rs/zerolog/log"

	"pomotray/internal/core/session"
	"pomotray/resources"
)

var cueFiles = map[session.Cue]string{
	session.CueWork:  "work.wav",
	session.CueBreak: "break.wav",
}

// Player decodes the embedded cues once and streams them on demand.
type Player struct {
	mu      sync.Mutex
	buffers map[session.Cue]*beep.Buffer
	volume  float64
	enabled bool
}

// NewPlayer initialises the speaker and pre-buffers both cues. If the
// speaker cannot be opened or no cue decodes, audio is disabled and Play
// becomes a no-op.
func NewPlayer() *Player {
	player := &Player{
		buffers: make(map[session.Cue]*beep.Buffer),
		volume:  1.0,
	}

	var format beep.Format
	for cue, fileName := range cueFiles {
		data, err := resources.Sound(fileName)
		if err != nil {
			log.Warn().Err(err).Str("file", fileName).Msg("sound asset missing")
			continue
		}
		streamer, decoded, err := wav.Decode(data)
		if err != nil {
			log.Warn().Err(err).Str("file", fileName).Msg("sound asset undecodable")
			continue
		}
		buffer := beep.NewBuffer(decoded)
		buffer.Append(streamer)
		streamer.Close()
		player.buffers[cue] = buffer
		format = decoded
	}

	if len(player.buffers) == 0 {
		log.Warn().Msg("audio disabled: no sound cues loaded")
		return player
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		log.Warn().Err(err).Msg("audio disabled: speaker init failed")
		return player
	}

	player.enabled = true
	return player
}

// SetVolume sets the playback volume in [0, 1]. Zero is silent.
func (player *Player) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	player.mu.Lock()
	player.volume = volume
	player.mu.Unlock()
}

// Play streams the cue without blocking the caller.
func (player *Player) Play(cue session.Cue) {
	player.mu.Lock()
	volume := player.volume
	enabled := player.enabled
	buffer := player.buffers[cue]
	player.mu.Unlock()

	if !enabled || buffer == nil {
		return
	}

	speaker.Play(&effects.Volume{
		Streamer: buffer.Streamer(0, buffer.Len()),
		Base:     2,
		Volume:   volumeGain(volume),
		Silent:   volume == 0,
	})
}

// Close releases the speaker.
func (player *Player) Close() {
	player.mu.Lock()
	enabled := player.enabled
	player.enabled = false
	player.mu.Unlock()

	if enabled {
		speaker.Close()
	}
}

// volumeGain maps a linear volume in (0, 1] onto the base-2 exponent the
// effects.Volume streamer expects, with 1.0 mapping to unity gain.
func volumeGain(volume float64) float64 {
	if volume <= 0 {
		return 0
	}
	return math.Log2(volume)
}
