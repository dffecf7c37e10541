// Package audio plays short synthesized chimes for game events. Sounds
// are generated sine tones mixed into a single speaker stream; there are
// no audio assets.
package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/mintpuff/cinna-arcade/internal/engine/events"
)

const sampleRate = beep.SampleRate(48000)

// tone pairs a frequency with a duration.
type tone struct {
	freq float64
	dur  time.Duration
}

// Event-to-chime mapping. Higher pitches for good news.
var eventTones = map[string]tone{
	events.Flap:       {freq: 660, dur: 40 * time.Millisecond},
	events.Score:      {freq: 880, dur: 60 * time.Millisecond},
	events.Milestone:  {freq: 1040, dur: 120 * time.Millisecond},
	events.SpeedUp:    {freq: 980, dur: 90 * time.Millisecond},
	events.EnemySpawn: {freq: 440, dur: 150 * time.Millisecond},
	events.HighScore:  {freq: 1320, dur: 200 * time.Millisecond},
	events.Collision:  {freq: 220, dur: 180 * time.Millisecond},
}

// Notifier subscribes to game events and plays a chime per event. When
// the audio device cannot be opened the notifier stays registered but
// silent, so a headless host never breaks a game.
type Notifier struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	enabled bool
	logger  *log.Logger
	unsubs  []func()
}

// NewNotifier opens the speaker and wires the notifier onto the bus.
func NewNotifier(bus *events.Bus, logger *log.Logger) *Notifier {
	n := &Notifier{
		mixer:  &beep.Mixer{},
		logger: logger,
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		if logger != nil {
			logger.Warn("audio unavailable, playing silently", "err", err)
		}
	} else {
		speaker.Play(n.mixer)
		n.enabled = true
	}

	for event, t := range eventTones {
		t := t
		n.unsubs = append(n.unsubs, bus.Subscribe(event, func(any) {
			n.play(t)
		}))
	}
	return n
}

// play mixes one chime into the output stream.
func (n *Notifier) play(t tone) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.enabled {
		return
	}

	sine, err := generators.SineTone(sampleRate, t.freq)
	if err != nil {
		return
	}

	speaker.Lock()
	n.mixer.Add(beep.Take(sampleRate.N(t.dur), sine))
	speaker.Unlock()
}

// Enabled reports whether the audio device opened successfully.
func (n *Notifier) Enabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enabled
}

// Close detaches from the bus and silences pending chimes.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, u := range n.unsubs {
		u()
	}
	n.unsubs = nil

	if n.enabled {
		speaker.Lock()
		n.mixer.Clear()
		speaker.Unlock()
		n.enabled = false
	}
}
