// Package loop provides the frame scheduler that drives all simulation.
// The scheduler is externally clocked: the host (the Bubble Tea platform
// layer, or a test) calls Tick with the current time, and the scheduler
// normalizes it into frame info and dispatches update and render
// callbacks. Keeping the clock outside the scheduler keeps the whole core
// single-threaded and deterministic.
package loop

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mintpuff/cinna-arcade/internal/engine/events"
)

// Events published on the bus around lifecycle changes.
const (
	EventStarted = "loop:started"
	EventStopped = "loop:stopped"
)

// Frame is the per-frame timing info passed to callbacks.
type Frame struct {
	DeltaMs         float64 // clamped frame duration
	DeltaNormalized float64 // DeltaMs / ReferenceFrameMs
	FrameCount      uint64
	ElapsedMs       float64 // sum of clamped deltas since Start
}

// Callback is a per-frame update or render callback.
type Callback func(Frame)

// Options configures a Scheduler.
type Options struct {
	// MaxDeltaMs clamps the raw frame delta so a stall (terminal suspend,
	// debugger pause) cannot produce a huge physics jump. Zero means the
	// 100ms default.
	MaxDeltaMs float64

	// ReferenceFrameMs is the frame duration deltas are normalized
	// against. Zero means one frame at 60 FPS.
	ReferenceFrameMs float64

	// FixedDeltaMs, when positive, ignores wall-clock deltas entirely and
	// advances every tick by this constant amount. Used for deterministic
	// simulation and tests.
	FixedDeltaMs float64

	// Bus receives EventStarted/EventStopped. May be nil.
	Bus *events.Bus

	// Logger receives callback panic reports. May be nil.
	Logger *log.Logger
}

const defaultMaxDeltaMs = 100.0

var errOptions = errors.New("loop: delta and reference frame options must not be negative")

type entry struct {
	id int
	cb Callback
}

// Scheduler dispatches update and render callbacks once per host tick.
// Update callbacks are skipped while paused; render callbacks always run
// so a paused frame can still redraw. For any frame, every update
// callback completes before the first render callback runs.
type Scheduler struct {
	opts    Options
	running bool
	paused  bool

	lastTick  time.Time
	hasTick   bool
	frames    uint64
	elapsedMs float64

	nextID  int
	updates []entry
	renders []entry
}

// NewScheduler validates options and returns a stopped scheduler.
func NewScheduler(opts Options) (*Scheduler, error) {
	if opts.MaxDeltaMs < 0 || opts.ReferenceFrameMs < 0 || opts.FixedDeltaMs < 0 {
		return nil, fmt.Errorf("%w: %+v", errOptions, opts)
	}
	if opts.MaxDeltaMs == 0 {
		opts.MaxDeltaMs = defaultMaxDeltaMs
	}
	if opts.ReferenceFrameMs == 0 {
		opts.ReferenceFrameMs = 1000.0 / 60.0
	}
	return &Scheduler{opts: opts}, nil
}

// Start transitions to running and resets frame bookkeeping. Calling
// Start on a running scheduler is a no-op.
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.paused = false
	s.hasTick = false
	s.frames = 0
	s.elapsedMs = 0
	if s.opts.Bus != nil {
		s.opts.Bus.Publish(EventStarted, nil)
	}
}

// Stop halts frame processing. Safe to call at any point, including from
// inside a callback: the current phase finishes its callback and nothing
// further fires. Idempotent.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.paused = false
	if s.opts.Bus != nil {
		s.opts.Bus.Publish(EventStopped, nil)
	}
}

// Pause suppresses update callbacks without stopping the frame chain.
func (s *Scheduler) Pause() {
	if s.running {
		s.paused = true
	}
}

// Resume re-enables update callbacks.
func (s *Scheduler) Resume() { s.paused = false }

// TogglePause flips the paused flag and returns the new state.
func (s *Scheduler) TogglePause() bool {
	if !s.running {
		return false
	}
	s.paused = !s.paused
	return s.paused
}

// Running reports whether the scheduler is processing frames.
func (s *Scheduler) Running() bool { return s.running }

// Paused reports whether update dispatch is suppressed.
func (s *Scheduler) Paused() bool { return s.paused }

// FrameCount returns the number of frames processed since Start.
func (s *Scheduler) FrameCount() uint64 { return s.frames }

// OnUpdate registers a per-frame update callback and returns its removal
// function. Callbacks run in registration order.
func (s *Scheduler) OnUpdate(cb Callback) func() {
	return s.register(&s.updates, cb)
}

// OnRender registers a per-frame render callback and returns its removal
// function. Render callbacks run after all update callbacks, every frame,
// paused or not.
func (s *Scheduler) OnRender(cb Callback) func() {
	return s.register(&s.renders, cb)
}

func (s *Scheduler) register(list *[]entry, cb Callback) func() {
	if cb == nil {
		if s.opts.Logger != nil {
			s.opts.Logger.Warn("loop: ignoring nil callback")
		}
		return func() {}
	}
	s.nextID++
	id := s.nextID
	*list = append(*list, entry{id: id, cb: cb})
	return func() {
		for i, e := range *list {
			if e.id == id {
				*list = append((*list)[:i:i], (*list)[i+1:]...)
				return
			}
		}
	}
}

// Tick processes one frame at the given host time. No-op unless running.
func (s *Scheduler) Tick(now time.Time) {
	if !s.running {
		return
	}

	deltaMs := s.opts.ReferenceFrameMs
	if s.opts.FixedDeltaMs > 0 {
		deltaMs = s.opts.FixedDeltaMs
	} else if s.hasTick {
		deltaMs = float64(now.Sub(s.lastTick)) / float64(time.Millisecond)
		if deltaMs < 0 {
			deltaMs = 0
		}
		if deltaMs > s.opts.MaxDeltaMs {
			deltaMs = s.opts.MaxDeltaMs
		}
	}
	s.lastTick = now
	s.hasTick = true

	s.frames++
	s.elapsedMs += deltaMs
	frame := Frame{
		DeltaMs:         deltaMs,
		DeltaNormalized: deltaMs / s.opts.ReferenceFrameMs,
		FrameCount:      s.frames,
		ElapsedMs:       s.elapsedMs,
	}

	if !s.paused {
		s.dispatch(s.updates, frame, "update")
	}
	if !s.running { // stopped from inside an update callback
		return
	}
	s.dispatch(s.renders, frame, "render")
}

// dispatch runs callbacks over a snapshot so that unsubscribing from
// inside a callback does not skip a neighbor. A Stop inside a callback
// halts the rest of the phase.
func (s *Scheduler) dispatch(list []entry, frame Frame, phase string) {
	snapshot := make([]entry, len(list))
	copy(snapshot, list)
	for _, e := range snapshot {
		if !s.running {
			return
		}
		s.invoke(e.cb, frame, phase)
	}
}

func (s *Scheduler) invoke(cb Callback, frame Frame, phase string) {
	defer func() {
		if r := recover(); r != nil {
			if s.opts.Logger != nil {
				s.opts.Logger.Error("loop: callback panic", "phase", phase, "frame", frame.FrameCount, "panic", r)
			}
		}
	}()
	cb(frame)
}
