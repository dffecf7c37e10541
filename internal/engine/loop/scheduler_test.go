package loop

import (
	"testing"
	"time"

	"github.com/mintpuff/cinna-arcade/internal/engine/events"
)

func newTestScheduler(t *testing.T, opts Options) *Scheduler {
	t.Helper()
	s, err := NewScheduler(opts)
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}
	return s
}

func TestNewSchedulerValidation(t *testing.T) {
	if _, err := NewScheduler(Options{MaxDeltaMs: -1}); err == nil {
		t.Error("negative MaxDeltaMs accepted")
	}
	if _, err := NewScheduler(Options{FixedDeltaMs: -5}); err == nil {
		t.Error("negative FixedDeltaMs accepted")
	}
}

func TestStartStopIdempotent(t *testing.T) {
	bus := events.NewBus(nil)
	started, stopped := 0, 0
	bus.Subscribe(EventStarted, func(any) { started++ })
	bus.Subscribe(EventStopped, func(any) { stopped++ })

	s := newTestScheduler(t, Options{Bus: bus})

	s.Start()
	s.Start()
	if started != 1 {
		t.Errorf("started events = %d, expected 1", started)
	}
	if !s.Running() {
		t.Error("scheduler should be running")
	}

	s.Stop()
	s.Stop()
	if stopped != 1 {
		t.Errorf("stopped events = %d, expected 1", stopped)
	}
	if s.Running() {
		t.Error("scheduler should be stopped")
	}
}

func TestDeltaClamp(t *testing.T) {
	s := newTestScheduler(t, Options{MaxDeltaMs: 100})
	s.Start()

	var got Frame
	s.OnUpdate(func(f Frame) { got = f })

	base := time.Unix(0, 0)
	s.Tick(base)
	// 5 seconds away: raw delta far above the clamp.
	s.Tick(base.Add(5 * time.Second))

	if got.DeltaMs != 100 {
		t.Errorf("DeltaMs = %v, expected clamp at 100", got.DeltaMs)
	}
}

func TestFixedTimestep(t *testing.T) {
	s := newTestScheduler(t, Options{FixedDeltaMs: 10, ReferenceFrameMs: 20})
	s.Start()

	var frames []Frame
	s.OnUpdate(func(f Frame) { frames = append(frames, f) })

	base := time.Unix(0, 0)
	s.Tick(base)
	s.Tick(base.Add(time.Hour)) // wall clock is ignored

	if len(frames) != 2 {
		t.Fatalf("frames = %d, expected 2", len(frames))
	}
	for i, f := range frames {
		if f.DeltaMs != 10 {
			t.Errorf("frame %d DeltaMs = %v, expected 10", i, f.DeltaMs)
		}
		if f.DeltaNormalized != 0.5 {
			t.Errorf("frame %d DeltaNormalized = %v, expected 0.5", i, f.DeltaNormalized)
		}
	}
	if frames[1].FrameCount != 2 || frames[1].ElapsedMs != 20 {
		t.Errorf("frame 2 = %+v, expected FrameCount 2 ElapsedMs 20", frames[1])
	}
}

func TestUpdatesBeforeRenders(t *testing.T) {
	s := newTestScheduler(t, Options{FixedDeltaMs: 10})
	s.Start()

	var order []string
	s.OnRender(func(Frame) { order = append(order, "render") })
	s.OnUpdate(func(Frame) { order = append(order, "update1") })
	s.OnUpdate(func(Frame) { order = append(order, "update2") })

	s.Tick(time.Unix(0, 0))

	want := []string{"update1", "update2", "render"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, expected %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, expected %v", order, want)
		}
	}
}

func TestPauseSkipsUpdatesNotRenders(t *testing.T) {
	s := newTestScheduler(t, Options{FixedDeltaMs: 10})
	s.Start()

	updates, renders := 0, 0
	s.OnUpdate(func(Frame) { updates++ })
	s.OnRender(func(Frame) { renders++ })

	s.Tick(time.Unix(0, 0))
	s.Pause()
	s.Tick(time.Unix(1, 0))
	s.Tick(time.Unix(2, 0))
	s.Resume()
	s.Tick(time.Unix(3, 0))

	if updates != 2 {
		t.Errorf("updates = %d, expected 2 (paused frames skipped)", updates)
	}
	if renders != 4 {
		t.Errorf("renders = %d, expected 4 (renders always fire)", renders)
	}
}

func TestTogglePause(t *testing.T) {
	s := newTestScheduler(t, Options{})
	if s.TogglePause() {
		t.Error("TogglePause on a stopped scheduler should stay false")
	}

	s.Start()
	if !s.TogglePause() {
		t.Error("first toggle should pause")
	}
	if s.TogglePause() {
		t.Error("second toggle should resume")
	}
}

func TestStopFromInsideCallback(t *testing.T) {
	s := newTestScheduler(t, Options{FixedDeltaMs: 10})
	s.Start()

	laterRan := false
	renderRan := false
	s.OnUpdate(func(Frame) { s.Stop() })
	s.OnUpdate(func(Frame) { laterRan = true })
	s.OnRender(func(Frame) { renderRan = true })

	s.Tick(time.Unix(0, 0))
	s.Tick(time.Unix(1, 0))

	if laterRan {
		t.Error("callback after Stop ran in the same frame")
	}
	if renderRan {
		t.Error("render phase ran after Stop")
	}
	if s.FrameCount() != 1 {
		t.Errorf("frames after stop = %d, expected 1", s.FrameCount())
	}
}

func TestPanickingCallbackDoesNotAbortFrame(t *testing.T) {
	s := newTestScheduler(t, Options{FixedDeltaMs: 10})
	s.Start()

	ran := false
	s.OnUpdate(func(Frame) { panic("boom") })
	s.OnUpdate(func(Frame) { ran = true })

	s.Tick(time.Unix(0, 0))

	if !ran {
		t.Error("callback after a panicking one did not run")
	}
	if !s.Running() {
		t.Error("a panicking callback stopped the loop")
	}
}

func TestCallbackUnsubscribe(t *testing.T) {
	s := newTestScheduler(t, Options{FixedDeltaMs: 10})
	s.Start()

	calls := 0
	off := s.OnUpdate(func(Frame) { calls++ })

	s.Tick(time.Unix(0, 0))
	off()
	off() // idempotent
	s.Tick(time.Unix(1, 0))

	if calls != 1 {
		t.Errorf("calls = %d, expected 1", calls)
	}
}

func TestTickWhileStopped(t *testing.T) {
	s := newTestScheduler(t, Options{FixedDeltaMs: 10})

	calls := 0
	s.OnUpdate(func(Frame) { calls++ })
	s.Tick(time.Unix(0, 0))

	if calls != 0 || s.FrameCount() != 0 {
		t.Errorf("tick before Start processed a frame: calls=%d frames=%d", calls, s.FrameCount())
	}
}
