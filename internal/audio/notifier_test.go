package audio

import (
	"testing"

	"github.com/mintpuff/cinna-arcade/internal/engine/events"
)

func TestNotifierSubscribesAllTones(t *testing.T) {
	bus := events.NewBus(nil)
	n := NewNotifier(bus, nil)
	defer n.Close()

	for event := range eventTones {
		if bus.HandlerCount(event) != 1 {
			t.Errorf("event %q has %d handlers, expected 1", event, bus.HandlerCount(event))
		}
	}

	// Publishing must never panic, with or without an audio device.
	bus.Publish(events.Score, events.ScorePayload{GameID: "cinnaflight", Score: 1})
	bus.Publish(events.Collision, nil)
}

func TestNotifierCloseDetaches(t *testing.T) {
	bus := events.NewBus(nil)
	n := NewNotifier(bus, nil)
	n.Close()

	for event := range eventTones {
		if bus.HandlerCount(event) != 0 {
			t.Errorf("event %q still has handlers after Close", event)
		}
	}
	if n.Enabled() {
		t.Error("closed notifier should report disabled")
	}
}
