package input

import (
	"testing"

	"github.com/mintpuff/cinna-arcade/internal/engine/events"
)

func collectActions(bus *events.Bus) *[]Action {
	var got []Action
	bus.Subscribe(EventAction, func(p any) {
		got = append(got, p.(ActionPayload).Action)
	})
	return &got
}

func TestKeyDownPublishesAction(t *testing.T) {
	bus := events.NewBus(nil)
	got := collectActions(bus)
	m := NewMapper(bus, nil)

	m.HandleKeyDown(" ")

	if len(*got) != 1 || (*got)[0] != ActionFlap {
		t.Errorf("actions = %v, expected [Flap]", *got)
	}
}

func TestHeldKeyDoesNotRetrigger(t *testing.T) {
	bus := events.NewBus(nil)
	got := collectActions(bus)
	m := NewMapper(bus, nil)

	m.HandleKeyDown("p")
	m.HandleKeyDown("p") // key repeat while held
	m.HandleKeyUp("p")
	m.HandleKeyDown("p")

	if len(*got) != 2 {
		t.Errorf("triggers = %d, expected 2 (press, release, press)", len(*got))
	}
}

func TestIsActionActive(t *testing.T) {
	m := NewMapper(events.NewBus(nil), nil)

	if m.IsActionActive(ActionFlap) {
		t.Error("flap active before any input")
	}

	m.HandleKeyDown("up")
	if !m.IsActionActive(ActionFlap) {
		t.Error("flap not active while 'up' held")
	}

	m.HandleKeyUp("up")
	if m.IsActionActive(ActionFlap) {
		t.Error("flap still active after release")
	}
}

func TestPointerTriggersFlap(t *testing.T) {
	bus := events.NewBus(nil)
	got := collectActions(bus)
	m := NewMapper(bus, nil)

	m.HandlePointerDown()
	m.HandlePointerDown() // still held: no re-trigger

	if len(*got) != 1 || (*got)[0] != ActionFlap {
		t.Errorf("actions = %v, expected [Flap]", *got)
	}
	if !m.IsActionActive(ActionFlap) {
		t.Error("flap not active while pointer down")
	}

	m.HandlePointerUp()
	if m.IsActionActive(ActionFlap) {
		t.Error("flap active after pointer up")
	}
}

func TestDisableClearsHeldState(t *testing.T) {
	bus := events.NewBus(nil)
	got := collectActions(bus)
	m := NewMapper(bus, nil)

	m.HandleKeyDown(" ")
	m.HandlePointerDown()
	m.SetEnabled(false)

	if m.IsActionActive(ActionFlap) {
		t.Error("held state survived disable")
	}

	m.HandleKeyDown("p") // ignored while disabled
	if len(*got) != 2 {
		t.Errorf("disabled mapper published input, actions = %v", *got)
	}

	// Re-enabling must not resurrect old held keys, and a fresh press of
	// a previously held key triggers again.
	m.SetEnabled(true)
	if m.IsActionActive(ActionFlap) {
		t.Error("stuck key after re-enable")
	}
	m.HandleKeyDown(" ")
	if len(*got) != 3 {
		t.Errorf("press after re-enable did not trigger, actions = %v", *got)
	}
}

func TestCustomBindings(t *testing.T) {
	bus := events.NewBus(nil)
	got := collectActions(bus)
	m := NewMapper(bus, map[Action]Binding{
		ActionFlap: {Keys: []string{"x"}},
	})

	m.HandleKeyDown(" ") // unbound in the custom table
	m.HandleKeyDown("x")

	if len(*got) != 1 || (*got)[0] != ActionFlap {
		t.Errorf("actions = %v, expected [Flap]", *got)
	}
}
