// Package input normalizes raw host input (key names from the terminal,
// pointer presses from mouse or touch) into the small set of abstract
// actions the games consume. Discrete triggers are republished on the
// event bus at press time; held state is queryable for continuous actions.
package input

import (
	"github.com/mintpuff/cinna-arcade/internal/engine/events"
)

// EventAction is published on the bus for every discrete action trigger.
const EventAction = "input:action"

// Action is a semantic game action, abstracted from physical input.
type Action int

const (
	ActionNone Action = iota
	ActionFlap        // primary action: flap, jump, start
	ActionDuck
	ActionLeft
	ActionRight
	ActionPause
	ActionConfirm
	ActionCancel
	ActionRestart
	ActionQuit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionFlap:
		return "Flap"
	case ActionDuck:
		return "Duck"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionPause:
		return "Pause"
	case ActionConfirm:
		return "Confirm"
	case ActionCancel:
		return "Cancel"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// ActionPayload is the payload published with EventAction.
type ActionPayload struct {
	Action Action
}

// Binding maps an action to the physical inputs that trigger it. Key
// names follow Bubble Tea's KeyMsg.String() convention (" ", "up",
// "ctrl+c", ...).
type Binding struct {
	Keys  []string
	Mouse bool // pointer press triggers the action
	Touch bool
}

// DefaultBindings returns the standard binding table.
func DefaultBindings() map[Action]Binding {
	return map[Action]Binding{
		ActionFlap:    {Keys: []string{" ", "up", "w"}, Mouse: true, Touch: true},
		ActionDuck:    {Keys: []string{"down", "s"}},
		ActionLeft:    {Keys: []string{"left", "a"}},
		ActionRight:   {Keys: []string{"right", "d"}},
		ActionPause:   {Keys: []string{"p", "esc"}},
		ActionConfirm: {Keys: []string{"enter"}},
		ActionCancel:  {Keys: []string{"b"}},
		ActionRestart: {Keys: []string{"r"}},
		ActionQuit:    {Keys: []string{"q", "ctrl+c"}},
	}
}

// Mapper tracks held keys and pointer state and publishes action events.
type Mapper struct {
	bus         *events.Bus
	bindings    map[Action]Binding
	keyActions  map[string][]Action // reverse index
	held        map[string]bool
	pointerDown bool
	enabled     bool
}

// NewMapper creates a mapper with the given bindings (nil means
// DefaultBindings). The mapper starts enabled.
func NewMapper(bus *events.Bus, bindings map[Action]Binding) *Mapper {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	m := &Mapper{
		bus:        bus,
		bindings:   bindings,
		keyActions: make(map[string][]Action),
		held:       make(map[string]bool),
		enabled:    true,
	}
	for action, b := range bindings {
		for _, key := range b.Keys {
			m.keyActions[key] = append(m.keyActions[key], action)
		}
	}
	return m
}

// HandleKeyDown records a key press and publishes the bound actions.
// Repeated presses while the key is already held do not re-trigger.
func (m *Mapper) HandleKeyDown(key string) {
	if !m.enabled || m.held[key] {
		return
	}
	m.held[key] = true
	for _, action := range m.keyActions[key] {
		m.publish(action)
	}
}

// HandleKeyUp clears a key's held state.
func (m *Mapper) HandleKeyUp(key string) {
	if !m.enabled {
		return
	}
	delete(m.held, key)
}

// HandlePointerDown records a pointer press (mouse button or touch) and
// triggers every mouse/touch-enabled action.
func (m *Mapper) HandlePointerDown() {
	if !m.enabled || m.pointerDown {
		return
	}
	m.pointerDown = true
	for action, b := range m.bindings {
		if b.Mouse || b.Touch {
			m.publish(action)
		}
	}
}

// HandlePointerUp clears the pointer-down state.
func (m *Mapper) HandlePointerUp() {
	if !m.enabled {
		return
	}
	m.pointerDown = false
}

// IsActionActive reports whether any input bound to the action is held.
func (m *Mapper) IsActionActive(action Action) bool {
	b, ok := m.bindings[action]
	if !ok {
		return false
	}
	for _, key := range b.Keys {
		if m.held[key] {
			return true
		}
	}
	if (b.Mouse || b.Touch) && m.pointerDown {
		return true
	}
	return false
}

// Enabled reports whether the mapper is processing input.
func (m *Mapper) Enabled() bool { return m.enabled }

// SetEnabled enables or disables the mapper. Disabling clears all held
// state so re-enabling cannot leave stuck keys.
func (m *Mapper) SetEnabled(enabled bool) {
	m.enabled = enabled
	if !enabled {
		m.held = make(map[string]bool)
		m.pointerDown = false
	}
}

func (m *Mapper) publish(action Action) {
	if m.bus != nil {
		m.bus.Publish(EventAction, ActionPayload{Action: action})
	}
}
