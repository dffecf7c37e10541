// Package events provides the publish/subscribe hub that connects the
// engine, games, and collaborators (audio, persistence, UI). All
// inter-component communication is message based: producers publish named
// events with a payload, consumers subscribe handlers.
//
// A Bus is an explicitly constructed instance passed to every consumer;
// there is no package-level singleton.
package events

import (
	"reflect"
	"sync"

	"github.com/charmbracelet/log"
)

// Handler receives the payload published with an event.
type Handler func(payload any)

type subscription struct {
	fn   Handler
	ptr  uintptr // identity of fn, for Unsubscribe
	once bool
}

// Bus is a synchronous publish/subscribe hub. Handlers for an event run
// in registration order. A panicking handler is recovered and logged so
// the remaining handlers still run.
type Bus struct {
	mu       sync.Mutex
	logger   *log.Logger
	handlers map[string][]*subscription
}

// NewBus creates an event bus. The logger may be nil; panics and invalid
// registrations are then dropped silently.
func NewBus(logger *log.Logger) *Bus {
	return &Bus{
		logger:   logger,
		handlers: make(map[string][]*subscription),
	}
}

// Subscribe registers a handler for the named event and returns a removal
// function. The removal function is safe to call more than once. A nil
// handler is logged and ignored; the returned function is then a no-op.
func (b *Bus) Subscribe(event string, h Handler) func() {
	return b.subscribe(event, h, false)
}

// SubscribeOnce registers a handler that is removed automatically after
// its first invocation. Other handlers keep their registration order.
func (b *Bus) SubscribeOnce(event string, h Handler) func() {
	return b.subscribe(event, h, true)
}

func (b *Bus) subscribe(event string, h Handler, once bool) func() {
	if h == nil {
		if b.logger != nil {
			b.logger.Warn("events: ignoring nil handler", "event", event)
		}
		return func() {}
	}

	sub := &subscription{fn: h, ptr: reflect.ValueOf(h).Pointer(), once: once}

	b.mu.Lock()
	b.handlers[event] = append(b.handlers[event], sub)
	b.mu.Unlock()

	return func() { b.remove(event, sub) }
}

func (b *Bus) remove(event string, target *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[event]
	for i, sub := range subs {
		if sub == target {
			b.handlers[event] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Unsubscribe removes a previously registered handler. It is a no-op if
// the handler is not registered for the event. Identity is the function
// value; named functions and stored closures unsubscribe reliably, a
// freshly written closure literal does not (use the removal function
// returned by Subscribe instead).
func (b *Bus) Unsubscribe(event string, h Handler) {
	if h == nil {
		return
	}
	ptr := reflect.ValueOf(h).Pointer()

	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[event]
	for i, sub := range subs {
		if sub.ptr == ptr {
			b.handlers[event] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish synchronously invokes all handlers currently registered for the
// event, in registration order. Handlers registered during dispatch see
// only subsequent publishes. Once-handlers are deregistered before the
// dispatch runs, so re-publishing from inside a handler cannot fire them
// twice.
func (b *Bus) Publish(event string, payload any) {
	b.mu.Lock()
	subs := b.handlers[event]
	snapshot := make([]*subscription, len(subs))
	copy(snapshot, subs)

	remaining := subs[:0:0]
	for _, sub := range subs {
		if !sub.once {
			remaining = append(remaining, sub)
		}
	}
	if len(remaining) == 0 {
		delete(b.handlers, event)
	} else {
		b.handlers[event] = remaining
	}
	b.mu.Unlock()

	for _, sub := range snapshot {
		b.invoke(event, sub.fn, payload)
	}
}

func (b *Bus) invoke(event string, h Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			if b.logger != nil {
				b.logger.Error("events: handler panic", "event", event, "panic", r)
			}
		}
	}()
	h(payload)
}

// Clear removes all handlers for the given events, or every handler on
// the bus when called with no arguments.
func (b *Bus) Clear(events ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(events) == 0 {
		b.handlers = make(map[string][]*subscription)
		return
	}
	for _, event := range events {
		delete(b.handlers, event)
	}
}

// HandlerCount returns the number of handlers registered for an event.
func (b *Bus) HandlerCount(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[event])
}
