package events

import "testing"

func TestPublishOrder(t *testing.T) {
	bus := NewBus(nil)

	var order []int
	bus.Subscribe("evt", func(any) { order = append(order, 1) })
	bus.Subscribe("evt", func(any) { order = append(order, 2) })
	bus.Subscribe("evt", func(any) { order = append(order, 3) })

	bus.Publish("evt", nil)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("handlers ran out of registration order: %v", order)
	}
}

func TestPublishPayload(t *testing.T) {
	bus := NewBus(nil)

	var got any
	bus.Subscribe("score", func(p any) { got = p })
	bus.Publish("score", ScorePayload{GameID: "cinnaflight", Score: 7})

	p, ok := got.(ScorePayload)
	if !ok {
		t.Fatalf("payload type = %T, expected ScorePayload", got)
	}
	if p.Score != 7 {
		t.Errorf("Score = %d, expected 7", p.Score)
	}
}

func TestSubscribeOnce(t *testing.T) {
	bus := NewBus(nil)

	onceCalls := 0
	regularCalls := 0
	bus.SubscribeOnce("evt", func(any) { onceCalls++ })
	bus.Subscribe("evt", func(any) { regularCalls++ })

	bus.Publish("evt", nil)

	if onceCalls != 1 {
		t.Errorf("once handler calls = %d, expected 1", onceCalls)
	}
	if bus.HandlerCount("evt") != 1 {
		t.Errorf("HandlerCount after first publish = %d, expected 1 (once handler removed)", bus.HandlerCount("evt"))
	}

	bus.Publish("evt", nil)

	if onceCalls != 1 {
		t.Errorf("once handler ran again, calls = %d", onceCalls)
	}
	if regularCalls != 2 {
		t.Errorf("regular handler calls = %d, expected 2", regularCalls)
	}
}

func TestUnsubscribeReturnedFunc(t *testing.T) {
	bus := NewBus(nil)

	calls := 0
	off := bus.Subscribe("evt", func(any) { calls++ })

	bus.Publish("evt", nil)
	off()
	off() // second call must be harmless
	bus.Publish("evt", nil)

	if calls != 1 {
		t.Errorf("calls = %d, expected 1", calls)
	}
}

func TestUnsubscribeByHandler(t *testing.T) {
	bus := NewBus(nil)

	calls := 0
	h := Handler(func(any) { calls++ })
	bus.Subscribe("evt", h)
	bus.Unsubscribe("evt", h)
	bus.Unsubscribe("evt", h) // absent: no-op

	bus.Publish("evt", nil)
	if calls != 0 {
		t.Errorf("handler ran after Unsubscribe, calls = %d", calls)
	}
}

func TestPanickingHandlerDoesNotStopDispatch(t *testing.T) {
	bus := NewBus(nil)

	ran := false
	bus.Subscribe("evt", func(any) { panic("boom") })
	bus.Subscribe("evt", func(any) { ran = true })

	bus.Publish("evt", nil)

	if !ran {
		t.Error("handler after panicking handler did not run")
	}
}

func TestNilHandlerRejected(t *testing.T) {
	bus := NewBus(nil)

	off := bus.Subscribe("evt", nil)
	off() // must not panic

	if bus.HandlerCount("evt") != 0 {
		t.Errorf("nil handler was registered, count = %d", bus.HandlerCount("evt"))
	}
	bus.Publish("evt", nil) // must not panic
}

func TestClear(t *testing.T) {
	bus := NewBus(nil)
	bus.Subscribe("a", func(any) {})
	bus.Subscribe("b", func(any) {})

	bus.Clear("a")
	if bus.HandlerCount("a") != 0 {
		t.Error("Clear(a) left handlers on a")
	}
	if bus.HandlerCount("b") != 1 {
		t.Error("Clear(a) touched handlers on b")
	}

	bus.Clear()
	if bus.HandlerCount("b") != 0 {
		t.Error("Clear() left handlers on b")
	}
}
