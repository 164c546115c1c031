package eventbus

import "testing"

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Publish("period-changed")
	if v := <-ch; v != "period-changed" {
		t.Fatalf("expected period-changed got %v", v)
	}
	bus.Unsubscribe(ch)
}

func TestBusPublishNeverBlocks(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	for i := 0; i < subscriberBuffer+5; i++ {
		bus.Publish(i)
	}
	// Buffer holds the first events; the overflow was dropped, not blocked on.
	if v := <-ch; v != 0 {
		t.Fatalf("expected first event got %v", v)
	}
}

func TestBusClose(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
	// Publish after close is a no-op.
	bus.Publish("late")
}

func TestTypedBusKeepsElementType(t *testing.T) {
	bus := NewTyped[int]()
	ch := bus.Subscribe()
	bus.Publish(42)
	if v := <-ch; v != 42 {
		t.Fatalf("expected 42 got %d", v)
	}
	bus.Unsubscribe(ch)
	bus.Close()
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
