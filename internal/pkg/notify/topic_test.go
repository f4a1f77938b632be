package notify

import (
	"sync"
	"testing"
)

type signal struct{}

func TestTopic_FanOutToEveryListener(t *testing.T) {
	topic := NewTopic[signal]()

	var a, b int
	topic.Subscribe(func(signal) { a++ })
	topic.Subscribe(func(signal) { b++ })

	topic.Publish(signal{})

	if a != 1 || b != 1 {
		t.Fatalf("expected each listener invoked exactly once, got a=%d b=%d", a, b)
	}
}

func TestTopic_UnsubscribeStopsOnlyThatListener(t *testing.T) {
	topic := NewTopic[signal]()

	var a, b int
	subA := topic.Subscribe(func(signal) { a++ })
	topic.Subscribe(func(signal) { b++ })

	subA.Unsubscribe()
	topic.Publish(signal{})

	if a != 0 {
		t.Fatalf("unsubscribed listener invoked %d times", a)
	}
	if b != 1 {
		t.Fatalf("remaining listener invoked %d times, want 1", b)
	}
	if topic.Len() != 1 {
		t.Fatalf("expected 1 listener left, got %d", topic.Len())
	}
}

func TestTopic_UnsubscribeIsIdempotent(t *testing.T) {
	topic := NewTopic[signal]()
	first := topic.Subscribe(func(signal) {})
	topic.Subscribe(func(signal) {})

	first.Unsubscribe()
	first.Unsubscribe()

	if topic.Len() != 1 {
		t.Fatalf("double unsubscribe removed another listener: len=%d", topic.Len())
	}

	var nilSub *Subscription
	nilSub.Unsubscribe()
}

func TestTopic_UnsubscribeFromInsideListener(t *testing.T) {
	topic := NewTopic[signal]()

	calls := 0
	var sub *Subscription
	sub = topic.Subscribe(func(signal) {
		calls++
		sub.Unsubscribe()
	})

	topic.Publish(signal{})
	topic.Publish(signal{})

	if calls != 1 {
		t.Fatalf("expected one-shot listener, got %d calls", calls)
	}
}

func TestTopic_PublishExceptSkipsGivenSubscription(t *testing.T) {
	topic := NewTopic[signal]()

	var bridge, badge int
	bridgeSub := topic.Subscribe(func(signal) { bridge++ })
	topic.Subscribe(func(signal) { badge++ })

	topic.PublishExcept(bridgeSub, signal{})

	if bridge != 0 || badge != 1 {
		t.Fatalf("expected only badge invoked, got bridge=%d badge=%d", bridge, badge)
	}

	other := NewTopic[signal]()
	foreign := other.Subscribe(func(signal) {})
	topic.PublishExcept(foreign, signal{})
	if bridge != 1 {
		t.Fatalf("a foreign subscription must not suppress delivery")
	}
}

func TestTopic_PanickingListenerDoesNotBlockOthers(t *testing.T) {
	topic := NewTopic[signal]()

	var recovered any
	topic.OnPanic = func(r any) { recovered = r }

	called := false
	topic.Subscribe(func(signal) { panic("boom") })
	topic.Subscribe(func(signal) { called = true })

	topic.Publish(signal{})

	if !called {
		t.Fatalf("second listener not invoked after first panicked")
	}
	if recovered != "boom" {
		t.Fatalf("expected panic value to reach OnPanic, got %v", recovered)
	}
}

func TestTopic_ConcurrentSubscribePublish(t *testing.T) {
	var topic Topic[int]

	var mu sync.Mutex
	total := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := topic.Subscribe(func(v int) {
				mu.Lock()
				total += v
				mu.Unlock()
			})
			topic.Publish(1)
			sub.Unsubscribe()
		}()
	}
	wg.Wait()

	if topic.Len() != 0 {
		t.Fatalf("expected all listeners removed, got %d", topic.Len())
	}
	if total < 8 {
		t.Fatalf("expected every publisher to reach at least its own listener, total=%d", total)
	}
}
