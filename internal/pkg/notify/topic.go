// Package notify provides an in-process, typed publish/subscribe topic.
//
// Every Subscribe returns a handle whose Unsubscribe ends delivery to that
// listener; handles are the only way to remove a listener, which keeps listener
// lifetimes explicit at the call site.
package notify

import (
	"sync"
)

// Topic fans a value out to every registered listener. The zero value is ready
// to use. Listeners run synchronously in the publisher's goroutine, in
// registration order; a listener that needs to do I/O should hand off to its
// own goroutine.
type Topic[T any] struct {
	mu      sync.RWMutex
	nextID  uint64
	entries []entry[T]

	// OnPanic, when set, receives the recovered value of a panicking listener.
	// Delivery to the remaining listeners continues either way.
	OnPanic func(recovered any)
}

type entry[T any] struct {
	id uint64
	fn func(T)
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	id     uint64
	owner  any
	once   sync.Once
	remove func(id uint64)
}

// Unsubscribe stops delivery to the listener. It is safe to call more than
// once and from inside the listener itself.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() { s.remove(s.id) })
}

// NewTopic returns an empty topic.
func NewTopic[T any]() *Topic[T] {
	return &Topic[T]{}
}

// Subscribe registers fn and returns its handle.
func (t *Topic[T]) Subscribe(fn func(T)) *Subscription {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.entries = append(t.entries, entry[T]{id: id, fn: fn})
	t.mu.Unlock()

	return &Subscription{id: id, owner: t, remove: t.remove}
}

// Publish delivers v to every listener registered at the time of the call.
func (t *Topic[T]) Publish(v T) {
	t.PublishExcept(nil, v)
}

// PublishExcept delivers v to every listener but skip. It lets a bridge that is
// itself subscribed re-inject values without receiving them back.
func (t *Topic[T]) PublishExcept(skip *Subscription, v T) {
	var skipID uint64
	if skip != nil && skip.owner == any(t) {
		skipID = skip.id
	}

	t.mu.RLock()
	snapshot := make([]entry[T], len(t.entries))
	copy(snapshot, t.entries)
	t.mu.RUnlock()

	for _, e := range snapshot {
		if e.id == skipID {
			continue
		}
		t.deliver(e.fn, v)
	}
}

// Len returns the number of registered listeners.
func (t *Topic[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *Topic[T]) deliver(fn func(T), v T) {
	defer func() {
		if r := recover(); r != nil && t.OnPanic != nil {
			t.OnPanic(r)
		}
	}()
	fn(v)
}

func (t *Topic[T]) remove(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, e := range t.entries {
		if e.id == id {
			t.entries = append(t.entries[:i:i], t.entries[i+1:]...)
			return
		}
	}
}
