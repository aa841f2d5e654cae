// Package event provides a minimal in-process publish/subscribe bus.
//
// Beans implementing Listener are picked up automatically at creation time
// by the container's listener-detection extension, so application code
// rarely calls Subscribe directly.
package event

import "sync"

// Event is a named payload published on the bus.
type Event struct {
	Topic   string
	Payload any
}

// Listener receives every published event. Filtering by topic is the
// listener's job.
type Listener interface {
	Handle(e Event)
}

// Bus is an in-process event bus. Delivery is synchronous and in
// subscription order.
type Bus struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe adds a listener. Subscribing the same listener twice is a no-op.
func (b *Bus) Subscribe(l Listener) {
	if l == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.listeners {
		if existing == l {
			return
		}
	}
	b.listeners = append(b.listeners, l)
}

// Unsubscribe removes a listener.
func (b *Bus) Unsubscribe(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.listeners {
		if existing == l {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every subscribed listener, synchronously.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, l := range listeners {
		l.Handle(e)
	}
}

// ListenerCount returns the number of subscribed listeners.
func (b *Bus) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}
