// Package events carries the entity change feed: every successful write
// publishes an event that websocket clients can subscribe to.
package events

import "sync"

// Bus fans events out to every active subscriber. Publish never blocks: a
// subscriber that has fallen behind its buffer misses events.
type Bus[T any] struct {
	mu   sync.RWMutex
	subs map[chan T]struct{}
}

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[chan T]struct{})}
}

func (b *Bus[T]) Subscribe() chan T {
	ch := make(chan T, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Bus[T]) Unsubscribe(ch chan T) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

func (b *Bus[T]) Publish(event T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
