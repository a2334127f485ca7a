// Package notify broadcasts payload-less "board changed" signals to
// connected clients.
package notify

import (
	"context"
	"sync"
)

// Hub is an in-process fan-out. Each subscriber owns a one-slot channel, so a
// burst of publishes collapses into a single pending signal for a slow reader
// and Publish never blocks.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan struct{}]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan struct{}]struct{}),
	}
}

// Subscribe registers a receiver. The returned func unregisters it and must
// be called once the receiver is done.
func (h *Hub) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, ch)
			h.mu.Unlock()
		})
	}
}

func (h *Hub) Publish(_ context.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
