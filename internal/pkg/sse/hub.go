// Package sse fans out per-user events to live stream subscribers.
package sse

import (
	"sync"
)

// Event is a named payload delivered to one user's subscribers
type Event[T any] struct {
	UserID string
	Event  string
	Data   T
}

// Hub manages subscribers keyed by user ID. Publish never blocks: a
// subscriber whose buffer is full misses the event.
type Hub[T any] struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event[T]]struct{}
	buffer      int
	closed      bool
}

// NewHub creates a hub whose subscriber channels hold buffer events
func NewHub[T any](buffer int) *Hub[T] {
	if buffer <= 0 {
		buffer = 10
	}
	return &Hub[T]{
		subscribers: make(map[string]map[chan Event[T]]struct{}),
		buffer:      buffer,
	}
}

// Subscribe registers a subscriber for userID. The returned cleanup is
// idempotent and closes the channel.
func (h *Hub[T]) Subscribe(userID string) (<-chan Event[T], func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event[T], h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[chan Event[T]]struct{})
	}
	h.subscribers[userID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subscribers[userID][ch]; !ok {
				// already closed by Close
				return
			}
			delete(h.subscribers[userID], ch)
			close(ch)
			if len(h.subscribers[userID]) == 0 {
				delete(h.subscribers, userID)
			}
		})
	}

	return ch, cleanup
}

// Publish sends an event to all subscribers of userID
func (h *Hub[T]) Publish(userID string, event Event[T]) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.UserID = userID
	for ch := range h.subscribers[userID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// PublishToMany sends an event to multiple users
func (h *Hub[T]) PublishToMany(userIDs []string, event Event[T]) {
	for _, userID := range userIDs {
		h.Publish(userID, event)
	}
}

// SubscriberCount returns the number of active subscribers for a user
func (h *Hub[T]) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}

// TotalSubscribers returns the total number of active subscribers across all users
func (h *Hub[T]) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}

// Close ends every subscription. Later subscriptions receive a closed channel.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for userID, subs := range h.subscribers {
		for ch := range subs {
			close(ch)
		}
		delete(h.subscribers, userID)
	}
}
