package sse

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// TopicSummaries carries every committed daily summary change
const TopicSummaries = "summaries"

// Event represents an SSE event to be sent to subscribers
type Event struct {
	Topic string
	Event string
	Data  any
}

// Hub manages SSE subscribers and event broadcasting per topic
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]chan Event
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[string]chan Event),
	}
}

// Subscribe registers a new subscriber for a topic and returns the event channel and cleanup function
func (h *Hub) Subscribe(topic string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan Event, 10)

	if h.subscribers[topic] == nil {
		h.subscribers[topic] = make(map[string]chan Event)
	}
	h.subscribers[topic][id] = ch
	slog.Debug("SSE subscriber joined", "topic", topic, "subscriber_id", id)

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[topic], id)
			close(ch)
			if len(h.subscribers[topic]) == 0 {
				delete(h.subscribers, topic)
			}
			slog.Debug("SSE subscriber left", "topic", topic, "subscriber_id", id)
		})
	}

	return ch, cleanup
}

// Publish sends an event to all subscribers of a topic
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subscribers[event.Topic] {
		select {
		case ch <- event:
		default:
			// Skip if channel is full (non-blocking to prevent deadlock)
			slog.Warn("SSE subscriber too slow, event dropped", "topic", event.Topic, "subscriber_id", id)
		}
	}
}

// SubscriberCount returns the number of active subscribers of a topic
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}
