package publish

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/jpalmerr/sitepulse/internal/sysinfo"
)

// DefaultBufferSize is the per-subscriber channel buffer.
const DefaultBufferSize = 100

// Hub is an in-memory [Publisher] with channel subscriptions.
//
// Each event is JSON-encoded once and sent to every subscriber without
// blocking. A subscriber whose buffer is full is disconnected: its channel is
// closed and it receives nothing further. Every subscriber that is still
// connected has therefore received every event published since it
// subscribed. Late subscribers receive only later events.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan Event]struct{}
	bufferSize  int
	logger      *slog.Logger
}

// NewHub creates a Hub. A bufferSize below 1 uses [DefaultBufferSize].
func NewHub(bufferSize int, logger *slog.Logger) *Hub {
	if bufferSize < 1 {
		bufferSize = DefaultBufferSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[chan Event]struct{}),
		bufferSize:  bufferSize,
		logger:      logger,
	}
}

// Subscribe creates a new subscription and returns a channel for receiving events.
//
// The channel is closed by [Hub.Unsubscribe] or when the hub disconnects a
// subscriber that falls behind. Caller must call Unsubscribe when done to
// prevent resource leaks.
func (h *Hub) Subscribe() <-chan Event {
	ch := make(chan Event, h.bufferSize)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call multiple times, with an unknown channel, or after the hub has
// already disconnected the subscriber.
func (h *Hub) Unsubscribe(ch <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for subCh := range h.subscribers {
		if subCh == ch {
			delete(h.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// SubscriberCount returns the number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// PublishStatusUpdate implements [Publisher].
func (h *Hub) PublishStatusUpdate(update StatusUpdate) {
	h.publish(EventStatusUpdate, update)
}

// PublishSystemHealth implements [Publisher].
func (h *Hub) PublishSystemHealth(health sysinfo.SystemHealth) {
	h.publish(EventSystemHealth, health)
}

// PublishAggregateHealth implements [Publisher].
func (h *Hub) PublishAggregateHealth(entries []AggregateEntry) {
	if entries == nil {
		entries = []AggregateEntry{}
	}
	h.publish(EventWebsiteHealth, entries)
}

func (h *Hub) publish(name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode event", "event", name, "error", err)
		return
	}
	h.broadcast(Event{Name: name, Data: data})
}

// broadcast sends ev to all subscribers, disconnecting any that are full.
func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			delete(h.subscribers, ch)
			close(ch)
			h.logger.Warn("disconnected slow subscriber", "event", ev.Name, "buffer", h.bufferSize)
		}
	}
}
