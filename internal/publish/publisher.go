package publish

import (
	"encoding/json"

	"github.com/jpalmerr/sitepulse/internal/store"
	"github.com/jpalmerr/sitepulse/internal/sysinfo"
)

// Event names as seen by dashboard clients.
const (
	EventStatusUpdate  = "statusUpdate"
	EventSystemHealth  = "systemHealthUpdate"
	EventWebsiteHealth = "websiteHealthUpdate"
)

// StatusUpdate carries one endpoint's metrics right after a probe.
type StatusUpdate struct {
	URL           string          `json:"site"`
	History       []store.Outcome `json:"history"`
	ResponseTimes []int64         `json:"responseTimes"`
}

// AggregateEntry is one endpoint's line in a [EventWebsiteHealth] event.
type AggregateEntry struct {
	URL          string        `json:"url"`
	HealthStatus store.Outcome `json:"healthStatus"`
}

// Publisher receives monitor updates.
//
// Publishing is fire-and-forget: implementations must not block the caller
// on slow consumers and have no way to report failure.
type Publisher interface {
	PublishStatusUpdate(update StatusUpdate)
	PublishSystemHealth(health sysinfo.SystemHealth)
	PublishAggregateHealth(entries []AggregateEntry)
}

// Event is an encoded update ready to be written to a stream.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// Multi forwards every call to each publisher in order.
type Multi []Publisher

// PublishStatusUpdate implements [Publisher].
func (m Multi) PublishStatusUpdate(update StatusUpdate) {
	for _, p := range m {
		p.PublishStatusUpdate(update)
	}
}

// PublishSystemHealth implements [Publisher].
func (m Multi) PublishSystemHealth(health sysinfo.SystemHealth) {
	for _, p := range m {
		p.PublishSystemHealth(health)
	}
}

// PublishAggregateHealth implements [Publisher].
func (m Multi) PublishAggregateHealth(entries []AggregateEntry) {
	for _, p := range m {
		p.PublishAggregateHealth(entries)
	}
}
