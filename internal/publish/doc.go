// Package publish fans monitor updates out to live subscribers.
//
// Three events are published:
//
//   - [EventStatusUpdate]: one endpoint's rolling metrics after a probe
//   - [EventSystemHealth]: one host resource sample
//   - [EventWebsiteHealth]: every registered endpoint's latest outcome, once
//     per sweep
//
// [Hub] encodes each event once and delivers it to subscriber channels, which
// the HTTP layer streams over SSE and WebSocket. [Multi] forwards every call
// to several publishers so the hub, the Prometheus collector and SDK
// callbacks can all observe the same updates.
package publish
