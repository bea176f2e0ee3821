// Package store holds the in-memory state of SitePulse: the ordered registry
// of monitored endpoints and the rolling per-endpoint metrics.
//
// This package is internal to SitePulse. The main components are:
//
//   - [Registry]: ordered, duplicate-free list of normalized endpoint URLs
//   - [MetricsStore]: per-endpoint rolling health history and response times
//   - [Window]: fixed-capacity FIFO ring backing each metrics series
//
// A Registry owns the lifecycle of MetricsStore entries. Adding or removing
// an endpoint creates or deletes its metrics entry inside the same critical
// section, so there is never a moment where one exists without the other.
// Writes coming from the poller for an endpoint that is no longer registered
// are ignored.
//
// Registry and MetricsStore are safe for concurrent use.
package store
