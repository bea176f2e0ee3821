// Package poller probes registered endpoints on a fixed cadence.
//
// The main components are:
//
//   - [Client]: HTTP [Prober] with per-request timeouts and a pooled transport
//   - [Scheduler]: runs a sweep immediately on start and on every tick, records
//     each outcome and publishes the resulting update
//
// A sweep works on a snapshot of the endpoint list. Endpoints removed while
// their probe is in flight are skipped when the outcome comes back: nothing
// is recorded and nothing is published for them.
//
// Users of the sitepulse library should not need to interact with this
// package directly. Configuration is done through the main sitepulse package.
package poller
