// Package server provides the HTTP surface of the monitor.
//
// This package is internal to sitepulse and handles all HTTP concerns:
//
//   - Dashboard serving: the embedded HTML/JS dashboard at "/"
//   - Status query: JSON snapshot of every endpoint at "/api/status"
//   - Live updates: Server-Sent Events at "/api/sse" and WebSocket at "/api/ws"
//   - Registry API: list, add, update, remove and reorder at "/websites"
//   - Operations: liveness at "/healthz" and Prometheus metrics at "/metrics"
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
//
// Users of the sitepulse library should not need to interact with this
// package directly. The server is started automatically by
// [sitepulse.Monitor.Start].
package server
