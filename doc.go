// Package sitepulse provides an embeddable uptime monitor for a short,
// editable list of HTTP endpoints, with a live dashboard.
//
// A [Monitor] probes every registered endpoint on a fixed cadence, keeps a
// small rolling window of outcomes and response times per endpoint, and
// pushes every change to connected dashboard clients. Endpoints can be
// added, replaced, removed and reordered while the monitor runs.
//
// # Quick Start
//
//	m, _ := sitepulse.New(sitepulse.WithSeedURLs("https://example.com"))
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	m.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// Monitor uses the functional options pattern for configuration:
//
//	m, err := sitepulse.New(
//	    sitepulse.WithSeedURLs("https://a.example.com", "https://b.example.com"),
//	    sitepulse.WithPollingInterval(30 * time.Second),
//	    sitepulse.WithProbeTimeout(5 * time.Second),
//	    sitepulse.WithWindowSize(10),
//	    sitepulse.WithPort(9090),
//	)
//
// Many similar URLs can be generated with [NewURLGrid].
//
// # Outcomes
//
// A probe is a GET request. Any HTTP response counts as [OutcomeHealthy],
// whatever its status code; refused connections, DNS failures and timeouts
// count as [OutcomeUnhealthy]. Endpoints are identified by their normalized
// URL: scheme and host lowercased, default port, fragment and trailing
// slash removed.
//
// # Architecture
//
// Monitor consists of several internal packages (under internal/):
//
//   - internal/store: Endpoint registry and bounded rolling metrics
//   - internal/poller: HTTP prober and the sweep scheduler
//   - internal/publish: Event fan-out to stream subscribers
//   - internal/sysinfo: Host memory, load and uptime sampling
//   - internal/metrics: Prometheus export of probe and host data
//   - internal/server: Dashboard, REST API, SSE and WebSocket streams
//   - dashboard: Embedded web UI assets
//
// The internal packages are not part of the public API and may change
// without notice.
package sitepulse
