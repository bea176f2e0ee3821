package sitepulse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexliesenfeld/health"
	"golang.org/x/sync/errgroup"

	"github.com/jpalmerr/sitepulse/dashboard"
	"github.com/jpalmerr/sitepulse/internal/metrics"
	"github.com/jpalmerr/sitepulse/internal/poller"
	"github.com/jpalmerr/sitepulse/internal/publish"
	"github.com/jpalmerr/sitepulse/internal/server"
	"github.com/jpalmerr/sitepulse/internal/store"
	"github.com/jpalmerr/sitepulse/internal/sysinfo"
)

const (
	defaultPollingInterval = 10 * time.Second
	defaultHealthInterval  = 10 * time.Second
	defaultProbeTimeout    = 10 * time.Second
	defaultPort            = 3000
	defaultMaxConcurrency  = 1
)

var (
	// ErrInvalidURL is returned when a URL is not an absolute http or https URL.
	ErrInvalidURL = store.ErrInvalidURL

	// ErrDuplicateEndpoint is returned when a URL normalizes to an endpoint
	// that is already registered.
	ErrDuplicateEndpoint = store.ErrDuplicateEndpoint

	// ErrNotFound is returned when an endpoint or position does not exist.
	ErrNotFound = store.ErrNotFound
)

// Monitor is the main orchestrator for endpoint probing and dashboard serving.
//
// Monitor owns the endpoint registry and its rolling metrics. It is created
// using [New] with functional options and started with [Monitor.Start]. The
// registry may be changed before and while the monitor runs, either through
// the methods below or through the dashboard's HTTP API.
//
// The typical lifecycle is:
//
//	m, err := sitepulse.New(sitepulse.WithSeedURLs("https://example.com"))
//	if err != nil {
//	    slog.Error("failed to create monitor", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	m.Start(ctx) // blocks until context cancelled
type Monitor struct {
	title           string
	registry        *store.Registry
	pollingInterval time.Duration
	healthInterval  time.Duration
	probeTimeout    time.Duration
	port            int
	maxConcurrency  int
	logger          *slog.Logger
	callbacks       *callbackPublisher
}

// New creates a new [Monitor] instance with the given options.
//
// Defaults:
//   - Polling interval: 10 seconds
//   - Health sample interval: 10 seconds
//   - Window size: 5
//   - Probe timeout: 10 seconds
//   - Max concurrency: 1
//   - Port: 3000
//
// Returns an error if any option is invalid or a seed URL cannot be
// registered.
func New(opts ...Option) (*Monitor, error) {
	cfg := &monitorConfig{
		pollingInterval: defaultPollingInterval,
		healthInterval:  defaultHealthInterval,
		windowSize:      store.DefaultWindowSize,
		probeTimeout:    defaultProbeTimeout,
		maxConcurrency:  defaultMaxConcurrency,
		port:            defaultPort,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.port < 1 || cfg.port > 65535 {
		return nil, fmt.Errorf("port must be between 1 and 65535, got %d", cfg.port)
	}

	registry, err := store.NewRegistry(store.NewMetricsStore(cfg.windowSize), cfg.seedURLs...)
	if err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Monitor{
		title:           cfg.title,
		registry:        registry,
		pollingInterval: cfg.pollingInterval,
		healthInterval:  cfg.healthInterval,
		probeTimeout:    cfg.probeTimeout,
		port:            cfg.port,
		maxConcurrency:  cfg.maxConcurrency,
		logger:          logger,
		callbacks: &callbackPublisher{
			status: cfg.statusCallbacks,
			health: cfg.systemHealthCallbacks,
			logger: logger,
		},
	}, nil
}

// Start begins probing endpoints, sampling host health and serving the
// dashboard.
//
// Start is a blocking call that runs until the provided context is cancelled.
// During execution:
//
//   - The HTTP server starts on the configured port
//   - All registered endpoints are swept immediately, then every polling interval
//   - Host resources are sampled immediately, then every health interval
//   - Every recorded probe, health sample and completed sweep is streamed to
//     dashboard clients
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server fails to start.
func (m *Monitor) Start(ctx context.Context) error {
	m.logger.Info("sitepulse starting", "endpoint_count", m.registry.Len())
	m.logger.Info("polling configured",
		"interval", m.pollingInterval.String(),
		"timeout", m.probeTimeout.String(),
		"window_size", m.registry.Metrics().Capacity(),
	)
	m.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", m.port))

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	hub := publish.NewHub(publish.DefaultBufferSize, m.logger)
	collector := metrics.NewCollector(hub.SubscriberCount)
	pub := publish.Multi{hub, collector, m.callbacks}

	scheduler := poller.NewScheduler(m.registry, m.registry.Metrics(), pub, poller.Config{
		Interval:       m.pollingInterval,
		Timeout:        m.probeTimeout,
		MaxConcurrency: m.maxConcurrency,
	}, m.logger)
	sampler := sysinfo.NewSampler("", m.logger)

	httpServer := server.NewServer(m.registry, hub, server.Config{
		Port:    m.port,
		Title:   m.title,
		Assets:  dashboard.Assets,
		Metrics: collector.Handler(),
		Checks:  []health.Check{schedulerCheck(scheduler, m.pollingInterval, time.Now())},
	}, m.logger)
	if err := httpServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scheduler.Start(gctx)
		<-gctx.Done()
		scheduler.Stop() // waits for in-flight sweeps
		return nil
	})
	g.Go(func() error {
		sampler.Run(gctx, m.healthInterval, pub.PublishSystemHealth)
		return nil
	})

	err := g.Wait()
	m.logger.Info("sitepulse stopped")
	return err
}

// AddEndpoint normalizes rawURL and registers it at the end of the list.
//
// Returns the normalized identifier. Fails with [ErrInvalidURL] or
// [ErrDuplicateEndpoint].
func (m *Monitor) AddEndpoint(rawURL string) (string, error) {
	return m.registry.Add(rawURL)
}

// RemoveEndpoint unregisters the endpoint and discards its history.
// Fails with [ErrNotFound].
func (m *Monitor) RemoveEndpoint(rawURL string) (string, error) {
	return m.registry.RemoveByIdentifier(rawURL)
}

// UpdateEndpoint replaces the endpoint at pos with rawURL. The replaced
// endpoint's history is discarded.
func (m *Monitor) UpdateEndpoint(pos int, rawURL string) (string, error) {
	return m.registry.UpdateAt(pos, rawURL)
}

// MoveEndpoint moves the endpoint at from to position to.
func (m *Monitor) MoveEndpoint(from, to int) error {
	return m.registry.Move(from, to)
}

// Endpoints returns the registered identifiers in display order.
//
// The returned slice is a copy; modifying it does not affect the Monitor.
func (m *Monitor) Endpoints() []string {
	return m.registry.List()
}

// Statuses returns every registered endpoint with its current rolling
// metrics, in display order.
func (m *Monitor) Statuses() []EndpointStatus {
	internal := m.registry.Statuses()
	out := make([]EndpointStatus, len(internal))
	for i, s := range internal {
		out[i] = toPublicEndpointStatus(s)
	}
	return out
}

// Port returns the configured HTTP port for the dashboard server.
func (m *Monitor) Port() int {
	return m.port
}

// PollingInterval returns the configured interval between sweep starts.
func (m *Monitor) PollingInterval() time.Duration {
	return m.pollingInterval
}
