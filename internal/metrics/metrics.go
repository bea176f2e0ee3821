// Package metrics exports monitor state in the Prometheus exposition format.
//
// [Collector] is a [publish.Publisher]: it observes the same updates as
// dashboard subscribers and mirrors them into per-endpoint and host gauges on
// a private registry served by [Collector.Handler].
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jpalmerr/sitepulse/internal/publish"
	"github.com/jpalmerr/sitepulse/internal/store"
	"github.com/jpalmerr/sitepulse/internal/sysinfo"
)

const namespace = "sitepulse"

// Collector mirrors published updates into Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	probes      *prometheus.CounterVec
	up          *prometheus.GaugeVec
	latency     *prometheus.GaugeVec
	windowUp    *prometheus.GaugeVec
	endpoints   prometheus.Gauge
	sweeps      prometheus.Counter
	memory      *prometheus.GaugeVec
	load        *prometheus.GaugeVec
	uptime      prometheus.Gauge
	subscribers prometheus.GaugeFunc

	mu    sync.Mutex
	known map[string]struct{}
}

// NewCollector creates a Collector with its own registry. If subscribers is
// non-nil it is exported as the live subscriber gauge.
func NewCollector(subscribers func() int) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Probes recorded, by endpoint and outcome.",
		}, []string{"url", "outcome"}),
		up: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "endpoint_up",
			Help:      "1 if the latest probe of the endpoint was healthy, 0 otherwise.",
		}, []string{"url"}),
		latency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "endpoint_response_time_milliseconds",
			Help:      "Elapsed time of the latest probe of the endpoint.",
		}, []string{"url"}),
		windowUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "endpoint_window_healthy_ratio",
			Help:      "Share of healthy outcomes in the endpoint's rolling window.",
		}, []string{"url"}),
		endpoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "endpoints",
			Help:      "Endpoints registered at the end of the last sweep.",
		}),
		sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeps_total",
			Help:      "Completed sweeps.",
		}),
		memory: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "host_memory_bytes",
			Help:      "Host memory by state (used, free, total).",
		}, []string{"state"}),
		load: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "host_load_average",
			Help:      "Host load average by window.",
		}, []string{"window"}),
		uptime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_uptime_seconds",
			Help:      "Seconds since the monitor process started.",
		}),
		known: make(map[string]struct{}),
	}

	c.registry.MustRegister(
		c.probes, c.up, c.latency, c.windowUp, c.endpoints, c.sweeps,
		c.memory, c.load, c.uptime,
		collectors.NewGoCollector(),
	)

	if subscribers != nil {
		c.subscribers = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_subscribers",
			Help:      "Connected SSE and WebSocket subscribers.",
		}, func() float64 { return float64(subscribers()) })
		c.registry.MustRegister(c.subscribers)
	}

	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// PublishStatusUpdate implements [publish.Publisher].
func (c *Collector) PublishStatusUpdate(update publish.StatusUpdate) {
	if len(update.History) == 0 {
		return
	}
	latest := update.History[len(update.History)-1]

	c.mu.Lock()
	c.known[update.URL] = struct{}{}
	c.mu.Unlock()

	c.probes.WithLabelValues(update.URL, latest.String()).Inc()
	c.up.WithLabelValues(update.URL).Set(boolToFloat(latest == store.Healthy))
	if n := len(update.ResponseTimes); n > 0 {
		c.latency.WithLabelValues(update.URL).Set(float64(update.ResponseTimes[n-1]))
	}

	healthy := 0
	for _, o := range update.History {
		if o == store.Healthy {
			healthy++
		}
	}
	c.windowUp.WithLabelValues(update.URL).Set(float64(healthy) / float64(len(update.History)))
}

// PublishSystemHealth implements [publish.Publisher].
func (c *Collector) PublishSystemHealth(health sysinfo.SystemHealth) {
	c.memory.WithLabelValues("used").Set(float64(health.UsedMemory))
	c.memory.WithLabelValues("free").Set(float64(health.FreeMemory))
	c.memory.WithLabelValues("total").Set(float64(health.TotalMemory))
	c.load.WithLabelValues("1m").Set(health.CPULoad[0])
	c.load.WithLabelValues("5m").Set(health.CPULoad[1])
	c.load.WithLabelValues("15m").Set(health.CPULoad[2])
	c.uptime.Set(health.Uptime)
}

// PublishAggregateHealth implements [publish.Publisher].
//
// Series for endpoints missing from entries have been unregistered and are
// deleted.
func (c *Collector) PublishAggregateHealth(entries []publish.AggregateEntry) {
	c.sweeps.Inc()
	c.endpoints.Set(float64(len(entries)))

	current := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		current[e.URL] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for url := range c.known {
		if _, ok := current[url]; ok {
			continue
		}
		delete(c.known, url)
		labels := prometheus.Labels{"url": url}
		c.probes.DeletePartialMatch(labels)
		c.up.Delete(labels)
		c.latency.Delete(labels)
		c.windowUp.Delete(labels)
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
