package sitepulse

import (
	"errors"
	"log/slog"
	"time"
)

// monitorConfig holds mutable state during Monitor construction.
type monitorConfig struct {
	title                 string
	seedURLs              []string
	pollingInterval       time.Duration
	healthInterval        time.Duration
	windowSize            int
	probeTimeout          time.Duration
	maxConcurrency        int
	port                  int
	logger                *slog.Logger
	statusCallbacks       []func(StatusUpdate)
	systemHealthCallbacks []func(SystemHealth)
}

// Option is a function that configures a [Monitor] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*monitorConfig) error

// WithSeedURLs adds endpoints to register at startup, in order.
//
// Can be called multiple times. URLs are normalized when [New] registers
// them; [New] fails if one is invalid or duplicates an earlier one. Seeds
// are optional since endpoints can be added while the monitor runs.
//
// Example:
//
//	m, err := sitepulse.New(
//	    sitepulse.WithSeedURLs("https://example.com", "http://localhost:8000"),
//	)
func WithSeedURLs(urls ...string) Option {
	return func(cfg *monitorConfig) error {
		cfg.seedURLs = append(cfg.seedURLs, urls...)
		return nil
	}
}

// WithPollingInterval sets the time between sweep starts.
//
// A sweep probes every registered endpoint once. Sweeps are started on a
// fixed cadence; a sweep that outlasts the interval overlaps with the next.
// Defaults to 10 seconds if not specified.
//
// Returns an error if the duration is zero or negative.
func WithPollingInterval(d time.Duration) Option {
	return func(cfg *monitorConfig) error {
		if d <= 0 {
			return errors.New("polling interval must be positive")
		}
		cfg.pollingInterval = d
		return nil
	}
}

// WithHealthInterval sets how often host resources are sampled and
// published. Defaults to 10 seconds if not specified.
//
// Returns an error if the duration is zero or negative.
func WithHealthInterval(d time.Duration) Option {
	return func(cfg *monitorConfig) error {
		if d <= 0 {
			return errors.New("health interval must be positive")
		}
		cfg.healthInterval = d
		return nil
	}
}

// WithWindowSize sets how many recent outcomes are kept per endpoint.
// Defaults to 5 if not specified.
//
// Returns an error if n is zero or negative.
func WithWindowSize(n int) Option {
	return func(cfg *monitorConfig) error {
		if n <= 0 {
			return errors.New("window size must be positive")
		}
		cfg.windowSize = n
		return nil
	}
}

// WithProbeTimeout bounds each probe. A probe that has not received a
// response when the timeout elapses is recorded as [OutcomeUnhealthy].
// Defaults to 10 seconds if not specified.
//
// Returns an error if the duration is zero or negative.
func WithProbeTimeout(d time.Duration) Option {
	return func(cfg *monitorConfig) error {
		if d <= 0 {
			return errors.New("probe timeout must be positive")
		}
		cfg.probeTimeout = d
		return nil
	}
}

// WithMaxConcurrency sets the maximum number of probes in flight per sweep.
//
// The default of 1 probes endpoints one after another in registry order.
// Larger values use a worker pool, so sweeps finish sooner but status
// updates within a sweep arrive in completion order.
//
// Returns an error if the value is zero or negative.
func WithMaxConcurrency(n int) Option {
	return func(cfg *monitorConfig) error {
		if n <= 0 {
			return errors.New("max concurrency must be positive")
		}
		cfg.maxConcurrency = n
		return nil
	}
}

// WithPort sets the HTTP port for the dashboard server.
//
// The dashboard UI and API will be available at http://localhost:<port>.
// Defaults to 3000 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *monitorConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithTitle sets the dashboard title displayed in the browser tab and header.
//
// If not specified, defaults to "SitePulse".
func WithTitle(title string) Option {
	return func(cfg *monitorConfig) error {
		cfg.title = title
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Monitor instance.
//
// If not specified, [slog.Default] is used.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
//	m, err := sitepulse.New(sitepulse.WithLogger(logger))
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *monitorConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithStatusCallback registers a function to be called after every recorded
// probe with the endpoint's updated rolling state.
//
// Multiple callbacks may be registered; they execute in registration order.
// Probes for endpoints removed while in flight do not trigger callbacks.
//
// IMPORTANT: Callbacks must be non-blocking. They run on the sweep
// goroutine, so a slow callback delays the remaining probes of that sweep.
// Panics within callbacks are recovered and logged.
//
// Example:
//
//	m, err := sitepulse.New(
//	    sitepulse.WithSeedURLs("https://example.com"),
//	    sitepulse.WithStatusCallback(func(u sitepulse.StatusUpdate) {
//	        if u.Latest() == sitepulse.OutcomeUnhealthy {
//	            log.Printf("ALERT: %s is down!", u.URL)
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithStatusCallback(cb func(StatusUpdate)) Option {
	return func(cfg *monitorConfig) error {
		if cb == nil {
			return nil
		}
		cfg.statusCallbacks = append(cfg.statusCallbacks, cb)
		return nil
	}
}

// WithSystemHealthCallback registers a function to be called with every
// host resource sample. The same rules as [WithStatusCallback] apply.
//
// Nil callbacks are silently ignored.
func WithSystemHealthCallback(cb func(SystemHealth)) Option {
	return func(cfg *monitorConfig) error {
		if cb == nil {
			return nil
		}
		cfg.systemHealthCallbacks = append(cfg.systemHealthCallbacks, cb)
		return nil
	}
}
