package poller

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/sitepulse/internal/publish"
	"github.com/jpalmerr/sitepulse/internal/store"
)

// Targets supplies the endpoints to probe. [store.Registry] implements it.
type Targets interface {
	List() []string
	Statuses() []store.EndpointStatus
}

// Recorder reduces probe outcomes into rolling metrics.
// [store.MetricsStore] implements it.
type Recorder interface {
	Generation(id string) (uint64, bool)
	RecordOutcome(id string, outcome store.ProbeOutcome) (store.Snapshot, bool)
}

// Publisher is the subset of [publish.Publisher] a sweep emits to.
type Publisher interface {
	PublishStatusUpdate(update publish.StatusUpdate)
	PublishAggregateHealth(entries []publish.AggregateEntry)
}

// Config holds the scheduler's tunables.
type Config struct {
	// Interval is the time between sweep starts.
	Interval time.Duration

	// Timeout bounds each probe.
	Timeout time.Duration

	// MaxConcurrency is the number of probes in flight per sweep. 1 probes
	// endpoints sequentially in registry order.
	MaxConcurrency int

	// Prober overrides the HTTP client. If nil, a [Client] is created and
	// closed on [Scheduler.Stop].
	Prober Prober
}

// Scheduler runs sweeps over the registered endpoints on a fixed cadence.
//
// Sweeps are started on a wall-clock ticker and each runs in its own
// goroutine, so a sweep that outlasts the interval overlaps with the next.
// Overlap is logged and otherwise allowed; the metrics store serializes the
// writes.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use.
type Scheduler struct {
	targets        Targets
	recorder       Recorder
	publisher      Publisher
	prober         Prober
	client         *Client // owned, nil when a custom Prober is set
	interval       time.Duration
	timeout        time.Duration
	maxConcurrency int
	logger         *slog.Logger
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool

	activeSweeps atomic.Int32
	lastSweepAt  atomic.Int64 // unix nanos of the last completed sweep
}

// NewScheduler creates a new [Scheduler].
//
// The scheduler must be started with [Scheduler.Start] and stopped with
// [Scheduler.Stop]. A MaxConcurrency below 1 is treated as 1.
func NewScheduler(targets Targets, recorder Recorder, publisher Publisher, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		targets:        targets,
		recorder:       recorder,
		publisher:      publisher,
		prober:         cfg.Prober,
		interval:       cfg.Interval,
		timeout:        cfg.Timeout,
		maxConcurrency: cfg.MaxConcurrency,
		logger:         logger,
	}
	if s.prober == nil {
		s.client = NewClient()
		s.prober = s.client
	}
	return s
}

// Start begins the sweep loop in a background goroutine.
//
// Start is non-blocking and returns immediately. The scheduler will:
//  1. Sweep all endpoints immediately
//  2. Start another sweep on every tick of the interval
//  3. Continue until [Scheduler.Stop] is called or the context is cancelled
//
// If ctx is nil, context.Background() is used as the parent context.
// Start is idempotent; subsequent calls after the first are no-ops.
// If Stop was called before Start, Start is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	sweepCtx := s.ctx // capture under lock to avoid race
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		s.launchSweep(sweepCtx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				s.launchSweep(sweepCtx)
			}
		}
	}()
}

// Stop halts the scheduler and waits for all goroutines to complete.
//
// Stop cancels the scheduler's context and blocks until the sweep loop and
// every in-flight sweep have returned. Probes cut short by the cancellation
// are not recorded.
//
// Stop is idempotent and safe to call multiple times. Calling Stop before
// Start is a safe no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		if s.cancel != nil {
			s.cancel()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()

	// clean up client connections after all goroutines complete
	if s.client != nil {
		s.client.Close()
	}
}

// LastSweepAt returns when the most recent sweep completed, or the zero time
// if none has.
func (s *Scheduler) LastSweepAt() time.Time {
	ns := s.lastSweepAt.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// ActiveSweeps returns the number of sweeps currently running.
func (s *Scheduler) ActiveSweeps() int {
	return int(s.activeSweeps.Load())
}

// launchSweep runs one sweep in its own goroutine, tracked by s.wg.
func (s *Scheduler) launchSweep(ctx context.Context) {
	if n := s.activeSweeps.Load(); n > 0 {
		s.logger.Warn("sweep overlaps a previous sweep still in flight",
			"active_sweeps", n,
			"interval", s.interval.String(),
		)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Sweep(ctx)
	}()
}

// Sweep probes every endpoint registered at the time of the call, records
// each outcome and publishes a status update for it, then publishes the
// aggregate health of all registered endpoints.
//
// Endpoints added during the sweep are picked up by the next one. Endpoints
// removed (or removed and re-added) while their probe is in flight produce
// no record and no update.
// Sweep blocks until all probes have finished or ctx is cancelled; a
// cancelled sweep skips the aggregate.
func (s *Scheduler) Sweep(ctx context.Context) {
	s.activeSweeps.Add(1)
	defer s.activeSweeps.Add(-1)

	start := time.Now()
	ids := s.targets.List()

	if s.maxConcurrency == 1 {
		for _, id := range ids {
			if ctx.Err() != nil {
				break
			}
			s.probeAndRecord(ctx, id)
		}
	} else {
		s.probeAll(ctx, ids)
	}

	if ctx.Err() != nil {
		return
	}

	s.publisher.PublishAggregateHealth(s.aggregate())
	s.lastSweepAt.Store(time.Now().UnixNano())

	s.logger.Debug("sweep complete",
		"endpoints", len(ids),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// probeAll probes ids concurrently, respecting maxConcurrency.
func (s *Scheduler) probeAll(ctx context.Context, ids []string) {
	jobs := make(chan string, len(ids))

	workers := s.maxConcurrency
	if workers > len(ids) {
		workers = len(ids)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				if ctx.Err() != nil {
					return
				}
				s.probeAndRecord(ctx, id)
			}
		}()
	}

	for _, id := range ids {
		jobs <- id
	}
	close(jobs)

	wg.Wait()
}

// probeAndRecord probes one endpoint and, if the entry it was dispatched
// against is still registered, records the outcome and publishes the
// resulting metrics.
func (s *Scheduler) probeAndRecord(ctx context.Context, id string) {
	gen, ok := s.recorder.Generation(id)
	if !ok {
		s.logger.Debug("endpoint removed before probe, skipping", "url", id)
		return
	}

	outcome := s.safeProbe(ctx, id)
	outcome.Generation = gen

	// the scheduler is stopping; the failure is ours, not the endpoint's
	if ctx.Err() != nil {
		return
	}

	snap, ok := s.recorder.RecordOutcome(id, outcome)
	if !ok {
		s.logger.Debug("endpoint removed or replaced during probe, discarding outcome", "url", id)
		return
	}

	s.logger.Debug("probe complete",
		"url", id,
		"outcome", outcome.Outcome().String(),
		"latency_ms", outcome.ElapsedMs,
	)

	s.publisher.PublishStatusUpdate(publish.StatusUpdate{
		URL:           id,
		History:       snap.History,
		ResponseTimes: snap.ResponseTimes,
	})
}

// safeProbe calls the prober with panic recovery.
// If the prober panics, it logs the full stack trace with a correlation ID
// and returns an unsuccessful outcome.
func (s *Scheduler) safeProbe(ctx context.Context, id string) (outcome store.ProbeOutcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			stack := debug.Stack()

			s.logger.Error("prober panic",
				"correlation_id", correlationID,
				"url", id,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(stack),
			)

			outcome = store.ProbeOutcome{
				Endpoint:  id,
				Success:   false,
				ElapsedMs: time.Since(start).Milliseconds(),
			}
		}
	}()
	return s.prober.Probe(ctx, id, s.timeout)
}

func (s *Scheduler) aggregate() []publish.AggregateEntry {
	statuses := s.targets.Statuses()
	entries := make([]publish.AggregateEntry, 0, len(statuses))
	for _, st := range statuses {
		entries = append(entries, publish.AggregateEntry{
			URL:          st.URL,
			HealthStatus: st.HealthStatus,
		})
	}
	return entries
}
