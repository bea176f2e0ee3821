package store

import "sync"

// DefaultWindowSize is the number of outcomes kept per endpoint.
const DefaultWindowSize = 5

// entry is the rolling state for one endpoint. Both windows always hold the
// same number of values.
type entry struct {
	gen           uint64
	history       *Window[Outcome]
	responseTimes *Window[int64]
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{
		History:       e.history.Values(),
		ResponseTimes: e.responseTimes.Values(),
	}
}

// MetricsStore keeps bounded rolling metrics for each registered endpoint.
//
// Entries are created and deleted by [Registry]; the poller only appends to
// existing entries via [MetricsStore.RecordOutcome]. A single mutex guards
// every entry, so the eviction and append of one outcome never interleave
// with another write for the same endpoint.
type MetricsStore struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	capacity int
	nextGen  uint64
}

// NewMetricsStore creates an empty store whose windows hold capacity values.
// A capacity below 1 falls back to [DefaultWindowSize].
func NewMetricsStore(capacity int) *MetricsStore {
	if capacity < 1 {
		capacity = DefaultWindowSize
	}
	return &MetricsStore{
		entries:  make(map[string]*entry),
		capacity: capacity,
	}
}

// Capacity returns the window size for every entry.
func (m *MetricsStore) Capacity() int {
	return m.capacity
}

// RecordOutcome appends the outcome and elapsed time for id and returns the
// resulting snapshot.
//
// If id has no entry (never registered, or removed while its probe was in
// flight) nothing changes and ok is false. The same holds when a non-zero
// outcome.Generation names an entry that has since been replaced. The entry
// is never recreated here.
func (m *MetricsStore) RecordOutcome(id string, outcome ProbeOutcome) (snap Snapshot, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.entries[id]
	if !exists {
		return Snapshot{}, false
	}
	if outcome.Generation != 0 && outcome.Generation != e.gen {
		return Snapshot{}, false
	}

	elapsed := outcome.ElapsedMs
	if elapsed < 0 {
		elapsed = 0
	}
	e.history.Push(outcome.Outcome())
	e.responseTimes.Push(elapsed)

	return e.snapshot(), true
}

// Generation returns the generation of the entry for id. Each time id is
// registered it gets a new, larger generation.
func (m *MetricsStore) Generation(id string) (uint64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, exists := m.entries[id]
	if !exists {
		return 0, false
	}
	return e.gen, true
}

// Snapshot returns a copy of the metrics for id.
func (m *MetricsStore) Snapshot(id string) (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, exists := m.entries[id]
	if !exists {
		return Snapshot{}, false
	}
	return e.snapshot(), true
}

// LatestOutcome returns the most recent outcome for id, or [Unknown] if the
// endpoint has no history or no entry.
func (m *MetricsStore) LatestOutcome(id string) Outcome {
	snap, ok := m.Snapshot(id)
	if !ok {
		return Unknown
	}
	return snap.Latest()
}

// Len returns the number of entries.
func (m *MetricsStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// createEntry adds an empty entry for id, replacing any existing one.
func (m *MetricsStore) createEntry(id string) {
	m.mu.Lock()
	m.nextGen++
	m.entries[id] = &entry{
		gen:           m.nextGen,
		history:       NewWindow[Outcome](m.capacity),
		responseTimes: NewWindow[int64](m.capacity),
	}
	m.mu.Unlock()
}

// deleteEntry removes the entry for id, if any.
func (m *MetricsStore) deleteEntry(id string) {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
}
