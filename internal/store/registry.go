package store

import (
	"fmt"
	"slices"
	"sync"
)

// Registry is the ordered, duplicate-free list of monitored endpoints.
//
// Insertion order is preserved and drives display order. Every mutation
// creates or deletes the matching [MetricsStore] entry while holding the
// registry lock, so the registry and the metrics store always agree on which
// endpoints exist. Lock order is registry, then metrics; the metrics store
// never calls back into the registry.
type Registry struct {
	mu        sync.RWMutex
	endpoints []string
	metrics   *MetricsStore
}

// NewRegistry creates a Registry backed by metrics and registers each seed
// URL in order.
//
// Returns an error wrapping [ErrInvalidURL] or [ErrDuplicateEndpoint] if a
// seed cannot be registered.
func NewRegistry(metrics *MetricsStore, seeds ...string) (*Registry, error) {
	r := &Registry{
		endpoints: make([]string, 0, len(seeds)),
		metrics:   metrics,
	}
	for i, raw := range seeds {
		if _, err := r.Add(raw); err != nil {
			return nil, fmt.Errorf("seed[%d]: %w", i, err)
		}
	}
	return r, nil
}

// Metrics returns the metrics store whose entries this registry manages.
func (r *Registry) Metrics() *MetricsStore {
	return r.metrics
}

// List returns a copy of the registered identifiers in order.
//
// The copy is safe to iterate while other goroutines mutate the registry.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.endpoints)
}

// Len returns the number of registered endpoints.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.endpoints)
}

// Contains reports whether id is registered. id must already be normalized.
func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.endpoints, id)
}

// Add normalizes rawURL, appends it and creates its empty metrics entry.
//
// Fails with [ErrInvalidURL] if rawURL is not an absolute http(s) URL and
// with [ErrDuplicateEndpoint] if the normalized form is already registered.
// On failure nothing is changed.
func (r *Registry) Add(rawURL string) (string, error) {
	id, err := Normalize(rawURL)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.endpoints, id) {
		return "", fmt.Errorf("%w: %s", ErrDuplicateEndpoint, id)
	}
	r.endpoints = append(r.endpoints, id)
	r.metrics.createEntry(id)
	return id, nil
}

// RemoveByIdentifier unregisters id and deletes its metrics entry.
//
// id is normalized before lookup, so any spelling of a registered URL works.
// Fails with [ErrNotFound] if it is not registered.
func (r *Registry) RemoveByIdentifier(id string) (string, error) {
	normalized, err := Normalize(id)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.Index(r.endpoints, normalized)
	if idx < 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, normalized)
	}
	r.endpoints = slices.Delete(r.endpoints, idx, idx+1)
	r.metrics.deleteEntry(normalized)
	return normalized, nil
}

// UpdateAt replaces the identifier at pos with the normalized rawURL.
//
// The old identifier's history is discarded and the new one starts with an
// empty entry. Setting a position to the identifier it already holds changes
// nothing. Fails with [ErrNotFound] if pos is out of range, [ErrInvalidURL]
// if rawURL does not normalize, and [ErrDuplicateEndpoint] if the new
// identifier is registered at another position.
func (r *Registry) UpdateAt(pos int, rawURL string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pos < 0 || pos >= len(r.endpoints) {
		return "", fmt.Errorf("%w: position %d", ErrNotFound, pos)
	}

	id, err := Normalize(rawURL)
	if err != nil {
		return "", err
	}

	old := r.endpoints[pos]
	if old == id {
		return id, nil
	}
	if slices.Contains(r.endpoints, id) {
		return "", fmt.Errorf("%w: %s", ErrDuplicateEndpoint, id)
	}

	r.endpoints[pos] = id
	r.metrics.deleteEntry(old)
	r.metrics.createEntry(id)
	return id, nil
}

// Move removes the identifier at from and reinserts it at to, shifting the
// endpoints in between. Fails with [ErrNotFound] if either index is out of
// range.
func (r *Registry) Move(from, to int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.endpoints)
	if from < 0 || from >= n {
		return fmt.Errorf("%w: position %d", ErrNotFound, from)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("%w: position %d", ErrNotFound, to)
	}
	if from == to {
		return nil
	}

	id := r.endpoints[from]
	r.endpoints = slices.Delete(r.endpoints, from, from+1)
	r.endpoints = slices.Insert(r.endpoints, to, id)
	return nil
}

// Statuses returns every registered endpoint with its current metrics, in
// registry order.
func (r *Registry) Statuses() []EndpointStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]EndpointStatus, 0, len(r.endpoints))
	for _, id := range r.endpoints {
		snap, _ := r.metrics.Snapshot(id)
		out = append(out, EndpointStatus{
			URL:           id,
			History:       snap.History,
			ResponseTimes: snap.ResponseTimes,
			HealthStatus:  snap.Latest(),
		})
	}
	return out
}
