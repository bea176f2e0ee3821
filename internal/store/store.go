package store

// Outcome is the classification of a single probe.
//
// Outcome is a string type so that history serializes to readable JSON for
// the dashboard and the REST API.
type Outcome string

const (
	// Healthy means the probe received a response before its timeout.
	Healthy Outcome = "healthy"

	// Unhealthy means the probe failed: network error, refusal, DNS failure
	// or timeout.
	Unhealthy Outcome = "unhealthy"

	// Unknown is reported by [MetricsStore.LatestOutcome] when an endpoint
	// has not been probed yet or is not registered.
	Unknown Outcome = "unknown"
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// ProbeOutcome is the transient result of probing one endpoint once.
//
// It is reduced into a [MetricsStore] entry by [MetricsStore.RecordOutcome]
// and not retained otherwise.
type ProbeOutcome struct {
	// Endpoint is the normalized URL that was probed.
	Endpoint string

	// Success is true if any response was received before the timeout.
	Success bool

	// ElapsedMs is the wall-clock time from dispatch to resolution or
	// failure, in milliseconds. Never negative.
	ElapsedMs int64

	// Generation is the entry generation the probe was dispatched against,
	// from [MetricsStore.Generation]. A mismatch means the endpoint was
	// removed and re-registered meanwhile. Zero matches any generation.
	Generation uint64
}

// Outcome maps the probe result onto [Healthy] or [Unhealthy].
func (p ProbeOutcome) Outcome() Outcome {
	if p.Success {
		return Healthy
	}
	return Unhealthy
}

// Snapshot is an immutable copy of one endpoint's rolling metrics.
//
// History and ResponseTimes are index-aligned: ResponseTimes[k] is the
// elapsed time of the probe classified as History[k]. Oldest entries first.
type Snapshot struct {
	History       []Outcome `json:"history"`
	ResponseTimes []int64   `json:"responseTimes"`
}

// Latest returns the most recent outcome, or [Unknown] if History is empty.
func (s Snapshot) Latest() Outcome {
	if len(s.History) == 0 {
		return Unknown
	}
	return s.History[len(s.History)-1]
}

// EndpointStatus pairs a registered endpoint with its current metrics.
//
// EndpointStatus is the representation served by the status query endpoint,
// which late-joining dashboard clients use to catch up before streaming.
type EndpointStatus struct {
	URL           string    `json:"url"`
	History       []Outcome `json:"history"`
	ResponseTimes []int64   `json:"responseTimes"`
	HealthStatus  Outcome   `json:"healthStatus"`
}
