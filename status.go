package sitepulse

import (
	"slices"
	"time"

	"github.com/jpalmerr/sitepulse/internal/publish"
	"github.com/jpalmerr/sitepulse/internal/store"
	"github.com/jpalmerr/sitepulse/internal/sysinfo"
)

// Outcome is the classification of a single probe.
//
// Outcome is a string type so that history serializes to readable JSON and
// logs. Any HTTP response, whatever its status code, counts as
// [OutcomeHealthy]; only network failures and timeouts are
// [OutcomeUnhealthy].
type Outcome string

const (
	// OutcomeHealthy means the endpoint answered before the probe timeout.
	OutcomeHealthy Outcome = Outcome(store.Healthy)

	// OutcomeUnhealthy means the probe failed: refusal, DNS failure,
	// protocol error or timeout.
	OutcomeUnhealthy Outcome = Outcome(store.Unhealthy)

	// OutcomeUnknown is reported for an endpoint that has not been probed yet.
	OutcomeUnknown Outcome = Outcome(store.Unknown)
)

// String returns the string representation of the outcome.
// This implements the fmt.Stringer interface.
func (o Outcome) String() string {
	return string(o)
}

// StatusUpdate is the rolling state of one endpoint right after a probe.
//
// History and ResponseTimes are index-aligned and hold at most the
// configured window size, oldest first. StatusUpdate is a copy; callers may
// keep or modify it.
type StatusUpdate struct {
	// URL is the normalized endpoint identifier.
	URL string

	// History holds the most recent outcomes.
	History []Outcome

	// ResponseTimes holds the elapsed time of each probe in History, in
	// milliseconds.
	ResponseTimes []int64
}

// Latest returns the most recent outcome, or [OutcomeUnknown] if History is
// empty.
func (u StatusUpdate) Latest() Outcome {
	if len(u.History) == 0 {
		return OutcomeUnknown
	}
	return u.History[len(u.History)-1]
}

// EndpointStatus pairs a registered endpoint with its current metrics.
type EndpointStatus struct {
	URL           string
	History       []Outcome
	ResponseTimes []int64
	HealthStatus  Outcome
}

// SystemHealth is one sample of the monitor host's resources.
type SystemHealth struct {
	// UsedMemory, FreeMemory and TotalMemory are in bytes.
	UsedMemory  uint64
	FreeMemory  uint64
	TotalMemory uint64

	// LoadAverage holds the 1, 5 and 15 minute load averages.
	LoadAverage [3]float64

	// Uptime is how long the monitor process has been running.
	Uptime time.Duration
}

func toOutcomes(in []store.Outcome) []Outcome {
	out := make([]Outcome, len(in))
	for i, o := range in {
		out[i] = Outcome(o)
	}
	return out
}

// toPublicStatusUpdate converts an internal update to the public type.
// Creates copies of the slices so callbacks cannot race with publishers.
func toPublicStatusUpdate(u publish.StatusUpdate) StatusUpdate {
	return StatusUpdate{
		URL:           u.URL,
		History:       toOutcomes(u.History),
		ResponseTimes: slices.Clone(u.ResponseTimes),
	}
}

func toPublicEndpointStatus(s store.EndpointStatus) EndpointStatus {
	return EndpointStatus{
		URL:           s.URL,
		History:       toOutcomes(s.History),
		ResponseTimes: slices.Clone(s.ResponseTimes),
		HealthStatus:  Outcome(s.HealthStatus),
	}
}

func toPublicSystemHealth(h sysinfo.SystemHealth) SystemHealth {
	return SystemHealth{
		UsedMemory:  h.UsedMemory,
		FreeMemory:  h.FreeMemory,
		TotalMemory: h.TotalMemory,
		LoadAverage: h.CPULoad,
		Uptime:      time.Duration(h.Uptime * float64(time.Second)),
	}
}
