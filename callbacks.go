package sitepulse

import (
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/jpalmerr/sitepulse/internal/publish"
	"github.com/jpalmerr/sitepulse/internal/sysinfo"
)

// callbackPublisher adapts SDK callbacks to [publish.Publisher].
type callbackPublisher struct {
	status []func(StatusUpdate)
	health []func(SystemHealth)
	logger *slog.Logger
}

func (p *callbackPublisher) PublishStatusUpdate(update publish.StatusUpdate) {
	if len(p.status) == 0 {
		return
	}
	public := toPublicStatusUpdate(update)
	for _, cb := range p.status {
		invokeCallbackSafe(p.logger, "status", cb, public)
	}
}

func (p *callbackPublisher) PublishSystemHealth(health sysinfo.SystemHealth) {
	if len(p.health) == 0 {
		return
	}
	public := toPublicSystemHealth(health)
	for _, cb := range p.health {
		invokeCallbackSafe(p.logger, "system health", cb, public)
	}
}

func (p *callbackPublisher) PublishAggregateHealth([]publish.AggregateEntry) {}

// invokeCallbackSafe calls cb with panic recovery.
// Panics are logged with a correlation ID but do not propagate.
func invokeCallbackSafe[T any](logger *slog.Logger, kind string, cb func(T), v T) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(kind+" callback panicked",
				"panic", r,
				"correlation_id", uuid.New().String(),
				"stack", string(debug.Stack()),
			)
		}
	}()
	cb(v)
}
