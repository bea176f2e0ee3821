package sitepulse

import (
	"context"
	"fmt"
	"time"

	"github.com/alexliesenfeld/health"
)

// staleSweepFactor is how many polling intervals may pass without a
// completed sweep before the scheduler reports unhealthy.
const staleSweepFactor = 3

// sweepProgress is the part of the scheduler the liveness check reads.
type sweepProgress interface {
	LastSweepAt() time.Time
	ActiveSweeps() int
}

// schedulerCheck reports the scheduler down when no sweep is running and
// none has completed within staleSweepFactor polling intervals of since.
func schedulerCheck(s sweepProgress, interval time.Duration, since time.Time) health.Check {
	return health.Check{
		Name: "scheduler",
		Check: func(context.Context) error {
			if s.ActiveSweeps() > 0 {
				return nil
			}
			last := s.LastSweepAt()
			if last.IsZero() {
				last = since
			}
			if age := time.Since(last); age > staleSweepFactor*interval {
				return fmt.Errorf("no sweep completed in %s", age.Round(time.Millisecond))
			}
			return nil
		},
	}
}
