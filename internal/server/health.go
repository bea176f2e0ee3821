package server

import (
	"net/http"
	"time"

	"github.com/alexliesenfeld/health"
)

// healthHandler serves the liveness report for the configured checks.
//
// With no checks configured the report is always up.
func (s *Server) healthHandler() http.Handler {
	opts := []health.CheckerOption{
		health.WithTimeout(5 * time.Second),
		health.WithCacheDuration(time.Second),
	}
	for _, c := range s.checks {
		opts = append(opts, health.WithCheck(c))
	}
	return health.NewHandler(health.NewChecker(opts...))
}
