package config

import (
	"fmt"

	"github.com/jpalmerr/sitepulse"
)

// BuildSeedURLs returns the configured endpoints followed by every grid's
// expansion, in order.
//
// Grid URLs are validated like direct endpoints. Duplicates are left for
// [sitepulse.New] to reject, so that the error names the offending seed.
func BuildSeedURLs(cfg *Config) ([]string, error) {
	urls := append([]string(nil), cfg.Endpoints...)

	for i, gc := range cfg.Grids {
		expanded, err := sitepulse.NewURLGrid(
			sitepulse.WithURLTemplate(gc.URLTemplate),
			sitepulse.WithDimensions(gc.Dimensions),
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", gc.label(i), err)
		}
		for _, u := range expanded {
			if err := validateURL(u); err != nil {
				return nil, fmt.Errorf("%s: %w", gc.label(i), err)
			}
		}
		urls = append(urls, expanded...)
	}

	return urls, nil
}

// BuildOptions converts parsed configuration into SDK options.
//
// Callers append their own options (logger, callbacks) before passing the
// result to [sitepulse.New].
func BuildOptions(cfg *Config) ([]sitepulse.Option, error) {
	seeds, err := BuildSeedURLs(cfg)
	if err != nil {
		return nil, err
	}

	return []sitepulse.Option{
		sitepulse.WithTitle(cfg.Title),
		sitepulse.WithPort(cfg.Port),
		sitepulse.WithPollingInterval(cfg.PollInterval.Duration()),
		sitepulse.WithHealthInterval(cfg.HealthInterval.Duration()),
		sitepulse.WithWindowSize(cfg.WindowSize),
		sitepulse.WithProbeTimeout(cfg.ProbeTimeout.Duration()),
		sitepulse.WithMaxConcurrency(cfg.MaxConcurrency),
		sitepulse.WithSeedURLs(seeds...),
	}, nil
}
