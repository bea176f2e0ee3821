// Package config provides YAML configuration parsing for SitePulse.
//
// This package enables running SitePulse as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Team Sites
//	port: 3000
//	poll_interval: 10s
//	probe_timeout: 5s
//
//	endpoints:
//	  - https://example.com
//	  - http://localhost:8000
//
//	grids:
//	  - name: Platform
//	    url_template: "https://{{.env}}.example.com/health"
//	    dimensions:
//	      env: [prod, staging]
package config

import (
	"fmt"
	"os"
	"regexp"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/sitepulse/internal/store"
)

// minPollInterval is the minimum allowed polling interval for production configs.
// This prevents accidental DoS of endpoints with overly aggressive polling.
const minPollInterval = 1 * time.Second

// Defaults applied by [Parse] to unset fields.
const (
	DefaultPort           = 3000
	DefaultPollInterval   = 10 * time.Second
	DefaultHealthInterval = 10 * time.Second
	DefaultWindowSize     = 5
	DefaultProbeTimeout   = 10 * time.Second
	DefaultMaxConcurrency = 1
)

// Config is the root configuration structure for SitePulse.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Defaults to "SitePulse" if not set.
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 3000.
	Port int `yaml:"port"`

	// PollInterval is the time between sweep starts.
	// Accepts duration strings like "10s", "1m", "500ms".
	// Defaults to 10s.
	PollInterval Duration `yaml:"poll_interval"`

	// HealthInterval is the time between host resource samples.
	// Defaults to 10s.
	HealthInterval Duration `yaml:"health_interval"`

	// WindowSize is the number of recent outcomes kept per endpoint.
	// Defaults to 5.
	WindowSize int `yaml:"window_size"`

	// ProbeTimeout bounds each probe. Defaults to 10s.
	ProbeTimeout Duration `yaml:"probe_timeout"`

	// MaxConcurrency is the number of probes in flight per sweep.
	// Defaults to 1 (sequential, in list order).
	MaxConcurrency int `yaml:"max_concurrency"`

	// Endpoints are the URLs registered at startup, in display order.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	Endpoints []string `yaml:"endpoints"`

	// Grids define URL sets that expand via cartesian product. Their URLs
	// are registered after Endpoints, grid by grid.
	Grids []GridConfig `yaml:"grids"`
}

// GridConfig defines a URL grid that expands via cartesian product.
//
// For example, with dimensions {env: [prod, staging], svc: [api, web]},
// the grid expands to 4 URLs: prod/api, prod/web, staging/api, staging/web.
type GridConfig struct {
	// Name identifies the grid in error messages. Optional.
	Name string `yaml:"name"`

	// URLTemplate is a Go template for generating endpoint URLs.
	// Dimension keys are available as template variables: {{.env}}, {{.svc}}
	// Supports environment variable substitution in the template.
	URLTemplate string `yaml:"url_template"`

	// Dimensions maps dimension names to their possible values.
	// The cartesian product of all dimensions generates the URLs.
	Dimensions map[string][]string `yaml:"dimensions"`
}

// label names the grid for error messages.
func (g GridConfig) label(i int) string {
	if g.Name == "" {
		return fmt.Sprintf("grids[%d]", i)
	}
	return fmt.Sprintf("grids[%d] (%s)", i, g.Name)
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in endpoint URLs and grid templates are expanded.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in endpoint URLs and grid templates.
// Defaults are applied to every unset tunable. An empty endpoint list is
// valid since endpoints can be added from the dashboard at runtime.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.PollInterval == 0 {
		c.PollInterval = Duration(DefaultPollInterval)
	}
	if c.HealthInterval == 0 {
		c.HealthInterval = Duration(DefaultHealthInterval)
	}
	if c.WindowSize == 0 {
		c.WindowSize = DefaultWindowSize
	}
	if c.ProbeTimeout == 0 {
		c.ProbeTimeout = Duration(DefaultProbeTimeout)
	}
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = DefaultMaxConcurrency
	}
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.PollInterval.Duration() < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s, got %s", minPollInterval, c.PollInterval.Duration())
	}
	if c.HealthInterval.Duration() < minPollInterval {
		return fmt.Errorf("health_interval must be at least %s, got %s", minPollInterval, c.HealthInterval.Duration())
	}
	if c.ProbeTimeout.Duration() <= 0 {
		return fmt.Errorf("probe_timeout must be positive, got %s", c.ProbeTimeout.Duration())
	}
	if c.WindowSize < 0 {
		return fmt.Errorf("window_size must be positive, got %d", c.WindowSize)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be positive, got %d", c.MaxConcurrency)
	}

	for i, raw := range c.Endpoints {
		if raw == "" {
			return fmt.Errorf("endpoints[%d]: url is required", i)
		}
		expanded, err := expandEnvVars(raw)
		if err != nil {
			return fmt.Errorf("endpoints[%d]: %w", i, err)
		}
		if err := validateURL(expanded); err != nil {
			return fmt.Errorf("endpoints[%d]: %w", i, err)
		}
		c.Endpoints[i] = expanded
	}

	for i := range c.Grids {
		g := &c.Grids[i]
		label := g.label(i)

		if g.URLTemplate == "" {
			return fmt.Errorf("%s: url_template is required", label)
		}
		expanded, err := expandEnvVars(g.URLTemplate)
		if err != nil {
			return fmt.Errorf("%s: url_template: %w", label, err)
		}
		g.URLTemplate = expanded

		// fail fast before SDK tries to use invalid template
		if _, err := template.New("").Parse(g.URLTemplate); err != nil {
			return fmt.Errorf("%s: invalid url_template: %w", label, err)
		}

		if len(g.Dimensions) == 0 {
			return fmt.Errorf("%s: at least one dimension is required", label)
		}
		for dimName, dimValues := range g.Dimensions {
			if len(dimValues) == 0 {
				return fmt.Errorf("%s: dimension %q has no values", label, dimName)
			}
			seen := make(map[string]struct{}, len(dimValues))
			for _, v := range dimValues {
				if _, exists := seen[v]; exists {
					return fmt.Errorf("%s: dimension %q has duplicate value %q", label, dimName, v)
				}
				seen[v] = struct{}{}
			}
		}
	}

	return nil
}

// validateURL rejects URLs the monitor cannot register, using the same
// normalization as the registry so validate and serve agree.
func validateURL(raw string) error {
	_, err := store.Normalize(raw)
	return err
}
