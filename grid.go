package sitepulse

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
	"text/template"
)

// NewURLGrid creates seed URLs from a URL template and dimensions using
// cartesian product expansion.
//
// The URL template uses Go's text/template syntax. Dimension values are URL-encoded
// before interpolation. Missing template keys cause an error (fail-fast).
// URLs are returned in a deterministic order: dimension keys sorted
// alphabetically, the rightmost key varying fastest, values in their
// original order.
//
// Example:
//
//	urls, err := sitepulse.NewURLGrid(
//	    sitepulse.WithURLTemplate("https://{{.region}}.api.example.com/health"),
//	    sitepulse.WithDimensions(map[string][]string{
//	        "region": {"us-east", "eu-west"},
//	    }),
//	)
//	// Returns 2 URLs, usable with WithSeedURLs(urls...)
func NewURLGrid(opts ...GridOption) ([]string, error) {
	cfg := &gridConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.urlTemplate == "" {
		return nil, errors.New("URL template required")
	}
	if len(cfg.dimensions) == 0 {
		return nil, errors.New("at least one dimension required")
	}

	tmpl, err := template.New("url").Option("missingkey=error").Parse(cfg.urlTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid URL template: %w", err)
	}

	combos := cartesianProduct(cfg.dimensions)
	urls := make([]string, 0, len(combos))
	var buf strings.Builder
	for _, combo := range combos {
		buf.Reset()
		if err := tmpl.Execute(&buf, queryEscaped(combo)); err != nil {
			return nil, fmt.Errorf("template execution failed for %v: %w", combo, err)
		}
		urls = append(urls, buf.String())
	}
	return urls, nil
}

// cartesianProduct returns every combination of dimension values, folding in
// one dimension at a time in sorted key order so the last key varies
// fastest. Any empty dimension yields no combinations.
//
//	{"x": ["a","b"], "y": ["1","2"]}
//	=> [{x:a y:1} {x:a y:2} {x:b y:1} {x:b y:2}]
func cartesianProduct(dims map[string][]string) []map[string]string {
	if len(dims) == 0 {
		return nil
	}

	combos := []map[string]string{{}}
	for _, key := range slices.Sorted(maps.Keys(dims)) {
		values := dims[key]
		next := make([]map[string]string, 0, len(combos)*len(values))
		for _, combo := range combos {
			for _, v := range values {
				c := maps.Clone(combo)
				c[key] = v
				next = append(next, c)
			}
		}
		combos = next
	}
	if len(combos) == 0 {
		return nil
	}
	return combos
}

// queryEscaped returns a copy of combo with every value query-escaped, so a
// value like "a b&c" cannot change the shape of the URL.
func queryEscaped(combo map[string]string) map[string]string {
	out := make(map[string]string, len(combo))
	for k, v := range combo {
		out[k] = url.QueryEscape(v)
	}
	return out
}
