package sitepulse

import (
	"errors"
	"fmt"
)

// gridConfig collects [GridOption] values for [NewURLGrid].
type gridConfig struct {
	urlTemplate string
	dimensions  map[string][]string
}

// GridOption configures [NewURLGrid].
type GridOption func(*gridConfig) error

// WithURLTemplate sets the text/template that renders each seed URL.
// Dimension keys are the template's fields.
//
// Example:
//
//	WithURLTemplate("https://api.example.com/health?env={{.env}}&region={{.region}}")
//
// Returns an error if the template string is empty.
func WithURLTemplate(tmpl string) GridOption {
	return func(cfg *gridConfig) error {
		if tmpl == "" {
			return errors.New("URL template required")
		}
		cfg.urlTemplate = tmpl
		return nil
	}
}

// WithDimensions sets the values each template variable ranges over. One
// URL is produced per combination.
//
// Returns an error if dims is empty, or a dimension has no values or an
// empty value.
func WithDimensions(dims map[string][]string) GridOption {
	return func(cfg *gridConfig) error {
		if len(dims) == 0 {
			return errors.New("at least one dimension required")
		}
		for k, vals := range dims {
			if len(vals) == 0 {
				return fmt.Errorf("dimension '%s' has no values", k)
			}
			for i, v := range vals {
				if v == "" {
					return fmt.Errorf("dimension '%s' contains empty value at index %d", k, i)
				}
			}
		}
		cfg.dimensions = dims
		return nil
	}
}
