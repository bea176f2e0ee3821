package store

import "errors"

var (
	// ErrInvalidURL is returned when a raw URL cannot be normalized into an
	// absolute http or https URL.
	ErrInvalidURL = errors.New("invalid url")

	// ErrDuplicateEndpoint is returned when the normalized URL is already registered.
	ErrDuplicateEndpoint = errors.New("endpoint already registered")

	// ErrNotFound is returned when an identifier or position does not exist.
	ErrNotFound = errors.New("endpoint not found")
)
