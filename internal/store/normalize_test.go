package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "already canonical", raw: "http://a.test", want: "http://a.test"},
		{name: "trims whitespace", raw: "  https://a.test/health ", want: "https://a.test/health"},
		{name: "lowercases scheme and host", raw: "HTTPS://API.Example.COM/Health", want: "https://api.example.com/Health"},
		{name: "strips default http port", raw: "http://a.test:80/x", want: "http://a.test/x"},
		{name: "strips default https port", raw: "https://a.test:443", want: "https://a.test"},
		{name: "keeps non-default port", raw: "http://localhost:8080", want: "http://localhost:8080"},
		{name: "keeps 443 on http", raw: "http://a.test:443", want: "http://a.test:443"},
		{name: "drops fragment", raw: "https://a.test/page#section", want: "https://a.test/page"},
		{name: "drops trailing slash", raw: "https://a.test/", want: "https://a.test"},
		{name: "drops trailing slash on path", raw: "https://a.test/api/", want: "https://a.test/api"},
		{name: "keeps query", raw: "https://a.test/health?deep=1", want: "https://a.test/health?deep=1"},
		{name: "keeps encoded slash", raw: "http://a.test/a%2Fb", want: "http://a.test/a%2Fb"},
		{name: "keeps encoded slash when trimming", raw: "http://a.test/a%2Fb/", want: "http://a.test/a%2Fb"},
		{name: "encoded trailing slash is not trimmed", raw: "http://a.test/a%2F", want: "http://a.test/a%2F"},
		{name: "keeps encoded space when trimming", raw: "http://a.test/a%20b/", want: "http://a.test/a%20b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "blank", raw: "   "},
		{name: "not a url", raw: "not a url"},
		{name: "relative path", raw: "/health"},
		{name: "unsupported scheme", raw: "ftp://a.test"},
		{name: "missing host", raw: "http://"},
		{name: "opaque", raw: "http:localhost:8000"},
		{name: "parse failure", raw: "http://a.test/%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw)
			assert.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}

func TestNormalize_EquivalentFormsCollide(t *testing.T) {
	a, err := Normalize("HTTP://A.test:80/")
	require.NoError(t, err)
	b, err := Normalize("http://a.test#top")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestNormalize_EncodedPathFormsCollide(t *testing.T) {
	a, err := Normalize("http://a.test/a%2Fb/")
	require.NoError(t, err)
	b, err := Normalize("http://a.test/a%2Fb")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, "http://a.test/a/b", a)
}
