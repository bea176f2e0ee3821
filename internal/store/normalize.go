package store

import (
	"fmt"
	"net/url"
	"strings"
)

// Normalize parses rawURL and returns the canonical identifier for it.
//
// The rules are:
//  1. Surrounding whitespace is trimmed.
//  2. The URL must be absolute with an http or https scheme and a host.
//  3. Scheme and host are lowercased.
//  4. Default ports (80 for http, 443 for https) are stripped.
//  5. The fragment is removed.
//  6. Trailing slashes on the path are removed. Percent-encoding in the
//     path is preserved.
//
// Errors wrap [ErrInvalidURL].
func Normalize(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("%w: url is empty", ErrInvalidURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: %q must be an absolute http or https url", ErrInvalidURL, rawURL)
	}
	// "http:localhost:8000" parses as an opaque URL with no host
	if u.Opaque != "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrInvalidURL, rawURL)
	}

	u.Host = strings.ToLower(u.Host)
	switch port := u.Port(); {
	case u.Scheme == "http" && port == "80":
		u.Host = strings.TrimSuffix(u.Host, ":80")
	case u.Scheme == "https" && port == "443":
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	u.Fragment = ""
	u.RawFragment = ""

	// "http://a.test/" and "http://a.test" name the same endpoint. Trim on
	// the escaped form so an encoded "%2F" is kept and never decoded.
	if escaped := u.EscapedPath(); strings.HasSuffix(escaped, "/") {
		escaped = strings.TrimRight(escaped, "/")
		path, err := url.PathUnescape(escaped)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
		}
		u.Path = path
		u.RawPath = escaped
	}

	return u.String(), nil
}
