// Package normalize turns raw user input into a canonical address key.
//
// The canonical form is scheme://host[:port] with a lowercase scheme and
// host, a leading "www." stripped from the host, and the scheme's default
// port elided. Path, query, and fragment are discarded: two URLs differing
// only in path are the same check target. No network access occurs here.
package normalize

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Rejection reasons. Callers branch on these with errors.Is; none of them
// indicates an internal failure.
var (
	// ErrEmpty rejects input that is empty after trimming.
	ErrEmpty = errors.New("address is empty")
	// ErrMalformed rejects input that does not parse as a URL, or that
	// parses to an empty host.
	ErrMalformed = errors.New("address is malformed")
	// ErrNotAbsolute rejects input without an explicit scheme and host,
	// e.g. a bare "example.com".
	ErrNotAbsolute = errors.New("address is not absolute")
	// ErrUnsupportedScheme rejects schemes other than http and https.
	ErrUnsupportedScheme = errors.New("address scheme is not supported")
)

// defaultPorts maps each accepted scheme to the port elided from the key.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// Normalize converts a raw string into its canonical address key.
// It is idempotent: feeding a returned key back in yields the same key.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmpty
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", ErrNotAbsolute
	}

	scheme := strings.ToLower(u.Scheme)
	if _, ok := defaultPorts[scheme]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "", fmt.Errorf("%w: empty host", ErrMalformed)
	}

	key := scheme + "://" + host
	if port := u.Port(); port != "" && port != defaultPorts[scheme] {
		key += ":" + port
	}
	return key, nil
}
