// Package urlutil canonicalizes URLs so the crawler can compare and deduplicate them.
package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

var (
	// ErrBlankURL is returned for empty or whitespace-only input.
	ErrBlankURL = errors.New("blank url")
	// ErrMissingSchemeOrHost is returned when a URL is not absolute.
	ErrMissingSchemeOrHost = errors.New("url is missing a scheme or host")
	// ErrInvalidScheme is returned for schemes other than http and https.
	ErrInvalidScheme = errors.New("unexpected protocol")
)

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// Normalize reduces rawURL to the canonical form used for frontier and
// visited-set entries:
//   - scheme and host are lower-cased
//   - default ports (80 for http, 443 for https) are removed
//   - the fragment is dropped
//   - "." and ".." path segments are resolved
//   - a trailing slash is removed unless the path is the root
//
// The query string and user info are kept as they are. Normalize is safe for
// concurrent use.
func Normalize(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ErrBlankURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("normalize %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Opaque != "" || u.Hostname() == "" {
		return "", fmt.Errorf("normalize %q: %w", rawURL, ErrMissingSchemeOrHost)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = normalizeHost(u)
	u.Fragment = ""
	u.RawFragment = ""

	escaped := cleanPath(u.EscapedPath())
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		return "", fmt.Errorf("normalize %q: %w", rawURL, err)
	}
	u.Path = unescaped
	u.RawPath = escaped

	return u.String(), nil
}

// ValidateScheme accepts http and https, case-insensitively.
func ValidateScheme(scheme string) error {
	switch strings.ToLower(scheme) {
	case "http", "https":
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidScheme, scheme)
}

// Hostname returns the lower-cased host of rawURL without its port, or an
// empty string if rawURL cannot be parsed.
func Hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// Scheme returns the lower-cased scheme of rawURL, or an empty string if
// rawURL cannot be parsed.
func Scheme(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

func normalizeHost(u *url.URL) string {
	hostname := strings.ToLower(u.Hostname())
	if strings.Contains(hostname, ":") {
		hostname = "[" + hostname + "]"
	}
	port := u.Port()
	if port == "" || defaultPorts[u.Scheme] == port {
		return hostname
	}
	return hostname + ":" + port
}

// cleanPath resolves dot segments and drops the trailing slash. An empty path
// becomes the root so that "http://h" and "http://h/" compare equal.
func cleanPath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
