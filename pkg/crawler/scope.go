package crawler

import (
	"strings"

	"github.com/amosWeiskopf/hostcrawl/pkg/urlutil"
)

// InScope reports whether normalizedURL belongs to the crawl started at
// seedHost. Only the seed host itself and its literal "www." variant qualify;
// other subdomains are out of scope.
func InScope(normalizedURL, seedHost string) bool {
	host := urlutil.Hostname(normalizedURL)
	if host == "" || seedHost == "" {
		return false
	}
	seedHost = strings.ToLower(seedHost)
	return host == seedHost || host == "www."+seedHost
}

// checkCandidate runs a discovered link through normalization, scheme, scope
// and visited checks. It returns the normalized URL, or the reason the link
// must be dropped. The visited check is not atomic with the later push.
func (c *Crawler) checkCandidate(raw, current string) (string, dropReason, bool) {
	normalized, err := urlutil.Normalize(raw)
	if err != nil {
		return "", dropUnnormalizable, false
	}
	if urlutil.ValidateScheme(urlutil.Scheme(normalized)) != nil {
		return normalized, dropScheme, false
	}
	if !InScope(normalized, c.seedHost) {
		return normalized, dropOutOfScope, false
	}
	if normalized == current {
		return normalized, dropSelf, false
	}
	if !c.isNewCandidate(normalized) {
		return normalized, dropVisited, false
	}
	return normalized, "", true
}

func (c *Crawler) isNewCandidate(normalizedURL string) bool {
	return !c.visited.Contains(normalizedURL)
}
