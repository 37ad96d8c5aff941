package crawler

import "errors"

var (
	// ErrInvalidSeed is returned by New when the seed URL cannot start a crawl.
	ErrInvalidSeed = errors.New("invalid seed url")
	// ErrAlreadyCrawled is returned when Crawl is called on a used Crawler.
	ErrAlreadyCrawled = errors.New("crawler has already run")
)

// dropReason explains why a candidate link was not enqueued.
type dropReason string

const (
	dropUnnormalizable dropReason = "not normalizable"
	dropScheme         dropReason = "disallowed scheme"
	dropOutOfScope     dropReason = "out of scope"
	dropVisited        dropReason = "already visited"
	dropSelf           dropReason = "links to itself"
	dropClosed         dropReason = "frontier closed"
)
