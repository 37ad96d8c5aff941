package crawler

import (
	"context"
	"log/slog"
	"time"
)

// Fetcher retrieves the markup of a page. Implementations apply their own
// request timeout and report non-success responses as errors.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// LinkExtractor returns the absolute links found in markup, resolving
// relative hrefs against baseURL.
type LinkExtractor interface {
	Extract(markup, baseURL string) []string
}

// Defaults applied by New for zero-valued Options fields.
const (
	DefaultWorkers          = 5
	DefaultMaxPages         = 1000
	DefaultTimeout          = 15 * time.Minute
	DefaultProgressInterval = 10 * time.Second
)

// Options contains configuration for the crawler
type Options struct {
	Workers          int           // Parallel pull loops; 1 crawls sequentially
	MaxPages         int           // Page budget: URLs dequeued for processing
	Timeout          time.Duration // Wall-clock bound for the whole crawl
	ProgressInterval time.Duration // Minimum gap between progress log lines
	Fetcher          Fetcher
	Extractor        LinkExtractor
	Logger           *slog.Logger
}
