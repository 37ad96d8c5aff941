package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/amosWeiskopf/hostcrawl/internal/models"
	"github.com/amosWeiskopf/hostcrawl/pkg/extractor"
	"github.com/amosWeiskopf/hostcrawl/pkg/fetcher"
	"github.com/amosWeiskopf/hostcrawl/pkg/urlutil"
)

// Crawler visits every reachable page on the seed's host exactly once, up to
// a page budget. A Crawler runs a single crawl and cannot be restarted.
type Crawler struct {
	seed      string
	seedHost  string
	opts      Options
	fetcher   Fetcher
	extractor LinkExtractor
	logger    *slog.Logger

	frontier *Frontier
	visited  *VisitedSet

	state         atomic.Int32
	dequeued      atomic.Int64
	fetchFailures atomic.Int64
	budgetReached atomic.Bool

	mu    sync.Mutex
	pages []models.Page

	progress  rate.Sometimes
	startedAt time.Time
}

// New validates seedURL and returns a crawler whose frontier holds the
// normalized seed. An unusable seed yields an error wrapping ErrInvalidSeed.
func New(seedURL string, opts Options) (*Crawler, error) {
	seed, err := urlutil.Normalize(seedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	if err := urlutil.ValidateScheme(urlutil.Scheme(seed)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	host := urlutil.Hostname(seed)
	if host == "" {
		return nil, fmt.Errorf("%w: unable to determine host of %q", ErrInvalidSeed, seedURL)
	}

	opts = applyDefaults(opts)
	c := &Crawler{
		seed:      seed,
		seedHost:  host,
		opts:      opts,
		fetcher:   opts.Fetcher,
		extractor: opts.Extractor,
		logger:    opts.Logger,
		frontier:  NewFrontier(),
		visited:   NewVisitedSet(),
		progress:  rate.Sometimes{Interval: opts.ProgressInterval},
	}
	c.frontier.Push(seed)
	c.state.Store(int32(StateSeeded))

	c.logger.Info("crawler seeded",
		"seed", seed,
		"host", host,
		"workers", opts.Workers,
		"max_pages", opts.MaxPages,
		"timeout", opts.Timeout,
	)
	return c, nil
}

func applyDefaults(opts Options) Options {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}
	if opts.Fetcher == nil {
		opts.Fetcher = fetcher.New(fetcher.Options{})
	}
	if opts.Extractor == nil {
		opts.Extractor = extractor.New()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return opts
}

// Crawl drains the frontier with the configured number of workers. It returns
// once the frontier is empty, the page budget is spent, the timeout elapses
// or ctx is cancelled. On timeout the remaining workers are abandoned and the
// partial result is returned with TimedOut set; cancellation of ctx returns
// the partial result together with ctx.Err().
func (c *Crawler) Crawl(ctx context.Context) (*models.CrawlResult, error) {
	if !c.state.CompareAndSwap(int32(StateSeeded), int32(StateRunning)) {
		return nil, ErrAlreadyCrawled
	}
	c.startedAt = time.Now()

	runCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()
	stop := context.AfterFunc(runCtx, func() {
		c.drain("interrupted")
	})
	defer stop()

	var g errgroup.Group
	for i := 1; i <= c.opts.Workers; i++ {
		g.Go(func() error {
			c.work(runCtx, i)
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	abandoned := false
	select {
	case <-done:
	case <-runCtx.Done():
		abandoned = true
		c.logger.Warn("crawl interrupted, abandoning workers",
			"in_flight", c.frontier.InFlight(),
		)
	}

	var (
		err       error
		timedOut  bool
		cancelled bool
	)
	if ctx.Err() != nil {
		cancelled = true
		err = ctx.Err()
	} else if abandoned {
		timedOut = true
	}
	c.state.Store(int32(StateTerminated))

	result := c.result(timedOut, cancelled)
	c.logger.Info("crawl finished",
		"visited", len(result.Visited),
		"dequeued", result.Dequeued,
		"fetch_failures", result.FetchFailures,
		"duration", result.Duration,
	)
	return result, err
}

// work is one worker's pull loop.
func (c *Crawler) work(ctx context.Context, worker int) {
	// In-flight fetches outlive the crawl deadline; the fetcher bounds them.
	fetchCtx := context.WithoutCancel(ctx)

	for {
		pageURL, ok := c.frontier.Pop()
		if !ok {
			c.drain("frontier empty")
			return
		}
		if c.visited.Contains(pageURL) {
			c.logger.Debug("skipping visited url", "url", pageURL, "worker", worker)
			c.frontier.Done()
			continue
		}
		if !c.reservePage() {
			c.frontier.Done()
			c.budgetReached.Store(true)
			c.drain("page budget reached")
			return
		}

		c.crawlURL(fetchCtx, worker, pageURL)
		c.frontier.Done()
		c.progress.Do(c.logProgress)
	}
}

// reservePage takes one unit of the page budget, failing once it is spent.
func (c *Crawler) reservePage() bool {
	limit := int64(c.opts.MaxPages)
	for {
		n := c.dequeued.Load()
		if n >= limit {
			return false
		}
		if c.dequeued.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// drain stops workers from taking new URLs. In-flight pages finish normally.
func (c *Crawler) drain(reason string) {
	if c.state.CompareAndSwap(int32(StateRunning), int32(StateDraining)) {
		c.logger.Info("crawl draining",
			"reason", reason,
			"dequeued", c.dequeued.Load(),
			"queued", c.frontier.Len(),
		)
	}
	c.frontier.Close()
}

// crawlURL fetches one page and feeds its in-scope, unvisited links back into
// the frontier. Errors are logged and recorded, never returned.
func (c *Crawler) crawlURL(ctx context.Context, worker int, pageURL string) {
	page := models.Page{URL: pageURL, Worker: worker, CrawledAt: time.Now()}
	fetchFailed := false
	logger := c.logger.With("url", pageURL, "worker", worker)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while crawling", "panic", r)
			page.Error = fmt.Sprintf("panic: %v", r)
		}
		c.markVisited(page, fetchFailed)
	}()

	logger.Info("crawl")

	if err := urlutil.ValidateScheme(urlutil.Scheme(pageURL)); err != nil {
		logger.Debug("url rejected", "reason", dropScheme)
		page.Error = err.Error()
		return
	}
	if !InScope(pageURL, c.seedHost) {
		logger.Debug("url rejected", "reason", dropOutOfScope)
		page.Error = string(dropOutOfScope)
		return
	}

	markup, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		logger.Warn("fetch failed", "error", err)
		page.Error = err.Error()
		fetchFailed = true
		return
	}

	links := c.extractor.Extract(markup, pageURL)
	page.LinksFound = len(links)
	logger.Debug("extracted links", "count", len(links))

	for _, raw := range links {
		normalized, reason, ok := c.checkCandidate(raw, pageURL)
		if !ok {
			logger.Debug("link dropped", "link", raw, "reason", reason)
			continue
		}
		if !c.frontier.Push(normalized) {
			logger.Debug("link dropped", "link", normalized, "reason", dropClosed)
			continue
		}
		page.Enqueued++
	}
}

// markVisited adds the page to the visited set. When two workers raced on
// the same URL only the first one records the page.
func (c *Crawler) markVisited(page models.Page, fetchFailed bool) {
	if !c.visited.Add(page.URL) {
		c.logger.Debug("url processed more than once", "url", page.URL)
		return
	}
	if fetchFailed {
		c.fetchFailures.Add(1)
	}
	c.mu.Lock()
	c.pages = append(c.pages, page)
	c.mu.Unlock()
}

func (c *Crawler) logProgress() {
	c.logger.Info("crawl progress",
		"dequeued", c.dequeued.Load(),
		"visited", c.visited.Len(),
		"queued", c.frontier.Len(),
		"in_flight", c.frontier.InFlight(),
	)
}

func (c *Crawler) result(timedOut, cancelled bool) *models.CrawlResult {
	c.mu.Lock()
	pages := make([]models.Page, len(c.pages))
	copy(pages, c.pages)
	c.mu.Unlock()

	return &models.CrawlResult{
		Seed:          c.seed,
		Host:          c.seedHost,
		Workers:       c.opts.Workers,
		MaxPages:      c.opts.MaxPages,
		Dequeued:      int(c.dequeued.Load()),
		FetchFailures: int(c.fetchFailures.Load()),
		Visited:       c.visited.Snapshot(),
		Pages:         pages,
		StartedAt:     c.startedAt,
		Duration:      time.Since(c.startedAt),
		BudgetReached: c.budgetReached.Load(),
		TimedOut:      timedOut,
		Cancelled:     cancelled,
	}
}

// State returns the current lifecycle state.
func (c *Crawler) State() State {
	return State(c.state.Load())
}

// Seed returns the normalized seed URL.
func (c *Crawler) Seed() string { return c.seed }

// SeedHost returns the host that bounds the crawl.
func (c *Crawler) SeedHost() string { return c.seedHost }

// Visited returns a sorted copy of the visited set.
func (c *Crawler) Visited() []string {
	return c.visited.Snapshot()
}
