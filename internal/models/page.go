package models

import "time"

// Page records the outcome of processing one dequeued URL
type Page struct {
	URL        string    `json:"url" yaml:"url"`
	LinksFound int       `json:"links_found" yaml:"links_found"`
	Enqueued   int       `json:"enqueued" yaml:"enqueued"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	Worker     int       `json:"worker" yaml:"worker"`
	CrawledAt  time.Time `json:"crawled_at" yaml:"crawled_at"`
}

// Failed reports whether the page could not be fetched or was rejected.
func (p Page) Failed() bool {
	return p.Error != ""
}

// CrawlResult contains the results of a crawl operation
type CrawlResult struct {
	Seed          string        `json:"seed" yaml:"seed"`
	Host          string        `json:"host" yaml:"host"`
	Workers       int           `json:"workers" yaml:"workers"`
	MaxPages      int           `json:"max_pages" yaml:"max_pages"`
	Dequeued      int           `json:"dequeued" yaml:"dequeued"`
	FetchFailures int           `json:"fetch_failures" yaml:"fetch_failures"`
	Visited       []string      `json:"visited" yaml:"visited"`
	Pages         []Page        `json:"pages" yaml:"pages"`
	StartedAt     time.Time     `json:"started_at" yaml:"started_at"`
	Duration      time.Duration `json:"duration" yaml:"duration"`
	BudgetReached bool          `json:"budget_reached" yaml:"budget_reached"`
	TimedOut      bool          `json:"timed_out" yaml:"timed_out"`
	Cancelled     bool          `json:"cancelled" yaml:"cancelled"`
}

// TotalPages is the number of distinct URLs in the visited set.
func (r *CrawlResult) TotalPages() int {
	return len(r.Visited)
}

// Failures returns the pages whose processing ended in an error.
func (r *CrawlResult) Failures() []Page {
	var failed []Page
	for _, p := range r.Pages {
		if p.Failed() {
			failed = append(failed, p)
		}
	}
	return failed
}
