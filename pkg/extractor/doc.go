// Package extractor finds the outbound links of an HTML page.
//
// The crawler hands each fetched page to Extract together with the page's own
// URL. Every anchor href is resolved to an absolute URL, normalized with
// urlutil and filtered down to http and https, so callers receive candidates
// that are ready for scope and visited checks.
package extractor
