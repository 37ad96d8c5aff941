package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/amosWeiskopf/hostcrawl/pkg/urlutil"
)

// Extractor pulls hyperlinks out of HTML documents.
type Extractor struct{}

// New creates a new Extractor instance
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the unique absolute http(s) links of every <a href> in
// markup, in document order. Relative hrefs are resolved against baseURL, or
// against the document's <base href> when it has one. Links are returned in
// normalized form; anything that cannot be normalized is skipped.
func (e *Extractor) Extract(markup, baseURL string) []string {
	if strings.TrimSpace(markup) == "" {
		return []string{}
	}

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return []string{}
	}
	doc := goquery.NewDocumentFromNode(root)

	base, _ := url.Parse(strings.TrimSpace(baseURL))
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		base = resolveBase(base, strings.TrimSpace(href))
	}

	links := []string{}
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		abs, ok := resolveURL(base, href)
		if !ok {
			return
		}
		normalized, err := urlutil.Normalize(abs)
		if err != nil {
			return
		}
		if urlutil.ValidateScheme(urlutil.Scheme(normalized)) != nil {
			return
		}
		if _, dup := seen[normalized]; dup {
			return
		}
		seen[normalized] = struct{}{}
		links = append(links, normalized)
	})

	return links
}

func resolveBase(base *url.URL, href string) *url.URL {
	ref, err := url.Parse(href)
	if err != nil {
		return base
	}
	if base == nil {
		return ref
	}
	return base.ResolveReference(ref)
}

// resolveURL makes href absolute. Without a usable base only hrefs that are
// already absolute survive.
func resolveURL(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if ref.IsAbs() {
		return ref.String(), true
	}
	if base == nil || !base.IsAbs() {
		return "", false
	}
	return base.ResolveReference(ref).String(), true
}
