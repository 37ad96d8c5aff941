package reporter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/amosWeiskopf/hostcrawl/internal/models"
)

func sampleResult() *models.CrawlResult {
	return &models.CrawlResult{
		Seed:          "https://site.test/",
		Host:          "site.test",
		Workers:       5,
		MaxPages:      100,
		Dequeued:      3,
		FetchFailures: 1,
		Visited:       []string{"https://site.test/", "https://site.test/a", "https://site.test/gone"},
		Pages: []models.Page{
			{URL: "https://site.test/", LinksFound: 2, Enqueued: 2},
			{URL: "https://site.test/a"},
			{URL: "https://site.test/gone", Error: "https://site.test/gone returned status HTTP 404"},
		},
		StartedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:      1500 * time.Millisecond,
		BudgetReached: false,
	}
}

func TestGenerateJSON(t *testing.T) {
	out, err := New().Generate(sampleResult(), "json")
	require.NoError(t, err)

	var decoded models.CrawlResult
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "site.test", decoded.Host)
	assert.Len(t, decoded.Visited, 3)
	assert.Equal(t, 1, decoded.FetchFailures)
}

func TestGenerateYAML(t *testing.T) {
	out, err := New().Generate(sampleResult(), "YAML")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "https://site.test/", decoded["seed"])
	assert.Equal(t, "1.5s", decoded["duration"])
}

func TestGenerateMarkdown(t *testing.T) {
	out, err := New().Generate(sampleResult(), "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "# Crawl Report for site.test")
	assert.Contains(t, out, "Pages Visited")
	assert.Contains(t, out, "- https://site.test/a")
	assert.Contains(t, out, "## Failures")
	assert.Contains(t, out, "returned status HTTP 404")
	assert.Contains(t, out, "Complete")
}

func TestGenerateHTML(t *testing.T) {
	result := sampleResult()
	result.TimedOut = true

	out, err := New().Generate(result, "html")
	require.NoError(t, err)

	assert.Contains(t, out, "<title>Crawl Report - site.test</title>")
	assert.Contains(t, out, `<a href="https://site.test/a">`)
	assert.Contains(t, out, "Timed out (partial results)")
	assert.Contains(t, out, "1.5s")
}

func TestGenerateErrors(t *testing.T) {
	_, err := New().Generate(sampleResult(), "pdf")
	assert.Error(t, err)

	_, err = New().Generate(nil, "json")
	assert.Error(t, err)
}
