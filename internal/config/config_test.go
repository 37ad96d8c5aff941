package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Crawler.Workers)
	assert.Equal(t, 1000, cfg.Crawler.MaxPages)
	assert.Equal(t, 15*time.Minute, cfg.Crawler.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Crawler.FetchTimeout)
	assert.Equal(t, "hostcrawl/1.0", cfg.Crawler.UserAgent)
	assert.Equal(t, int64(5*1024*1024), cfg.Crawler.MaxBodyBytes)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.OutputPath)
	assert.Equal(t, "json", cfg.Report.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
crawler:
  workers: 2
  max_pages: 40
  timeout: 90s
  user_agent: probe/1.0
logging:
  level: debug
  format: json
report:
  format: markdown
`), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Crawler.Workers)
	assert.Equal(t, 40, cfg.Crawler.MaxPages)
	assert.Equal(t, 90*time.Second, cfg.Crawler.Timeout)
	assert.Equal(t, "probe/1.0", cfg.Crawler.UserAgent)
	assert.Equal(t, 5*time.Second, cfg.Crawler.FetchTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "markdown", cfg.Report.Format)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crawler:\n  workers: 2\n"), 0o644))
	t.Setenv("HOSTCRAWL_CRAWLER_WORKERS", "9")
	t.Setenv("HOSTCRAWL_REPORT_FORMAT", "yaml")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Crawler.Workers)
	assert.Equal(t, "yaml", cfg.Report.Format)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOSTCRAWL_CRAWLER_MAX_PAGES", "50")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("max-pages", 1000, "")
	flags.Duration("timeout", 15*time.Minute, "")
	flags.Int("workers", 5, "")
	require.NoError(t, flags.Parse([]string{"--max-pages", "3", "--timeout", "1m"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Crawler.MaxPages)
	assert.Equal(t, time.Minute, cfg.Crawler.Timeout)
	assert.Equal(t, 5, cfg.Crawler.Workers)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Crawler: CrawlerConfig{
				Workers:      5,
				MaxPages:     10,
				Timeout:      time.Minute,
				FetchTimeout: time.Second,
				MaxBodyBytes: 1024,
			},
			Logging: LoggingConfig{Level: "info", Format: "text"},
			Report:  ReportConfig{Format: "json"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Crawler.Workers = 0 }},
		{"negative budget", func(c *Config) { c.Crawler.MaxPages = -1 }},
		{"no timeout", func(c *Config) { c.Crawler.Timeout = 0 }},
		{"no fetch timeout", func(c *Config) { c.Crawler.FetchTimeout = 0 }},
		{"no body limit", func(c *Config) { c.Crawler.MaxBodyBytes = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad report format", func(c *Config) { c.Report.Format = "pdf" }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
