package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Crawler configuration
	Crawler CrawlerConfig `mapstructure:"crawler"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`

	// Report output
	Report ReportConfig `mapstructure:"report"`
}

// CrawlerConfig holds crawler-specific configuration
type CrawlerConfig struct {
	Workers          int           `mapstructure:"workers"`
	MaxPages         int           `mapstructure:"max_pages"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
	UserAgent        string        `mapstructure:"user_agent"`
	MaxBodyBytes     int64         `mapstructure:"max_body_bytes"`
	ProgressInterval time.Duration `mapstructure:"progress_interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // "json" or "text"
	OutputPath string `mapstructure:"output_path"`
}

// ReportConfig selects how the crawl result is written
type ReportConfig struct {
	Format     string `mapstructure:"format"` // "json", "yaml", "markdown" or "html"
	OutputPath string `mapstructure:"output_path"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"workers":           "crawler.workers",
	"max-pages":         "crawler.max_pages",
	"timeout":           "crawler.timeout",
	"fetch-timeout":     "crawler.fetch_timeout",
	"user-agent":        "crawler.user_agent",
	"progress-interval": "crawler.progress_interval",
	"log-level":         "logging.level",
	"log-format":        "logging.format",
	"log-output":        "logging.output_path",
	"format":            "report.format",
	"output":            "report.output_path",
}

// Load reads configuration from defaults, an optional YAML file, HOSTCRAWL_*
// environment variables and flags, in increasing order of precedence. An
// empty configPath searches the usual locations and tolerates a missing file.
// flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigName("hostcrawl")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.hostcrawl")
	}

	// Set defaults
	setDefaults(v)

	// Bind environment variables
	v.SetEnvPrefix("HOSTCRAWL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Crawler defaults
	v.SetDefault("crawler.workers", 5)
	v.SetDefault("crawler.max_pages", 1000)
	v.SetDefault("crawler.timeout", "15m")
	v.SetDefault("crawler.fetch_timeout", "5s")
	v.SetDefault("crawler.user_agent", "hostcrawl/1.0")
	v.SetDefault("crawler.max_body_bytes", 5*1024*1024)
	v.SetDefault("crawler.progress_interval", "10s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output_path", "stderr")

	// Report defaults
	v.SetDefault("report.format", "json")
	v.SetDefault("report.output_path", "")
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %q: %w", name, err)
		}
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Crawler.Workers <= 0 {
		return fmt.Errorf("crawler.workers must be positive")
	}
	if c.Crawler.MaxPages <= 0 {
		return fmt.Errorf("crawler.max_pages must be positive")
	}
	if c.Crawler.Timeout <= 0 {
		return fmt.Errorf("crawler.timeout must be positive")
	}
	if c.Crawler.FetchTimeout <= 0 {
		return fmt.Errorf("crawler.fetch_timeout must be positive")
	}
	if c.Crawler.MaxBodyBytes <= 0 {
		return fmt.Errorf("crawler.max_body_bytes must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported logging.level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported logging.format %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Report.Format) {
	case "json", "yaml", "markdown", "md", "html":
	default:
		return fmt.Errorf("unsupported report.format %q", c.Report.Format)
	}

	return nil
}
