package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amosWeiskopf/hostcrawl/internal/config"
	"github.com/amosWeiskopf/hostcrawl/internal/logging"
	"github.com/amosWeiskopf/hostcrawl/pkg/crawler"
	"github.com/amosWeiskopf/hostcrawl/pkg/extractor"
	"github.com/amosWeiskopf/hostcrawl/pkg/fetcher"
	"github.com/amosWeiskopf/hostcrawl/pkg/reporter"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hostcrawl [flags] <seed-url>",
		Short: "hostcrawl - concurrent single-host web crawler",
		Long: `hostcrawl visits every page reachable from a seed URL on the seed's host,
exactly once, with a pool of concurrent workers and a page budget.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCrawl,
	}

	flags := cmd.Flags()
	flags.String("config", "", "Config file path")
	flags.Int("workers", crawler.DefaultWorkers, "Number of concurrent workers")
	flags.Int("max-pages", crawler.DefaultMaxPages, "Maximum number of pages to process")
	flags.Duration("timeout", crawler.DefaultTimeout, "Overall crawl timeout")
	flags.Duration("fetch-timeout", fetcher.DefaultTimeout, "Per-request fetch timeout")
	flags.String("user-agent", fetcher.DefaultUserAgent, "User-Agent header sent with every request")
	flags.Duration("progress-interval", crawler.DefaultProgressInterval, "Minimum interval between progress log lines")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.String("log-output", "stderr", "Log destination (stderr, stdout or a file path)")
	flags.String("format", "json", "Report format (json, yaml, markdown, html)")
	flags.String("output", "", "Output file for the report")

	return cmd
}

func runCrawl(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closeLog()

	if len(args) > 1 {
		logger.Warn("multiple seed URLs given, only the first is crawled",
			"seed", args[0],
			"ignored", args[1:],
		)
	}

	c, err := crawler.New(args[0], crawler.Options{
		Workers:          cfg.Crawler.Workers,
		MaxPages:         cfg.Crawler.MaxPages,
		Timeout:          cfg.Crawler.Timeout,
		ProgressInterval: cfg.Crawler.ProgressInterval,
		Fetcher: fetcher.New(fetcher.Options{
			UserAgent:    cfg.Crawler.UserAgent,
			Timeout:      cfg.Crawler.FetchTimeout,
			MaxBodyBytes: cfg.Crawler.MaxBodyBytes,
		}),
		Extractor: extractor.New(),
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	result, err := c.Crawl(cmd.Context())
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("crawl failed: %w", err)
	}
	if result.Cancelled {
		logger.Warn("crawl interrupted, reporting partial results", "visited", result.TotalPages())
	}

	report, err := reporter.New().Generate(result, cfg.Report.Format)
	if err != nil {
		return fmt.Errorf("report generation failed: %w", err)
	}

	return writeReport(cmd.OutOrStdout(), cfg.Report.OutputPath, report, logger)
}

func writeReport(stdout io.Writer, output, report string, logger *slog.Logger) error {
	if output == "" {
		_, err := fmt.Fprintln(stdout, report)
		return err
	}
	if err := os.WriteFile(output, []byte(report), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Info("report saved", "path", output)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
