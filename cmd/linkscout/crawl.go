package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/linkscout/internal/config"
	"github.com/nao1215/linkscout/internal/crawler"
	"github.com/nao1215/linkscout/internal/database"
	"github.com/nao1215/linkscout/internal/log"
	"github.com/nao1215/linkscout/internal/model"
	"github.com/nao1215/linkscout/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url...]",
		Short: "Crawl a website and collect its external links",
		Long: `Crawl visits every reachable page of a website, starting from the seed
URL and following internal links only. Every link that points to another
host is recorded together with the page it was found on.

The crawler waits between requests (1 second by default), skips links to
binary documents and images, and never leaves the seed's host.

Examples:
  # Crawl a site and print the external links as a table
  linkscout crawl https://example.com

  # Crawl several sites concurrently
  linkscout crawl https://example.com https://example.org

  # Export CSV to a file, only links mentioning github
  linkscout crawl -f csv -o links.csv -k github https://example.com

  # Cap the crawl at 100 pages with a half-second delay
  linkscout crawl -p 100 -d 500ms https://example.com

Configuration file (.linkscout) example:
  defaults:
    delay: 2s
  hosts:
    www.example.com:
      maxPages: 200
      exclusionPatterns:
        - et_blog
        - /tag/`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().DurationP("delay", "d", config.DefaultDelay,
		"Pause between requests within one crawl")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl per site (0 = unlimited)")
	cmd.Flags().String("user-agent", "",
		"Override the User-Agent header sent with each request")

	// Batch crawling flags
	cmd.Flags().IntP("concurrency", "b", config.DefaultConcurrency,
		"Number of sites crawled in parallel when several seeds are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linkscout in current or home directory)")

	// Report flags
	cmd.Flags().StringP("keyword", "k", "",
		"Only report external links containing this substring (case-sensitive)")
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Report format: table, csv, json, or markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Persistence flags
	cmd.Flags().Bool("no-db", false,
		"Do not save crawl results to the local history database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential redaction
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown.
	// On SIGINT/SIGTERM the running crawl finishes its current page, marks
	// the session aborted, and the partial results are still reported.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Delay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-host configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.HostConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.HostConfigs = &config.File{
			Hosts: make(map[string]config.HostConfig),
		}
	}

	cfg.Keyword, err = cmd.Flags().GetString("keyword")
	if err != nil {
		return nil, err
	}

	cfg.Format, err = cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB
	cfg.DBDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments are the seed URLs
	cfg.Seeds = args

	return cfg, nil
}

// runCrawl executes the crawl for all seeds.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"seeds", cfg.Seeds,
		"delay", cfg.Delay,
		"maxPages", cfg.MaxPages,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.CrawlDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	if len(cfg.Seeds) > 1 && cfg.Concurrency > 1 {
		return runBatchCrawl(ctx, cfg, db, logger)
	}
	return runSequentialCrawl(ctx, cfg, db, logger)
}

// runSequentialCrawl crawls seeds one at a time with live progress output.
func runSequentialCrawl(ctx context.Context, cfg *config.Config, db *database.CrawlDB, logger *slog.Logger) error {
	for _, seed := range cfg.Seeds {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprintf(os.Stderr, "Crawling %s...\n", seed)
		startTime := time.Now()

		progress := func(visited, discovered int, currentURL string) {
			fmt.Fprintf(os.Stderr, "  [%d/%d] %s\n", visited, discovered, currentURL)
		}

		result, err := crawlSeed(ctx, cfg, seed, progress, logger)
		if err != nil {
			logger.Error("crawl failed", "seed", seed, "error", err)
			fmt.Fprintf(os.Stderr, "Crawl error for %s: %v\n", seed, err)
			if result == nil {
				continue
			}
			// Aborted crawls still carry partial observations worth reporting.
		}

		elapsed := time.Since(startTime)
		fmt.Fprintf(os.Stderr, "Crawl finished in %s (%d pages, %d external links)\n\n",
			elapsed.Round(time.Millisecond), result.PagesVisited, len(result.ExternalLinks))

		if err := outputReport(cfg, result); err != nil {
			logger.Error("report failed", "seed", seed, "error", err)
		}

		if err := saveResult(ctx, db, result, logger); err != nil {
			logger.Error("failed to save crawl result", "seed", seed, "error", err)
		}
	}

	return nil
}

// runBatchCrawl crawls multiple seeds concurrently.
//
// Design decision: We use errgroup with a concurrency limit instead of a
// hand-rolled worker pool. Each seed is an independent session crawling a
// different host, so parallelism here never multiplies load on one server.
func runBatchCrawl(ctx context.Context, cfg *config.Config, db *database.CrawlDB, logger *slog.Logger) error {
	fmt.Fprintf(os.Stderr, "Starting batch crawl of %d sites (concurrency: %d)...\n\n",
		len(cfg.Seeds), cfg.Concurrency)

	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	// mu serializes report output and database writes across goroutines.
	var mu sync.Mutex
	done := 0

	for _, seed := range cfg.Seeds {
		seed := seed
		g.Go(func() error {
			result, err := crawlSeed(gctx, cfg, seed, nil, logger)
			if err != nil && result == nil {
				logger.Error("crawl failed", "seed", seed, "error", err)
				fmt.Fprintf(os.Stderr, "Crawl error for %s: %v\n", seed, err)
				return nil
			}

			mu.Lock()
			defer mu.Unlock()

			done++
			fmt.Fprintf(os.Stderr, "[%d/%d] Crawl completed: %s (%d pages, %d external links)\n",
				done, len(cfg.Seeds), seed, result.PagesVisited, len(result.ExternalLinks))

			if err := outputReport(cfg, result); err != nil {
				logger.Error("report failed", "seed", seed, "error", err)
			}
			if err := saveResult(gctx, db, result, logger); err != nil {
				logger.Error("failed to save crawl result", "seed", seed, "error", err)
			}
			return nil
		})
	}

	err := g.Wait()

	elapsed := time.Since(startTime)
	fmt.Fprintf(os.Stderr, "\nBatch crawl completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// crawlSeed runs one crawl session for a seed URL. A non-nil result is
// returned even when the crawl was aborted, carrying the partial observations.
func crawlSeed(ctx context.Context, cfg *config.Config, seed string, progress crawler.ProgressFunc, logger *slog.Logger) (*model.CrawlResult, error) {
	session, err := crawler.NewSession(seed)
	if err != nil {
		return nil, err
	}

	engine := buildEngine(cfg, seed, progress, logger)

	if err := engine.Run(ctx, session); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return session.Result(), err
		}
		return nil, err
	}
	return session.Result(), nil
}

// buildEngine assembles a crawl engine for one seed, applying per-host
// overrides from the config file over the global flag settings.
func buildEngine(cfg *config.Config, seed string, progress crawler.ProgressFunc, logger *slog.Logger) *crawler.Engine {
	hostConfig := hostConfigFor(cfg, seed)

	delay := cfg.Delay
	if !hostConfig.Delay.IsZero() {
		delay = hostConfig.Delay.Duration
	}
	maxPages := cfg.MaxPages
	if hostConfig.MaxPages > 0 {
		maxPages = hostConfig.MaxPages
	}

	classifierOpts := []crawler.ClassifierOption{}
	if len(hostConfig.SkipExtensions) > 0 {
		classifierOpts = append(classifierOpts, crawler.WithSkipExtensions(hostConfig.SkipExtensions))
	} else if len(cfg.SkipExtensions) > 0 {
		classifierOpts = append(classifierOpts, crawler.WithSkipExtensions(cfg.SkipExtensions))
	}
	if len(hostConfig.ExclusionPatterns) > 0 {
		classifierOpts = append(classifierOpts, crawler.WithExclusionPatterns(hostConfig.ExclusionPatterns))
	} else if len(cfg.ExclusionPatterns) > 0 {
		classifierOpts = append(classifierOpts, crawler.WithExclusionPatterns(cfg.ExclusionPatterns))
	}

	fetcherOpts := []crawler.FetcherOption{}
	userAgent := cfg.UserAgent
	if hostConfig.UserAgent != "" {
		userAgent = hostConfig.UserAgent
	}
	if userAgent != "" {
		fetcherOpts = append(fetcherOpts, crawler.WithUserAgent(userAgent))
	}
	if cfg.MaxBodySize > 0 {
		fetcherOpts = append(fetcherOpts, crawler.WithMaxBodySize(cfg.MaxBodySize))
	}

	engineOpts := []crawler.Option{
		crawler.WithDelay(delay),
		crawler.WithMaxPages(maxPages),
		crawler.WithLogger(logger),
		crawler.WithClassifier(crawler.NewClassifier(classifierOpts...)),
		crawler.WithFetcherOptions(fetcherOpts...),
	}
	if progress != nil {
		engineOpts = append(engineOpts, crawler.WithProgress(progress))
	}

	client := &http.Client{Timeout: cfg.Timeout}
	return crawler.NewEngine(client, engineOpts...)
}

// hostConfigFor returns the per-host overrides for a seed URL.
func hostConfigFor(cfg *config.Config, seed string) config.HostConfig {
	if cfg.HostConfigs == nil {
		return config.HostConfig{}
	}
	u, err := url.Parse(seed)
	if err != nil {
		return cfg.HostConfigs.Defaults
	}
	return cfg.HostConfigs.GetHostConfig(u.Host)
}

// outputReport writes the crawl result in the requested format, applying the
// keyword filter first.
func outputReport(cfg *config.Config, result *model.CrawlResult) error {
	filtered := result.Filtered(cfg.Keyword)

	output, closer, err := openOutput(cfg.OutputFile)
	if err != nil {
		return err
	}
	defer closer()

	writer, err := newReportWriter(cfg.Format, output)
	if err != nil {
		return err
	}

	_, err = writer.Write(filtered)
	return err
}

// openOutput returns the report destination: the given file (created along
// with its parent directories) or stdout when path is empty.
func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// 0600 because exported link inventories can reveal private site structure
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// newReportWriter selects the report writer for a format name.
func newReportWriter(format string, output *os.File) (report.Writer, error) {
	switch format {
	case "table":
		return report.NewTableWriter(output), nil
	case "csv":
		return report.NewCSVWriter(output), nil
	case "json":
		return report.NewJSONWriter(output, report.WithPrettyPrint()), nil
	case "markdown":
		return report.NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("unknown report format: %s", format)
	}
}

// saveResult persists the crawl result to the database if enabled.
// If db is nil, this function is a no-op.
func saveResult(ctx context.Context, db *database.CrawlDB, result *model.CrawlResult, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveResult(ctx, result)
	if err != nil {
		return fmt.Errorf("failed to save crawl result: %w", err)
	}

	logger.Info("crawl result saved to database", "seed", result.Seed, "sessionID", id)
	return nil
}
