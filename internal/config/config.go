package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These mirror the behavior of a careful human
// visitor: one request per second, a ten-second patience per page, and no
// artificial cap on how much of the site gets explored.
const (
	// DefaultTimeout bounds each page fetch. Ten seconds is long enough for
	// slow shared hosting while keeping dead links from stalling the crawl.
	DefaultTimeout = 10 * time.Second

	// DefaultDelay is the politeness pause between requests. One second keeps
	// the crawl well under the rate any small site can absorb.
	DefaultDelay = 1 * time.Second

	// DefaultMaxPages is the page-count safety valve. Zero means unlimited:
	// termination then relies on the site's internal link graph being finite.
	// Set a limit when crawling sites with calendar or pagination traps.
	DefaultMaxPages = 0

	// DefaultConcurrency is the number of seeds crawled in parallel when
	// several are given. Each seed gets its own session and its own paced
	// request stream, so this does not multiply load on any single host.
	DefaultConcurrency = 4

	// DefaultMaxBodySize limits the response body read per page. 5MB is
	// generous for HTML while preventing memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultFormat is the default report output format.
	DefaultFormat = "table"

	// AppName is the application name used for XDG directory paths.
	AppName = "linkscout"
)

// Formats lists the accepted report output formats.
var Formats = []string{"table", "csv", "json", "markdown"}

// Config holds all configuration options for linkscout.
// This struct is populated from defaults, the optional config file, and CLI
// flags, then passed through the application via dependency injection.
//
// Design decision: We use a single flat struct instead of nested sub-structs.
// The number of options is manageable, and nesting would add complexity
// without significant benefit.
type Config struct {
	// Seeds are the URLs to crawl. Each must start with http:// or https://.
	Seeds []string

	// Timeout bounds each individual page fetch.
	Timeout time.Duration

	// Delay is the pause between requests within one crawl. Zero disables it.
	Delay time.Duration

	// MaxPages stops a crawl after this many pages. Zero means unlimited.
	MaxPages int

	// Concurrency is the number of seeds crawled in parallel.
	Concurrency int

	// UserAgent is sent with every request. Empty means the built-in
	// browser-like default.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Zero means the default limit.
	MaxBodySize int64

	// Keyword filters the reported external links: only observations whose
	// external URL contains this substring (case-sensitive) are shown.
	// Empty shows everything.
	Keyword string

	// Format selects the report output: table, csv, json, or markdown.
	Format string

	// OutputFile, when set, writes the report there instead of stdout.
	OutputFile string

	// ExclusionPatterns are literal substrings that disqualify a URL as a
	// crawl target, in addition to the always-applied fragment check.
	ExclusionPatterns []string

	// SkipExtensions are path extensions that never yield crawlable pages.
	// Empty means the built-in defaults.
	SkipExtensions []string

	// ConfigFilePath is an explicit config file path. Empty triggers the
	// search in the current and home directories.
	ConfigFilePath string

	// HostConfigs holds per-host overrides loaded from the config file.
	HostConfigs *File

	// Verbose enables debug-level log output.
	Verbose bool

	// DBDir is the directory for the crawl history database.
	DBDir string

	// SaveToDB controls whether finished runs are persisted.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because many defaults are non-zero, and the constructor doubles as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		Delay:       DefaultDelay,
		MaxPages:    DefaultMaxPages,
		Concurrency: DefaultConcurrency,
		MaxBodySize: DefaultMaxBodySize,
		Format:      DefaultFormat,
	}
}

// XDGDataDir returns the XDG data directory for linkscout, where the crawl
// history database lives. On Linux: ~/.local/share/linkscout.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flag parsing, before any crawling begins, so that
// configuration mistakes fail fast with a specific error.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeed
	}
	for _, seed := range c.Seeds {
		if !strings.HasPrefix(seed, "http://") && !strings.HasPrefix(seed, "https://") {
			return ErrInvalidSeed
		}
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	validFormat := false
	for _, f := range Formats {
		if c.Format == f {
			validFormat = true
			break
		}
	}
	if !validFormat {
		return ErrInvalidFormat
	}

	return nil
}
