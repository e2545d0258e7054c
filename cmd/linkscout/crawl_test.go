package main

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/linkscout/internal/config"
)

// TestNewCrawlCmd tests the crawl command creation.
func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "crawl [url...]" {
			t.Errorf("expected use 'crawl [url...]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has timeout flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("timeout")
		if flag == nil {
			t.Fatal("expected timeout flag")
		}
		if flag.Shorthand != "t" {
			t.Errorf("expected shorthand 't', got %q", flag.Shorthand)
		}
	})

	t.Run("has delay flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("delay")
		if flag == nil {
			t.Fatal("expected delay flag")
		}
		if flag.Shorthand != "d" {
			t.Errorf("expected shorthand 'd', got %q", flag.Shorthand)
		}
		if flag.DefValue != "1s" {
			t.Errorf("expected default '1s', got %q", flag.DefValue)
		}
	})

	t.Run("has max-pages flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("max-pages")
		if flag == nil {
			t.Fatal("expected max-pages flag")
		}
		if flag.Shorthand != "p" {
			t.Errorf("expected shorthand 'p', got %q", flag.Shorthand)
		}
	})

	t.Run("has concurrency flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("concurrency")
		if flag == nil {
			t.Fatal("expected concurrency flag")
		}
		if flag.Shorthand != "b" {
			t.Errorf("expected shorthand 'b', got %q", flag.Shorthand)
		}
	})

	t.Run("has keyword flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("keyword")
		if flag == nil {
			t.Fatal("expected keyword flag")
		}
		if flag.Shorthand != "k" {
			t.Errorf("expected shorthand 'k', got %q", flag.Shorthand)
		}
	})

	t.Run("has format flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("format")
		if flag == nil {
			t.Fatal("expected format flag")
		}
		if flag.DefValue != config.DefaultFormat {
			t.Errorf("expected default %q, got %q", config.DefaultFormat, flag.DefValue)
		}
	})

	t.Run("has no-db flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("no-db") == nil {
			t.Fatal("expected no-db flag")
		}
	})
}

// TestBuildConfig tests config construction from command flags.
func TestBuildConfig(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("Timeout = %v, want %v", cfg.Timeout, config.DefaultTimeout)
		}
		if cfg.Delay != config.DefaultDelay {
			t.Errorf("Delay = %v, want %v", cfg.Delay, config.DefaultDelay)
		}
		if cfg.Format != config.DefaultFormat {
			t.Errorf("Format = %q, want %q", cfg.Format, config.DefaultFormat)
		}
		if !cfg.SaveToDB {
			t.Error("SaveToDB = false, want true")
		}
		if len(cfg.Seeds) != 1 || cfg.Seeds[0] != "https://example.com" {
			t.Errorf("Seeds = %v, want [https://example.com]", cfg.Seeds)
		}
	})

	t.Run("applies flag overrides", func(t *testing.T) {
		cmd := NewCrawlCmd()
		args := []string{
			"-t", "5s", "-d", "250ms", "-p", "100", "-b", "2",
			"-k", "github", "-f", "csv", "-o", "out.csv", "--no-db",
			"--user-agent", "custom-agent",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
		}
		if cfg.Delay != 250*time.Millisecond {
			t.Errorf("Delay = %v, want 250ms", cfg.Delay)
		}
		if cfg.MaxPages != 100 {
			t.Errorf("MaxPages = %d, want 100", cfg.MaxPages)
		}
		if cfg.Concurrency != 2 {
			t.Errorf("Concurrency = %d, want 2", cfg.Concurrency)
		}
		if cfg.Keyword != "github" {
			t.Errorf("Keyword = %q, want %q", cfg.Keyword, "github")
		}
		if cfg.Format != "csv" {
			t.Errorf("Format = %q, want %q", cfg.Format, "csv")
		}
		if cfg.OutputFile != "out.csv" {
			t.Errorf("OutputFile = %q, want %q", cfg.OutputFile, "out.csv")
		}
		if cfg.SaveToDB {
			t.Error("SaveToDB = true, want false with --no-db")
		}
		if cfg.UserAgent != "custom-agent" {
			t.Errorf("UserAgent = %q, want %q", cfg.UserAgent, "custom-agent")
		}
	})

	t.Run("loads explicit config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "linkscout.yaml")
		content := `
defaults:
  delay: 3s
hosts:
  www.example.com:
    maxPages: 50
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"-c", configPath}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"https://www.example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		hc := cfg.HostConfigs.GetHostConfig("www.example.com")
		if hc.MaxPages != 50 {
			t.Errorf("MaxPages = %d, want 50", hc.MaxPages)
		}
		if hc.Delay.Duration != 3*time.Second {
			t.Errorf("Delay = %v, want 3s", hc.Delay.Duration)
		}
	})

	t.Run("fails for missing explicit config file", func(t *testing.T) {
		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"-c", filepath.Join(t.TempDir(), "nope.yaml")}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := buildConfig(cmd, []string{"https://example.com"}); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}

// TestHostConfigFor tests per-host override resolution.
func TestHostConfigFor(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.HostConfigs = &config.File{
		Hosts: map[string]config.HostConfig{
			"www.example.com": {MaxPages: 7},
		},
	}

	t.Run("matches the seed's host", func(t *testing.T) {
		t.Parallel()
		hc := hostConfigFor(cfg, "https://www.example.com/start")
		if hc.MaxPages != 7 {
			t.Errorf("MaxPages = %d, want 7", hc.MaxPages)
		}
	})

	t.Run("falls back to defaults for unknown host", func(t *testing.T) {
		t.Parallel()
		hc := hostConfigFor(cfg, "https://other.example.com")
		if hc.MaxPages != 0 {
			t.Errorf("MaxPages = %d, want 0", hc.MaxPages)
		}
	})

	t.Run("handles nil host configs", func(t *testing.T) {
		t.Parallel()
		hc := hostConfigFor(config.NewConfig(), "https://example.com")
		if hc.MaxPages != 0 {
			t.Errorf("MaxPages = %d, want 0", hc.MaxPages)
		}
	})
}

// TestNewReportWriter tests report writer selection.
func TestNewReportWriter(t *testing.T) {
	t.Parallel()

	for _, format := range config.Formats {
		format := format
		t.Run(format, func(t *testing.T) {
			t.Parallel()
			w, err := newReportWriter(format, os.Stdout)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w == nil {
				t.Error("expected non-nil writer")
			}
		})
	}

	t.Run("rejects unknown format", func(t *testing.T) {
		t.Parallel()
		if _, err := newReportWriter("xml", os.Stdout); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

// TestCrawlCmdEndToEnd runs a full crawl against a local test server and
// checks the exported CSV.
func TestCrawlCmdEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>
			<a href="/about">About</a>
			<a href="https://github.com/nao1215">GitHub</a>
		</body></html>`))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>
			<a href="https://go.dev">Go</a>
			<a href="/">Home</a>
		</body></html>`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	outputPath := filepath.Join(t.TempDir(), "reports", "links.csv")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{
		"crawl", "--no-db", "-d", "0s", "-f", "csv", "-o", outputPath, server.URL,
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(outputPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header plus 2 observations, got %d records", len(records))
	}
	if records[0][0] != "External Link" || records[0][1] != "Linked From Page" {
		t.Errorf("unexpected header: %v", records[0])
	}

	urls := []string{records[1][0], records[2][0]}
	for _, want := range []string{"https://github.com/nao1215", "https://go.dev"} {
		found := false
		for _, u := range urls {
			if u == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected observation for %s, got %v", want, urls)
		}
	}

	for _, rec := range records[1:] {
		if !strings.HasPrefix(rec[1], server.URL) {
			t.Errorf("source %q does not point at the crawled site", rec[1])
		}
	}
}
