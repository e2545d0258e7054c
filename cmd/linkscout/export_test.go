package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/linkscout/internal/database"
	"github.com/nao1215/linkscout/internal/model"
)

// TestNewExportCmd tests the export command creation.
func TestNewExportCmd(t *testing.T) {
	t.Parallel()

	cmd := NewExportCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "export" {
			t.Errorf("expected use 'export', got %q", cmd.Use)
		}
	})

	t.Run("has session flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("session")
		if flag == nil {
			t.Fatal("expected session flag")
		}
		if flag.Shorthand != "s" {
			t.Errorf("expected shorthand 's', got %q", flag.Shorthand)
		}
	})

	t.Run("has seed flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("seed") == nil {
			t.Fatal("expected seed flag")
		}
	})

	t.Run("defaults to csv format", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("format")
		if flag == nil {
			t.Fatal("expected format flag")
		}
		if flag.DefValue != "csv" {
			t.Errorf("expected default 'csv', got %q", flag.DefValue)
		}
	})
}

// TestListSessions tests the stored-session listing.
func TestListSessions(t *testing.T) {
	t.Parallel()

	newCmdWithBuffer := func() (*cobra.Command, *bytes.Buffer) {
		var buf bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&buf)
		return cmd, &buf
	}

	t.Run("reports empty database", func(t *testing.T) {
		t.Parallel()

		db, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })

		cmd, buf := newCmdWithBuffer()
		if err := listSessions(context.Background(), cmd, db); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No stored crawl sessions") {
			t.Errorf("expected empty-database notice, got %q", buf.String())
		}
	})

	t.Run("lists stored sessions", func(t *testing.T) {
		t.Parallel()

		db, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })

		started := time.Now().Add(-time.Minute)
		result := &model.CrawlResult{
			Seed:           "https://example.com",
			BaseHost:       "example.com",
			State:          model.RunStateCompleted,
			PagesVisited:   4,
			URLsDiscovered: 9,
			StartedAt:      started,
			FinishedAt:     started.Add(5 * time.Second),
			ExternalLinks: []model.ExternalLink{
				{URL: "https://go.dev", Source: "https://example.com"},
			},
		}
		if _, err := db.SaveResult(context.Background(), result); err != nil {
			t.Fatalf("failed to save result: %v", err)
		}

		cmd, buf := newCmdWithBuffer()
		if err := listSessions(context.Background(), cmd, db); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := buf.String()
		if !strings.Contains(got, "https://example.com") {
			t.Errorf("expected seed in listing, got %q", got)
		}
		if !strings.Contains(got, "completed") {
			t.Errorf("expected state in listing, got %q", got)
		}
	})
}
