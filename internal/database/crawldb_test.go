package database

import (
	"context"
	"testing"
	"time"

	"github.com/nao1215/linkscout/internal/model"
)

// newTestDB opens a database in a temp directory that is removed with the test.
func newTestDB(t *testing.T) *CrawlDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return db
}

// testResult builds a crawl result with a few observations.
func testResult() *model.CrawlResult {
	start := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	return &model.CrawlResult{
		Seed:           "https://a.com",
		BaseHost:       "a.com",
		State:          model.RunStateCompleted,
		PagesVisited:   3,
		URLsDiscovered: 3,
		StartedAt:      start,
		FinishedAt:     start.Add(12 * time.Second),
		ExternalLinks: []model.ExternalLink{
			{URL: "https://b.com/page", Source: "https://a.com"},
			{URL: "https://c.com", Source: "https://a.com/about"},
			{URL: "https://b.com/page", Source: "https://a.com/about"},
		},
	}
}

// TestSaveAndGetResult tests round-tripping a crawl run.
func TestSaveAndGetResult(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	id, err := db.SaveResult(ctx, testResult())
	if err != nil {
		t.Fatalf("failed to save result: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero session id")
	}

	got, err := db.GetResult(ctx, id)
	if err != nil {
		t.Fatalf("failed to get result: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored result")
	}

	want := testResult()
	if got.Seed != want.Seed || got.BaseHost != want.BaseHost {
		t.Errorf("metadata mismatch: got %q/%q", got.Seed, got.BaseHost)
	}
	if got.State != model.RunStateCompleted {
		t.Errorf("expected completed state, got %s", got.State)
	}
	if got.PagesVisited != want.PagesVisited {
		t.Errorf("expected %d pages, got %d", want.PagesVisited, got.PagesVisited)
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Errorf("expected started at %s, got %s", want.StartedAt, got.StartedAt)
	}

	if len(got.ExternalLinks) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(got.ExternalLinks))
	}
	// Discovery order and duplicates survive the round trip.
	for i, link := range want.ExternalLinks {
		if got.ExternalLinks[i] != link {
			t.Errorf("observation %d = %+v, want %+v", i, got.ExternalLinks[i], link)
		}
	}
}

// TestGetResultMissing tests lookup of an unknown session.
func TestGetResultMissing(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	got, err := db.GetResult(context.Background(), 9999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing session, got %+v", got)
	}
}

// TestLatestSessionID tests latest-run lookup per seed.
func TestLatestSessionID(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	first, err := db.SaveResult(ctx, testResult())
	if err != nil {
		t.Fatalf("failed to save first run: %v", err)
	}
	second, err := db.SaveResult(ctx, testResult())
	if err != nil {
		t.Fatalf("failed to save second run: %v", err)
	}
	if second <= first {
		t.Fatalf("expected increasing session ids, got %d then %d", first, second)
	}

	latest, err := db.LatestSessionID(ctx, "https://a.com")
	if err != nil {
		t.Fatalf("failed to query latest: %v", err)
	}
	if latest != second {
		t.Errorf("expected latest id %d, got %d", second, latest)
	}

	none, err := db.LatestSessionID(ctx, "https://never-crawled.test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if none != 0 {
		t.Errorf("expected 0 for unknown seed, got %d", none)
	}
}

// TestListSessions tests the history listing.
func TestListSessions(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.SaveResult(ctx, testResult()); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	aborted := testResult()
	aborted.State = model.RunStateAborted
	aborted.Error = "context canceled"
	if _, err := db.SaveResult(ctx, aborted); err != nil {
		t.Fatalf("failed to save aborted run: %v", err)
	}

	records, err := db.ListSessions(ctx)
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Newest first.
	if records[0].State != model.RunStateAborted {
		t.Errorf("expected newest (aborted) run first, got %s", records[0].State)
	}
	if records[0].Error != "context canceled" {
		t.Errorf("expected stored error message, got %q", records[0].Error)
	}
	for _, rec := range records {
		if rec.ExternalCount != 3 {
			t.Errorf("expected 3 observations for session %d, got %d", rec.ID, rec.ExternalCount)
		}
	}
}

// TestExternalLinksKeywordFilter tests the stored-run keyword filter.
func TestExternalLinksKeywordFilter(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	id, err := db.SaveResult(ctx, testResult())
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	t.Run("keyword restricts rows", func(t *testing.T) {
		t.Parallel()

		links, err := db.ExternalLinks(ctx, id, "b.com")
		if err != nil {
			t.Fatalf("failed to query links: %v", err)
		}
		if len(links) != 2 {
			t.Fatalf("expected 2 matching observations, got %d", len(links))
		}
		for _, link := range links {
			if link.URL != "https://b.com/page" {
				t.Errorf("unexpected link %q", link.URL)
			}
		}
	})

	t.Run("filter is case-sensitive", func(t *testing.T) {
		t.Parallel()

		links, err := db.ExternalLinks(ctx, id, "B.COM")
		if err != nil {
			t.Fatalf("failed to query links: %v", err)
		}
		if len(links) != 0 {
			t.Errorf("expected no matches for upper-case keyword, got %d", len(links))
		}
	})

	t.Run("empty keyword returns everything in order", func(t *testing.T) {
		t.Parallel()

		links, err := db.ExternalLinks(ctx, id, "")
		if err != nil {
			t.Fatalf("failed to query links: %v", err)
		}
		if len(links) != 3 {
			t.Fatalf("expected 3 observations, got %d", len(links))
		}
		if links[0].Source != "https://a.com" || links[2].Source != "https://a.com/about" {
			t.Errorf("discovery order not preserved: %v", links)
		}
	})
}
