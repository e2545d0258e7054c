package model

import "time"

// RunState is the lifecycle state of a crawl run.
//
// State transitions are strictly forward:
//
//	Idle -> Running -> Completed
//	                \-> Aborted (context cancelled or fatal error)
//
// A session that has left Idle must be reset before it can run again.
type RunState string

// Run states.
const (
	// RunStateIdle means the session has been created or reset and no crawl
	// has started yet.
	RunStateIdle RunState = "idle"

	// RunStateRunning means the crawl loop is actively processing the frontier.
	RunStateRunning RunState = "running"

	// RunStateCompleted means the frontier was drained to exhaustion.
	RunStateCompleted RunState = "completed"

	// RunStateAborted means the run stopped early. Partial results are retained
	// and remain exportable.
	RunStateAborted RunState = "aborted"
)

// CrawlResult is the outcome of a single crawl run.
//
// Design decision: The result is a plain serializable snapshot detached from
// the session that produced it. This lets the database and report packages
// consume results without holding a reference to live crawl state.
type CrawlResult struct {
	// Seed is the URL the crawl started from.
	Seed string `json:"seed"`

	// BaseHost is the host of the seed URL. It defines the internal/external
	// boundary for the entire run and never changes mid-crawl.
	BaseHost string `json:"base_host"`

	// State is the final run state (completed or aborted).
	State RunState `json:"state"`

	// PagesVisited is the number of URLs fetched and processed.
	PagesVisited int `json:"pages_visited"`

	// URLsDiscovered is the total number of distinct internal URLs seen,
	// visited or not. Equal to PagesVisited when the run completed.
	URLsDiscovered int `json:"urls_discovered"`

	// StartedAt is when the crawl loop began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the crawl loop ended, by exhaustion or abort.
	FinishedAt time.Time `json:"finished_at"`

	// ExternalLinks holds every external-link observation in discovery order.
	ExternalLinks []ExternalLink `json:"external_links"`

	// Error describes why an aborted run stopped. Empty for completed runs.
	Error string `json:"error,omitempty"`
}

// Duration returns the wall-clock time the crawl took.
func (r *CrawlResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Filtered returns a shallow copy of the result whose ExternalLinks are
// restricted to observations matching keyword (see FilterLinks).
func (r *CrawlResult) Filtered(keyword string) *CrawlResult {
	filtered := *r
	filtered.ExternalLinks = FilterLinks(r.ExternalLinks, keyword)
	return &filtered
}
