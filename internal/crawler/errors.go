package crawler

import (
	"errors"
	"fmt"
)

// Crawl errors.
//
// Design decision: We use package-level sentinel errors for conditions callers
// branch on (errors.Is), and the typed *FetchError for per-URL failures that
// carry context. Fetch failures are contained within one loop iteration and
// never abort a run; the sentinels below are the only errors that do.
var (
	// ErrInvalidSeedURL is returned when the seed does not start with
	// "http://" or "https://". The check is a literal prefix test, matching
	// what the engine later relies on for external-link classification.
	ErrInvalidSeedURL = errors.New("invalid seed URL: must start with http:// or https://")

	// ErrSessionNotIdle is returned when Run is called on a session that has
	// already been used. A crawl is not re-entrant; call Reset first.
	ErrSessionNotIdle = errors.New("session already used: call Reset before crawling again")
)

// FetchError describes a failed page fetch: a network error, a timeout, or a
// non-2xx response. It is reported as a warning and the crawl continues; the
// failed URL simply contributes no links.
type FetchError struct {
	// URL is the page that failed to fetch.
	URL string

	// StatusCode is the HTTP status code, or zero if the request never
	// produced a response.
	StatusCode int

	// Err is the underlying transport error, or nil for status failures.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// Unwrap returns the underlying transport error, if any.
func (e *FetchError) Unwrap() error {
	return e.Err
}
