// Package database provides SQLite-backed storage of crawl history.
//
// Every finished run (completed or aborted) can be saved: one row in
// crawl_sessions for the run itself and one row in external_links per
// observation, preserving discovery order. Stored runs can be listed,
// filtered by keyword, and re-exported without re-crawling the site.
//
// The database lives in the XDG data directory by default and uses
// modernc.org/sqlite, a pure-Go driver, so the binary stays cgo-free.
package database
