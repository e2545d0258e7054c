// Package model defines the core data structures used throughout linkscout.
//
// This package contains the following main types:
//   - ExternalLink: A single observation of an off-site link and its source page
//   - CrawlResult: The outcome of one crawl run, including all observations
//   - RunState: The lifecycle state of a crawl run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, database, report) need to use these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
