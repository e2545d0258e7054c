// Package report renders crawl results in several output formats.
//
// Four writers share one interface:
//   - TableWriter: human-readable text for the terminal (default)
//   - CSVWriter: the two-column export format (External Link, Linked From Page)
//   - JSONWriter: the full result for tool integration
//   - MarkdownWriter: a shareable report with summary and results tables
//
// Writers render whatever result they are given; keyword filtering happens
// before the result reaches a writer (model.CrawlResult.Filtered).
package report
