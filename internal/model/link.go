package model

import "strings"

// ExternalLink records a single observation of an outbound hyperlink:
// a URL whose host differs from the crawl's base host, together with the
// internal page on which the anchor was found.
//
// Design decision: Observations are not deduplicated. The same external URL
// referenced from three internal pages yields three records, because knowing
// every page that links out is the whole point of the tool. Deduplication is
// left to consumers (e.g., a spreadsheet pivot after CSV export).
type ExternalLink struct {
	// URL is the absolute external URL as resolved from the anchor href.
	URL string `json:"url"`

	// Source is the URL of the internal page that referenced it.
	Source string `json:"source"`
}

// FilterLinks returns the observations whose external URL contains keyword.
//
// The match is a case-sensitive substring test against the external URL only,
// never the source page. An empty keyword matches everything. The returned
// slice is always a fresh copy so callers can mutate it freely.
func FilterLinks(links []ExternalLink, keyword string) []ExternalLink {
	filtered := make([]ExternalLink, 0, len(links))
	for _, link := range links {
		if keyword == "" || strings.Contains(link.URL, keyword) {
			filtered = append(filtered, link)
		}
	}
	return filtered
}
