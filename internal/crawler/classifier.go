package crawler

import (
	"net/url"
	"strings"
)

// LinkClass is the classification of a discovered URL relative to a base host.
type LinkClass int

// Link classifications.
const (
	// LinkRejected means the URL is dropped: a skipped file type, an invalid
	// landing page, or a non-HTTP scheme such as mailto: or javascript:.
	LinkRejected LinkClass = iota

	// LinkInternal means the URL's host equals the base host. Internal URLs
	// are candidates for the crawl frontier.
	LinkInternal

	// LinkExternal means the URL points off-site over HTTP(S). External URLs
	// are recorded as observations, never crawled.
	LinkExternal
)

// String returns a human-readable name for the classification.
func (c LinkClass) String() string {
	switch c {
	case LinkInternal:
		return "internal"
	case LinkExternal:
		return "external"
	default:
		return "rejected"
	}
}

// DefaultSkipExtensions lists path extensions that never yield crawlable
// pages: documents, images, video, and archives.
var DefaultSkipExtensions = []string{
	".pdf", ".jpg", ".jpeg", ".png", ".gif", ".mp4",
	".zip", ".doc", ".docx", ".xls", ".xlsx",
}

// DefaultExclusionPatterns lists substrings that disqualify a URL as a
// landing page. The default excludes Divi theme blog-module URLs (et_blog),
// which generate paginated views of content reachable elsewhere.
var DefaultExclusionPatterns = []string{"et_blog"}

// Classifier decides how discovered URLs are treated during a crawl.
// All methods are pure functions over their string inputs; a Classifier is
// safe for concurrent use once constructed.
type Classifier struct {
	// skipExtensions are lower-case path suffixes to reject.
	skipExtensions []string

	// exclusionPatterns are literal substrings that disqualify a URL.
	exclusionPatterns []string
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithSkipExtensions replaces the default set of non-page path extensions.
func WithSkipExtensions(exts []string) ClassifierOption {
	return func(c *Classifier) {
		if len(exts) > 0 {
			c.skipExtensions = exts
		}
	}
}

// WithExclusionPatterns replaces the default landing-page exclusion patterns.
// Patterns are literal substrings matched against the full URL string.
// Fragment rejection ("#") is always applied and need not be listed.
func WithExclusionPatterns(patterns []string) ClassifierOption {
	return func(c *Classifier) {
		c.exclusionPatterns = patterns
	}
}

// NewClassifier creates a Classifier with the default skip extensions and
// exclusion patterns unless overridden by options.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		skipExtensions:    DefaultSkipExtensions,
		exclusionPatterns: DefaultExclusionPatterns,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ShouldSkip reports whether the URL's path ends with a non-page extension.
// The comparison is case-insensitive and looks at the path only, so query
// strings and fragments do not hide a skipped extension.
func (c *Classifier) ShouldSkip(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	path := strings.ToLower(u.Path)
	for _, ext := range c.skipExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// IsValidLandingPage reports whether the URL is acceptable as a crawl target.
//
// This is deliberately a literal substring test on the raw URL string, not a
// structural parse: a "#" anywhere in the URL rejects it, as does any
// configured exclusion pattern. Fragment-only anchors resolve to their page
// URL plus "#...", so rejecting on the character catches them all.
func (c *Classifier) IsValidLandingPage(rawURL string) bool {
	if strings.Contains(rawURL, "#") {
		return false
	}
	for _, pattern := range c.exclusionPatterns {
		if pattern != "" && strings.Contains(rawURL, pattern) {
			return false
		}
	}
	return true
}

// Classify categorizes a resolved absolute URL relative to baseHost.
//
// A URL is rejected if it should be skipped or is not a valid landing page.
// Otherwise it is internal when its host equals baseHost (case-insensitive,
// port included), external when the URL string starts with "http", and
// rejected for everything else (mailto:, javascript:, tel:, data:).
func (c *Classifier) Classify(rawURL, baseHost string) LinkClass {
	if c.ShouldSkip(rawURL) || !c.IsValidLandingPage(rawURL) {
		return LinkRejected
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return LinkRejected
	}

	if strings.EqualFold(u.Host, baseHost) {
		return LinkInternal
	}
	if strings.HasPrefix(rawURL, "http") {
		return LinkExternal
	}
	return LinkRejected
}
