package crawler

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// DefaultUserAgent mimics a desktop browser. Many sites serve reduced or
// blocked content to obvious bot user agents, and the tool's purpose is to
// see the same links a visitor would.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"

// DefaultMaxBodySize limits the response body read per page. 5MB is generous
// for HTML while preventing memory exhaustion from unexpected responses.
const DefaultMaxBodySize = 5 * 1024 * 1024

// Document is the outcome of fetching a single URL.
type Document struct {
	// URL is the fetched URL.
	URL string

	// StatusCode is the HTTP response status code.
	StatusCode int

	// ContentType is the declared Content-Type header value.
	ContentType string

	// IsHTML reports whether the declared content type is HTML. When false,
	// Body is empty and the page yields no links, but the URL still counts
	// as visited.
	IsHTML bool

	// Body is the response body, truncated to the configured size limit.
	Body []byte
}

// Fetcher retrieves pages over HTTP.
//
// Design decision: We require an external *http.Client rather than building
// one because the timeout policy belongs to the caller, and tests can inject
// a client pointed at httptest servers.
//
// There are no retries: a transient failure permanently forfeits that URL's
// links for the run. This is a documented limitation, not an oversight.
type Fetcher struct {
	// client is the HTTP client, configured with the per-request timeout.
	client *http.Client

	// userAgent is sent with every request.
	userAgent string

	// maxBodySize bounds the response body read.
	maxBodySize int64
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// NewFetcher creates a Fetcher using the given HTTP client.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch issues a single GET for the URL and returns the resulting document.
//
// Network failures and non-2xx statuses return a *FetchError. A successful
// response with a non-HTML content type is not an error: the returned
// document has IsHTML false and an empty body, and the caller reports a
// warning and marks the URL visited anyway.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	doc := &Document{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	doc.IsHTML = strings.Contains(doc.ContentType, "text/html")

	// Non-HTML responses yield no links; skip the body read entirely.
	if !doc.IsHTML {
		return doc, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	doc.Body = body

	return doc, nil
}
