package crawler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/nao1215/linkscout/internal/model"
)

// DefaultDelay is the pause between requests. One second is conservative and
// keeps the crawl polite toward the target host.
const DefaultDelay = 1 * time.Second

// DefaultTimeout bounds each page fetch.
const DefaultTimeout = 10 * time.Second

// ProgressFunc is invoked after each URL is marked visited, before it is
// fetched. discovered counts every distinct internal URL seen so far, so the
// ratio visited/discovered is a moving estimate: new discoveries grow the
// denominator after the numerator advances. The percentage can therefore
// appear to go backwards. That is the intended semantic, not a bug.
type ProgressFunc func(visited, discovered int, currentURL string)

// Engine drives the fetch -> extract -> enqueue loop over a Session until
// the frontier is exhausted.
//
// A single goroutine drives the loop and at most one fetch is in flight at a
// time. This is a deliberate simplicity and politeness tradeoff: the tool
// audits one site at a time and has no reason to hammer it.
type Engine struct {
	// fetcher retrieves pages.
	fetcher *Fetcher

	// extractor parses pages and classifies their links.
	extractor *Extractor

	// limiter paces requests.
	limiter *rate.Limiter

	// logger receives per-URL warnings. Fetch failures are warnings here, not
	// errors, because the crawl continues without them.
	logger *slog.Logger

	// progress, when set, is called once per visited URL.
	progress ProgressFunc

	// maxPages stops the run after this many pages. Zero means unlimited,
	// which relies on the site's internal link graph being finite; the limit
	// is the safety valve against calendar and pagination traps.
	maxPages int
}

// Option configures an Engine.
type Option func(*Engine)

// WithDelay sets the pause between requests. Zero disables pacing.
func WithDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithMaxPages sets a page-count safety valve. Zero means unlimited.
func WithMaxPages(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxPages = n
		}
	}
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// WithLogger sets the logger for per-URL warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClassifier replaces the default classifier, e.g. to supply custom
// exclusion patterns or skip extensions.
func WithClassifier(c *Classifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.extractor = NewExtractor(c)
		}
	}
}

// WithFetcherOptions forwards options to the underlying Fetcher.
func WithFetcherOptions(opts ...FetcherOption) Option {
	return func(e *Engine) {
		for _, opt := range opts {
			opt(e.fetcher)
		}
	}
}

// NewEngine creates an Engine using the given HTTP client.
// The client should carry the per-request timeout (DefaultTimeout unless the
// caller has reason to differ).
func NewEngine(client *http.Client, opts ...Option) *Engine {
	e := &Engine{
		fetcher:   NewFetcher(client),
		extractor: NewExtractor(NewClassifier()),
		limiter:   rate.NewLimiter(rate.Every(DefaultDelay), 1),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run crawls the session's site to exhaustion.
//
// Per-URL failures (network errors, non-2xx statuses, non-HTML content) are
// contained within their loop iteration: they are logged and the URL simply
// yields no links. Only context cancellation ends the run early; the session
// then finishes as aborted with its partial observations retained.
func (e *Engine) Run(ctx context.Context, s *Session) error {
	if err := s.begin(); err != nil {
		return err
	}

	for {
		current, ok := s.popFrontier()
		if !ok {
			break
		}

		// Defensive: the enqueue filter keeps visited URLs off the frontier,
		// so this should never fire.
		if s.isVisited(current) {
			continue
		}
		s.markVisited(current)

		if e.progress != nil {
			visited, discovered := s.progressSnapshot()
			e.progress(visited, discovered, current)
		}

		if err := e.limiter.Wait(ctx); err != nil {
			s.finish(model.RunStateAborted, err)
			return err
		}

		if err := e.processURL(ctx, s, current); err != nil {
			s.finish(model.RunStateAborted, err)
			return err
		}

		if e.maxPages > 0 && s.PagesVisited() >= e.maxPages {
			e.logger.Warn("page limit reached, stopping crawl",
				"limit", e.maxPages,
				"baseHost", s.BaseHost(),
			)
			break
		}
	}

	s.finish(model.RunStateCompleted, nil)
	return nil
}

// processURL fetches one page and feeds its links back into the session.
// The returned error is non-nil only for context cancellation; everything
// else is contained here.
func (e *Engine) processURL(ctx context.Context, s *Session, current string) error {
	doc, err := e.fetcher.Fetch(ctx, current)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.logger.Warn("fetch failed, continuing crawl", "url", current, "error", err)
		return nil
	}

	if !doc.IsHTML {
		e.logger.Warn("skipping non-HTML content",
			"url", current,
			"contentType", doc.ContentType,
		)
		return nil
	}

	internal, externals, err := e.extractor.ExtractLinks(bytes.NewReader(doc.Body), current, s.BaseHost())
	if err != nil {
		e.logger.Warn("failed to parse page, continuing crawl", "url", current, "error", err)
		return nil
	}

	s.appendExternals(externals)
	added := s.enqueue(internal)

	e.logger.Debug("page processed",
		"url", current,
		"newInternal", added,
		"external", len(externals),
	)
	return nil
}
