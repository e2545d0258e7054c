package crawler

import (
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nao1215/linkscout/internal/model"
)

// Session owns the mutable state of one crawl run: the frontier of internal
// URLs waiting to be visited, the visited set, and the accumulated
// external-link observations.
//
// Design decision: State lives in an explicit per-run object passed to the
// engine rather than in the engine itself. The engine stays reusable across
// runs, and a second crawl cannot silently inherit a previous run's visited
// set: Run refuses any session that is not idle.
//
// Invariants held for the lifetime of a run:
//   - frontier and visited are disjoint
//   - visited only grows; no URL is fetched twice
//   - every observation's URL has a host different from the base host
//
// The engine is the only writer during a run. Read methods take the session
// lock so that an observer on another goroutine sees point-in-time snapshots;
// exact real-time progress is not a correctness requirement.
type Session struct {
	mu sync.Mutex

	// seed is the URL the crawl starts from.
	seed string

	// baseHost is the seed's host. It defines internal vs. external for the
	// whole run and never changes.
	baseHost string

	// frontier holds discovered-but-unvisited internal URLs. It is a set with
	// no traversal-order guarantee.
	frontier map[string]struct{}

	// visited holds URLs already fetched and processed.
	visited map[string]struct{}

	// externals accumulates observations in discovery order.
	externals []model.ExternalLink

	// state is the run lifecycle state.
	state model.RunState

	// startedAt and finishedAt bracket the most recent run.
	startedAt  time.Time
	finishedAt time.Time

	// runErr records why an aborted run stopped.
	runErr error
}

// NewSession creates an idle session for the given seed URL.
// It returns ErrInvalidSeedURL unless the seed starts with "http://" or
// "https://"; this is the only fatal validation and happens before any
// network activity.
func NewSession(seed string) (*Session, error) {
	seed = strings.TrimSpace(seed)
	if !strings.HasPrefix(seed, "http://") && !strings.HasPrefix(seed, "https://") {
		return nil, ErrInvalidSeedURL
	}

	u, err := url.Parse(seed)
	if err != nil || u.Host == "" {
		return nil, ErrInvalidSeedURL
	}

	s := &Session{
		seed:     seed,
		baseHost: u.Host,
	}
	s.reset()
	return s, nil
}

// Seed returns the seed URL.
func (s *Session) Seed() string { return s.seed }

// BaseHost returns the host that defines the internal/external boundary.
func (s *Session) BaseHost() string { return s.baseHost }

// State returns the current run state.
func (s *Session) State() model.RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PagesVisited returns the number of URLs fetched and processed so far.
func (s *Session) PagesVisited() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visited)
}

// URLsDiscovered returns the number of distinct internal URLs seen so far,
// visited or still on the frontier.
func (s *Session) URLsDiscovered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visited) + len(s.frontier)
}

// ExternalLinks returns a copy of the observations recorded so far.
func (s *Session) ExternalLinks() []model.ExternalLink {
	s.mu.Lock()
	defer s.mu.Unlock()
	links := make([]model.ExternalLink, len(s.externals))
	copy(links, s.externals)
	return links
}

// Filter returns the observations whose external URL contains keyword
// (case-sensitive; empty keyword matches all).
func (s *Session) Filter(keyword string) []model.ExternalLink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.FilterLinks(s.externals, keyword)
}

// Result returns a snapshot of the run outcome, detached from live state.
func (s *Session) Result() *model.CrawlResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &model.CrawlResult{
		Seed:           s.seed,
		BaseHost:       s.baseHost,
		State:          s.state,
		PagesVisited:   len(s.visited),
		URLsDiscovered: len(s.visited) + len(s.frontier),
		StartedAt:      s.startedAt,
		FinishedAt:     s.finishedAt,
		ExternalLinks:  make([]model.ExternalLink, len(s.externals)),
	}
	copy(result.ExternalLinks, s.externals)
	if s.runErr != nil {
		result.Error = s.runErr.Error()
	}
	return result
}

// Reset clears all accumulated state and returns the session to idle so the
// same seed can be crawled again from scratch.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// reset reinitializes run state. Callers must hold s.mu (or own the session
// exclusively, as NewSession does).
func (s *Session) reset() {
	s.frontier = map[string]struct{}{s.seed: {}}
	s.visited = make(map[string]struct{})
	s.externals = nil
	s.state = model.RunStateIdle
	s.startedAt = time.Time{}
	s.finishedAt = time.Time{}
	s.runErr = nil
}

// begin transitions the session into the running state.
// It fails unless the session is idle.
func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != model.RunStateIdle {
		return ErrSessionNotIdle
	}
	s.state = model.RunStateRunning
	s.startedAt = time.Now()
	return nil
}

// finish records the terminal state of the run.
func (s *Session) finish(state model.RunState, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.finishedAt = time.Now()
	s.runErr = err
}

// popFrontier removes and returns an arbitrary URL from the frontier.
func (s *Session) popFrontier() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for u := range s.frontier {
		delete(s.frontier, u)
		return u, true
	}
	return "", false
}

// isVisited reports whether the URL has already been processed.
func (s *Session) isVisited(u string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.visited[u]
	return ok
}

// markVisited adds the URL to the visited set.
func (s *Session) markVisited(u string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visited[u] = struct{}{}
}

// enqueue adds internal candidates to the frontier, discarding any URL that
// is already visited or already queued. Returns the number actually added.
func (s *Session) enqueue(candidates []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, u := range candidates {
		if _, ok := s.visited[u]; ok {
			continue
		}
		if _, ok := s.frontier[u]; ok {
			continue
		}
		s.frontier[u] = struct{}{}
		added++
	}
	return added
}

// appendExternals records external-link observations in discovery order.
func (s *Session) appendExternals(links []model.ExternalLink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.externals = append(s.externals, links...)
}

// progressSnapshot returns the visited and discovered counts together under
// one lock acquisition, for consistent progress reporting.
func (s *Session) progressSnapshot() (visited, discovered int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visited), len(s.visited) + len(s.frontier)
}
