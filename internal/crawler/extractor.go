package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/linkscout/internal/model"
)

// Extractor parses HTML and partitions anchor targets into internal crawl
// candidates and external-link observations.
//
// Design decision: We use golang.org/x/net/html rather than regex because it
// correctly handles the malformed HTML that real sites serve, and gives us a
// proper node tree to walk.
type Extractor struct {
	// classifier decides the fate of each resolved URL.
	classifier *Classifier
}

// NewExtractor creates an Extractor using the given classifier.
func NewExtractor(classifier *Classifier) *Extractor {
	return &Extractor{classifier: classifier}
}

// ExtractLinks parses the HTML read from r and returns the internal crawl
// candidates and external observations found on the page.
//
// Every href is resolved against pageURL before classification, so relative
// paths, protocol-relative URLs, and fragment-only anchors all become
// absolute first. Internal candidates are deduplicated within the page while
// preserving first-seen order; external observations keep document order and
// are never deduplicated. Hrefs that cannot be parsed are dropped silently;
// that is expected noise in arbitrary web HTML, not an error.
func (e *Extractor) ExtractLinks(r io.Reader, pageURL, baseHost string) ([]string, []model.ExternalLink, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil, err
	}

	doc, err := html.Parse(r)
	if err != nil {
		return nil, nil, err
	}

	var (
		internal  []string
		externals []model.ExternalLink
		seen      = make(map[string]struct{})
	)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := getAttr(n, "href"); href != "" {
				resolved, ok := resolveHref(base, href)
				if ok {
					switch e.classifier.Classify(resolved, baseHost) {
					case LinkInternal:
						if _, dup := seen[resolved]; !dup {
							seen[resolved] = struct{}{}
							internal = append(internal, resolved)
						}
					case LinkExternal:
						externals = append(externals, model.ExternalLink{
							URL:    resolved,
							Source: pageURL,
						})
					case LinkRejected:
						// Dropped.
					}
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return internal, externals, nil
}

// resolveHref resolves an anchor href against the page URL. It returns false
// for hrefs that cannot be parsed; those are dropped by the caller.
func resolveHref(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	return base.ResolveReference(u).String(), true
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
