package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/linkscout/internal/model"
)

// TableWriter outputs a human-readable text report for terminal display.
//
// Design decision: Plain ASCII rather than ANSI colors, so output pipes
// cleanly to files and other tools.
type TableWriter struct {
	baseWriter
}

// NewTableWriter creates a TableWriter that outputs to the given writer.
func NewTableWriter(output io.Writer) *TableWriter {
	return &TableWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the result as a text summary followed by the observations.
func (w *TableWriter) Write(result *model.CrawlResult) (int, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Crawl of %s\n", result.Seed)
	fmt.Fprintf(&b, "%s\n", strings.Repeat("=", len("Crawl of ")+len(result.Seed)))
	fmt.Fprintf(&b, "  State:           %s\n", result.State)
	fmt.Fprintf(&b, "  Pages visited:   %d\n", result.PagesVisited)
	fmt.Fprintf(&b, "  URLs discovered: %d\n", result.URLsDiscovered)
	fmt.Fprintf(&b, "  External links:  %d\n", len(result.ExternalLinks))
	fmt.Fprintf(&b, "  Duration:        %s\n", result.Duration().Round(time.Millisecond))
	if result.Error != "" {
		fmt.Fprintf(&b, "  Error:           %s\n", result.Error)
	}
	b.WriteString("\n")

	if len(result.ExternalLinks) == 0 {
		b.WriteString("No external links found.\n")
		return io.WriteString(w.output, b.String())
	}

	// Column width tracks the longest external URL so source pages align.
	width := len(csvHeader[0])
	for _, link := range result.ExternalLinks {
		if len(link.URL) > width {
			width = len(link.URL)
		}
	}

	fmt.Fprintf(&b, "%-*s  %s\n", width, csvHeader[0], csvHeader[1])
	fmt.Fprintf(&b, "%s  %s\n", strings.Repeat("-", width), strings.Repeat("-", len(csvHeader[1])))
	for _, link := range result.ExternalLinks {
		fmt.Fprintf(&b, "%-*s  %s\n", width, link.URL, link.Source)
	}

	return io.WriteString(w.output, b.String())
}
