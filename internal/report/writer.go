package report

import (
	"io"

	"github.com/nao1215/linkscout/internal/model"
)

// Writer defines the interface for report output.
// Implementations render a crawl result in one format.
//
// Design decision: We use an interface so the same result can go to a file,
// stdout, or a network connection in any format with the same calling code.
type Writer interface {
	// Write renders the result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.CrawlResult) (int, error)
}

// baseWriter provides the shared output destination for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// countingWriter wraps an io.Writer and counts bytes written, for writers
// built on encoders that don't report totals themselves.
type countingWriter struct {
	w io.Writer
	n int
}

// Write implements io.Writer.
func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += n
	return n, err
}
