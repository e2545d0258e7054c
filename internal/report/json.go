package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/linkscout/internal/model"
)

// JSONWriter outputs the full crawl result as JSON, for tool integration and
// programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables indented JSON output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the result as JSON.
func (w *JSONWriter) Write(result *model.CrawlResult) (int, error) {
	cw := &countingWriter{w: w.output}
	enc := json.NewEncoder(cw)
	if w.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}
