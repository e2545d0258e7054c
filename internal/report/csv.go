package report

import (
	"encoding/csv"
	"io"

	"github.com/nao1215/linkscout/internal/model"
)

// CSV column headers. These names are part of the export contract; sheets
// and downstream scripts key on them.
var csvHeader = []string{"External Link", "Linked From Page"}

// CSVWriter exports observations as UTF-8 comma-separated text with a header
// row. Field values are the raw URL strings; the only escaping applied is
// standard CSV quoting.
//
// Design decision: We use encoding/csv from the standard library. CSV here is
// two string columns; a dedicated dependency would buy nothing.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the result's observations as CSV.
func (w *CSVWriter) Write(result *model.CrawlResult) (int, error) {
	cw := &countingWriter{w: w.output}
	enc := csv.NewWriter(cw)

	if err := enc.Write(csvHeader); err != nil {
		return cw.n, err
	}
	for _, link := range result.ExternalLinks {
		if err := enc.Write([]string{link.URL, link.Source}); err != nil {
			return cw.n, err
		}
	}

	enc.Flush()
	return cw.n, enc.Error()
}
