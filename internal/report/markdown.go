package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/nao1215/linkscout/internal/model"
)

// MarkdownWriter outputs the crawl result as GitHub Flavored Markdown,
// designed for sharing with site owners or pasting into an issue.
//
// Design decision: We use the nao1215/markdown library for fluent, type-safe
// markdown generation with proper table support.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the result as Markdown.
func (w *MarkdownWriter) Write(result *model.CrawlResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("External Links Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed", "`" + result.Seed + "`"},
			{"Base Host", "`" + result.BaseHost + "`"},
			{"State", string(result.State)},
			{"Pages Crawled", strconv.Itoa(result.PagesVisited)},
			{"URLs Discovered", strconv.Itoa(result.URLsDiscovered)},
			{"External Links", strconv.Itoa(len(result.ExternalLinks))},
			{"Crawl Date", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")

	if result.Error != "" {
		md.Warning("The crawl was aborted: " + result.Error + ". Results below are partial.")
		md.PlainText("")
	}

	md.H2("External Links")
	md.PlainText("")

	if len(result.ExternalLinks) == 0 {
		md.PlainText("No external links found.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, 0, len(result.ExternalLinks))
	for _, link := range result.ExternalLinks {
		rows = append(rows, []string{link.URL, link.Source})
	}
	md.Table(markdown.TableSet{
		Header: []string{csvHeader[0], csvHeader[1]},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}
