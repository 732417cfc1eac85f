package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"pagecheck/internal/check"

	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs run reports in Markdown, for the history store and
// for sharing.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write renders the full report.
func (w *MarkdownWriter) Write(run *check.RunResult) error {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeResults(md, run)
	w.writeFailures(md, run)

	return md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *check.RunResult) {
	md.H1("Page Check Report")
	md.PlainText("")

	passed, failed, errored := run.Counts()
	status := "✅ Passed"
	if run.Failed() {
		status = "❌ Failed"
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Suite", run.Suite},
			{"Run ID", "`" + run.ID + "`"},
			{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", run.Elapsed.Round(10 * time.Millisecond).String()},
			{"Status", status},
			{"Checks", fmt.Sprintf("%d passed / %d failed / %d errored", passed, failed, errored)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeResults(md *markdown.Markdown, run *check.RunResult) {
	md.H2("Results")
	md.PlainText("")

	rows := make([][]string, 0, len(run.Checks))
	for _, c := range run.Checks {
		rows = append(rows, []string{
			c.Name,
			c.URL,
			statusIcon(c.Status),
			countCell(c),
			strings.Join(c.Texts, ", "),
			screenshotCell(c),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Check", "URL", "Status", "Count", "Texts", "Screenshot"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, run *check.RunResult) {
	var failing []check.CheckResult
	for _, c := range run.Checks {
		if c.Status != check.StatusPass || c.SettleTimedOut {
			failing = append(failing, c)
		}
	}
	if len(failing) == 0 {
		return
	}

	md.H2("Details")
	md.PlainText("")
	for _, c := range failing {
		if c.Reason != "" {
			md.PlainText(fmt.Sprintf("- **%s**: %s", c.Name, c.Reason))
		}
		if c.SettleTimedOut {
			md.PlainText(fmt.Sprintf("- **%s**: section kept animating past the settle timeout", c.Name))
		}
	}
	md.PlainText("")
}

func statusIcon(s check.Status) string {
	switch s {
	case check.StatusPass:
		return "✅ pass"
	case check.StatusFail:
		return "❌ fail"
	default:
		return "💥 error"
	}
}

func countCell(c check.CheckResult) string {
	if c.CountLabel == "" {
		return ""
	}
	if c.ExpectedCount != nil {
		return fmt.Sprintf("%d / %d expected", c.Count, *c.ExpectedCount)
	}
	return strconv.Itoa(c.Count)
}

func screenshotCell(c check.CheckResult) string {
	if c.ScreenshotPath == "" {
		return ""
	}
	return fmt.Sprintf("`%s` (%.1f KB)", c.ScreenshotPath, float64(c.ScreenshotBytes)/1024)
}
