// Package report renders run results for the terminal and as Markdown.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"pagecheck/internal/check"

	"github.com/charmbracelet/lipgloss"
)

var (
	passStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// ConsoleWriter prints the human-readable status lines for a run.
type ConsoleWriter struct {
	out io.Writer
}

// NewConsoleWriter creates a ConsoleWriter targeting out.
func NewConsoleWriter(out io.Writer) *ConsoleWriter {
	return &ConsoleWriter{out: out}
}

// Write prints per-check status lines followed by a summary block.
func (w *ConsoleWriter) Write(run *check.RunResult) {
	fmt.Fprintln(w.out, headerStyle.Render(fmt.Sprintf("Suite: %s", run.Suite)))

	for _, c := range run.Checks {
		w.writeCheck(c)
	}

	passed, failed, errored := run.Counts()
	summary := fmt.Sprintf("%d passed, %d failed, %d errored in %s",
		passed, failed, errored, run.Elapsed.Round(10*time.Millisecond))
	if run.Failed() {
		fmt.Fprintln(w.out, failStyle.Render("❌ "+summary))
	} else {
		fmt.Fprintln(w.out, passStyle.Render("✅ "+summary))
	}
	fmt.Fprintln(w.out, dimStyle.Render("run "+run.ID))
}

func (w *ConsoleWriter) writeCheck(c check.CheckResult) {
	fmt.Fprintf(w.out, "🔍 Checking %s (%s)\n", c.Name, c.URL)
	if c.PageTitle != "" {
		fmt.Fprintf(w.out, "   %s\n", dimStyle.Render(c.PageTitle))
	}

	if c.Status == check.StatusError {
		fmt.Fprintf(w.out, "💥 Check errored: %s\n", c.Reason)
		return
	}

	if c.CountLabel != "" {
		fmt.Fprintf(w.out, "✅ Found %d %s\n", c.Count, c.CountLabel)
	}
	if c.TextLabel != "" {
		fmt.Fprintf(w.out, "📊 %s found: %s\n", c.TextLabel, strings.Join(c.Texts, ", "))
	}
	if c.ScreenshotPath != "" {
		fmt.Fprintf(w.out, "📸 Screenshot saved: %s (%.1f KB)\n",
			c.ScreenshotPath, float64(c.ScreenshotBytes)/1024)
	}
	if c.SettleTimedOut {
		fmt.Fprintln(w.out, "⚠️  Section kept animating past the settle timeout")
	}
	if c.Status == check.StatusFail {
		fmt.Fprintf(w.out, "❌ %s\n", c.Reason)
	}
}
