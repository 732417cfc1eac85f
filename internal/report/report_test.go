package report

import (
	"strings"
	"testing"
	"time"

	"pagecheck/internal/check"

	"github.com/stretchr/testify/require"
)

func sampleRun() *check.RunResult {
	expect := 3
	return &check.RunResult{
		ID:        "11111111-2222-3333-4444-555555555555",
		Suite:     "dashboard",
		StartedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		Elapsed:   3200 * time.Millisecond,
		Checks: []check.CheckResult{{
			Name:            "impact-section",
			URL:             "http://localhost:3000",
			Status:          check.StatusPass,
			PageTitle:       "Dashboard",
			Count:           3,
			CountLabel:      "animated metrics",
			ExpectedCount:   &expect,
			Texts:           []string{"42%"},
			TextLabel:       "Mini metrics",
			ScreenshotPath:  "impact-section.png",
			ScreenshotBytes: 12600,
			Elapsed:         2900 * time.Millisecond,
		}},
	}
}

func TestConsoleWriterPassingRun(t *testing.T) {
	var sb strings.Builder
	NewConsoleWriter(&sb).Write(sampleRun())
	out := sb.String()

	require.Contains(t, out, "🔍 Checking impact-section (http://localhost:3000)")
	require.Contains(t, out, "✅ Found 3 animated metrics")
	require.Contains(t, out, "📊 Mini metrics found: 42%")
	require.Contains(t, out, "📸 Screenshot saved: impact-section.png (12.3 KB)")
	require.Contains(t, out, "1 passed, 0 failed, 0 errored")
}

func TestConsoleWriterFailedRun(t *testing.T) {
	run := sampleRun()
	run.Checks[0].Status = check.StatusFail
	run.Checks[0].Count = 2
	run.Checks[0].Reason = `expected 3 elements matching ".metric-counter", found 2`
	run.Checks[0].SettleTimedOut = true

	var sb strings.Builder
	NewConsoleWriter(&sb).Write(run)
	out := sb.String()

	require.Contains(t, out, "✅ Found 2 animated metrics")
	require.Contains(t, out, `❌ expected 3 elements matching ".metric-counter", found 2`)
	require.Contains(t, out, "settle timeout")
	require.Contains(t, out, "0 passed, 1 failed, 0 errored")
}

func TestConsoleWriterErroredRun(t *testing.T) {
	run := sampleRun()
	run.Checks[0] = check.CheckResult{
		Name:   "impact-section",
		URL:    "http://localhost:3000",
		Status: check.StatusError,
		Reason: "target unreachable: connection refused",
	}

	var sb strings.Builder
	NewConsoleWriter(&sb).Write(run)
	out := sb.String()

	require.Contains(t, out, "💥 Check errored: target unreachable")
	require.NotContains(t, out, "Found 0")
}

func TestMarkdownWriter(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, NewMarkdownWriter(&sb).Write(sampleRun()))
	out := sb.String()

	require.Contains(t, out, "# Page Check Report")
	require.Contains(t, out, "## Results")
	require.Contains(t, out, "impact-section")
	require.Contains(t, out, "✅ pass")
	require.Contains(t, out, "3 / 3 expected")
	require.Contains(t, out, "42%")
	require.Contains(t, out, "impact-section.png")
	// All green: no details section.
	require.NotContains(t, out, "## Details")
}

func TestMarkdownWriterFailureDetails(t *testing.T) {
	run := sampleRun()
	run.Checks[0].Status = check.StatusFail
	run.Checks[0].Reason = "section \"#impact\" not found, screenshot skipped"

	var sb strings.Builder
	require.NoError(t, NewMarkdownWriter(&sb).Write(run))
	out := sb.String()

	require.Contains(t, out, "## Details")
	require.Contains(t, out, "screenshot skipped")
	require.Contains(t, out, "❌ Failed")
}

func TestRenderForTerminalFallsBack(t *testing.T) {
	md := "# Title\n\nplain body\n"
	out := RenderForTerminal(md)
	require.NotEmpty(t, out)
	require.Contains(t, out, "Title")
}
