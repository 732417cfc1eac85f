//go:build integration

package check_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pagecheck/internal/browser"
	"pagecheck/internal/check"
	"pagecheck/internal/report"

	"github.com/stretchr/testify/require"
)

const impactHTML = `<!DOCTYPE html>
<html>
<head><title>Dashboard</title></head>
<body style="margin:0">
	<div style="height:2000px">spacer</div>
	<section id="impact" style="height:400px">
		<div class="metric-counter">120</div>
		<div class="metric-counter">98%</div>
		<div class="metric-counter">4.8</div>
		<div class="text-2xl font-bold">42%</div>
	</section>
</body>
</html>`

func TestRunnerDashboardScenario(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, impactHTML)
	}))
	defer ts.Close()

	shotPath := filepath.Join(t.TempDir(), "impact-section.png")
	expect := 3
	suite := &check.Suite{
		Name: "dashboard",
		Checks: []check.Check{{
			Name:          "impact-section",
			URL:           ts.URL,
			Section:       "#impact",
			CountSelector: ".metric-counter",
			ExpectCount:   &expect,
			TextSelector:  ".text-2xl.font-bold",
			Screenshot:    shotPath,
		}},
	}
	require.NoError(t, suite.Validate())

	cfg := browser.DefaultConfig()
	cfg.Headless = true

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	runner := check.NewRunner(cfg, 2*time.Second, nil)
	result, err := runner.Run(ctx, suite)
	require.NoError(t, err)
	require.False(t, result.Failed())

	c := result.Checks[0]
	require.Equal(t, check.StatusPass, c.Status)
	require.Equal(t, "Dashboard", c.PageTitle)
	require.Equal(t, 3, c.Count)
	require.Equal(t, []string{"42%"}, c.Texts)
	require.Equal(t, shotPath, c.ScreenshotPath)
	require.Positive(t, c.ScreenshotBytes)

	info, err := os.Stat(shotPath)
	require.NoError(t, err)
	require.Equal(t, c.ScreenshotBytes, info.Size())

	var sb strings.Builder
	report.NewConsoleWriter(&sb).Write(result)
	require.Contains(t, sb.String(), "Found 3 animated metrics")
	require.Contains(t, sb.String(), "Mini metrics found: 42%")
}

// A missing section must degrade into a failed check, not a crash, and the
// browser must still be released.
func TestRunnerMissingSection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Empty</title></head><body><p>nothing here</p></body></html>`)
	}))
	defer ts.Close()

	suite := &check.Suite{
		Name: "missing-section",
		Checks: []check.Check{{
			Name:       "impact-section",
			URL:        ts.URL,
			Section:    "#impact",
			Screenshot: filepath.Join(t.TempDir(), "never.png"),
		}},
	}
	require.NoError(t, suite.Validate())

	cfg := browser.DefaultConfig()
	cfg.Headless = true

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	runner := check.NewRunner(cfg, 2*time.Second, nil)
	result, err := runner.Run(ctx, suite)
	require.NoError(t, err)

	c := result.Checks[0]
	require.Equal(t, check.StatusFail, c.Status)
	require.Contains(t, c.Reason, "screenshot skipped")
	require.Empty(t, c.ScreenshotPath)
}
