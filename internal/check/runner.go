package check

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pagecheck/internal/browser"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Runner executes suites. One browser per run, one page per check.
type Runner struct {
	browserCfg   browser.Config
	probeTimeout time.Duration
	log          *zap.Logger
}

// NewRunner creates a runner. A nil logger disables logging.
func NewRunner(browserCfg browser.Config, probeTimeout time.Duration, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if probeTimeout <= 0 {
		probeTimeout = 5 * time.Second
	}
	return &Runner{browserCfg: browserCfg, probeTimeout: probeTimeout, log: log}
}

// Run probes every target, launches the browser only if at least one is
// reachable, and executes the checks. The browser is released on every exit
// path. A failed check is reported in the result, not as an error; the
// returned error means the run itself could not be executed (e.g. no
// browser binary).
func (r *Runner) Run(ctx context.Context, suite *Suite) (*RunResult, error) {
	run := &RunResult{
		ID:        uuid.NewString(),
		Suite:     suite.Name,
		StartedAt: time.Now(),
	}
	results := make([]CheckResult, len(suite.Checks))

	// Reachability gate: an unreachable target fails its check before any
	// browser output is produced.
	titles := make([]string, len(suite.Checks))
	reachable := make([]bool, len(suite.Checks))
	anyReachable := false
	for i, c := range suite.Checks {
		title, err := Probe(ctx, c.URL, r.probeTimeout)
		if err != nil {
			r.log.Warn("probe failed", zap.String("check", c.Name), zap.String("url", c.URL), zap.Error(err))
			results[i] = CheckResult{
				Name:   c.Name,
				URL:    c.URL,
				Status: StatusError,
				Reason: err.Error(),
			}
			continue
		}
		titles[i] = title
		reachable[i] = true
		anyReachable = true
	}

	if !anyReachable {
		run.Checks = results
		run.Elapsed = time.Since(run.StartedAt)
		return run, nil
	}

	session, err := browser.Launch(ctx, r.browserCfg, r.log)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			r.log.Warn("browser shutdown failed", zap.Error(err))
		}
	}()

	limit := suite.Parallel
	if limit < 1 {
		limit = 1
	}
	g := new(errgroup.Group)
	g.SetLimit(limit)
	for i := range suite.Checks {
		if !reachable[i] {
			continue
		}
		g.Go(func() error {
			results[i] = r.runCheck(ctx, session, suite.Checks[i], titles[i])
			return nil
		})
	}
	_ = g.Wait()

	run.Checks = results
	run.Elapsed = time.Since(run.StartedAt)
	return run, nil
}

func (r *Runner) runCheck(ctx context.Context, session *browser.Session, c Check, title string) CheckResult {
	start := time.Now()
	out := CheckResult{
		Name:          c.Name,
		URL:           c.URL,
		Status:        StatusPass,
		PageTitle:     title,
		ExpectedCount: c.ExpectCount,
	}
	if c.CountSelector != "" {
		out.CountLabel = c.GetCountLabel()
	}
	if c.TextSelector != "" {
		out.TextLabel = c.GetTextLabel()
	}
	defer func() {
		out.Elapsed = time.Since(start)
	}()

	page, err := session.OpenPage(ctx, c.URL)
	if err != nil {
		out.Status = StatusError
		out.Reason = err.Error()
		return out
	}
	defer func() {
		if err := page.Close(); err != nil {
			r.log.Debug("page close failed", zap.String("check", c.Name), zap.Error(err))
		}
	}()

	if c.Section != "" {
		if err := page.ScrollIntoView(ctx, c.Section); err != nil {
			out.Status = StatusError
			out.Reason = err.Error()
			return out
		}
		if err := page.WaitSettled(ctx, c.Section, c.SettleQuiet(), c.SettleTimeout()); err != nil {
			if !errors.Is(err, browser.ErrSettleTimeout) {
				out.Status = StatusError
				out.Reason = err.Error()
				return out
			}
			// Keep going: a still-moving section is worth reporting, not
			// worth abandoning the remaining steps over.
			out.SettleTimedOut = true
			r.log.Warn("section did not settle", zap.String("check", c.Name), zap.String("section", c.Section))
		}
	}

	if c.CountSelector != "" {
		count, err := page.Count(ctx, c.CountSelector)
		if err != nil {
			out.Status = StatusError
			out.Reason = err.Error()
			return out
		}
		out.Count = count
		if c.ExpectCount != nil && count != *c.ExpectCount {
			out.Status = StatusFail
			out.Reason = fmt.Sprintf("expected %d elements matching %q, found %d", *c.ExpectCount, c.CountSelector, count)
		}
	}

	if c.Screenshot != "" {
		size, err := page.ScreenshotElement(ctx, c.Section, c.Screenshot)
		switch {
		case errors.Is(err, browser.ErrElementNotFound):
			out.Status = StatusFail
			if out.Reason == "" {
				out.Reason = fmt.Sprintf("section %q not found, screenshot skipped", c.Section)
			}
		case err != nil:
			out.Status = StatusError
			out.Reason = err.Error()
			return out
		default:
			out.ScreenshotPath = c.Screenshot
			out.ScreenshotBytes = size
		}
	}

	if c.TextSelector != "" {
		texts, err := page.Texts(ctx, c.TextSelector)
		if err != nil {
			out.Status = StatusError
			out.Reason = err.Error()
			return out
		}
		out.Texts = texts
	}

	return out
}
