package check

import "time"

// Status is the outcome of a single check.
type Status string

const (
	// StatusPass means every asserted step matched.
	StatusPass Status = "pass"
	// StatusFail means the page was reachable but an assertion did not hold.
	StatusFail Status = "fail"
	// StatusError means the check could not be executed at all.
	StatusError Status = "error"
)

// CheckResult records what one check observed.
type CheckResult struct {
	Name      string
	URL       string
	Status    Status
	PageTitle string

	Count         int
	CountLabel    string
	ExpectedCount *int
	Texts         []string
	TextLabel     string

	ScreenshotPath  string
	ScreenshotBytes int64

	SettleTimedOut bool
	Reason         string
	Elapsed        time.Duration
}

// RunResult aggregates one execution of a suite.
type RunResult struct {
	ID        string
	Suite     string
	StartedAt time.Time
	Elapsed   time.Duration
	Checks    []CheckResult
}

// Failed reports whether any check did not pass.
func (r *RunResult) Failed() bool {
	for _, c := range r.Checks {
		if c.Status != StatusPass {
			return true
		}
	}
	return false
}

// Counts returns the number of passed, failed, and errored checks.
func (r *RunResult) Counts() (passed, failed, errored int) {
	for _, c := range r.Checks {
		switch c.Status {
		case StatusPass:
			passed++
		case StatusFail:
			failed++
		case StatusError:
			errored++
		}
	}
	return passed, failed, errored
}
