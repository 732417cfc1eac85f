// Package store persists run history in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pagecheck/internal/check"

	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"
)

// History is the SQLite-backed run archive.
type History struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// RunSummary is one row of `history list`.
type RunSummary struct {
	ID         string
	Suite      string
	StartedAt  time.Time
	Elapsed    time.Duration
	Passed     int
	Failed     int
	Errored    int
	ReportPath string
}

// StoredRun is a full stored run with its check rows.
type StoredRun struct {
	Summary RunSummary
	Checks  []check.CheckResult
}

// DefaultPath returns the XDG data location for the history database.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join("pagecheck", "history.db"))
}

// Open initializes the database at path, creating the schema if needed.
func Open(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal_mode: %w", err)
	}

	h := &History{db: db, path: path}
	if err := h.initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return h, nil
}

func (h *History) initialize() error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	suite       TEXT NOT NULL,
	started_at  INTEGER NOT NULL,
	elapsed_ms  INTEGER NOT NULL,
	passed      INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	errored     INTEGER NOT NULL,
	report_path TEXT
);
CREATE TABLE IF NOT EXISTS check_results (
	run_id           TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	name             TEXT NOT NULL,
	url              TEXT NOT NULL,
	status           TEXT NOT NULL,
	page_title       TEXT,
	element_count    INTEGER,
	expected_count   INTEGER,
	texts            TEXT,
	screenshot_path  TEXT,
	screenshot_bytes INTEGER,
	settle_timed_out INTEGER,
	reason           TEXT,
	elapsed_ms       INTEGER
);
CREATE INDEX IF NOT EXISTS idx_check_results_run ON check_results(run_id);
`
	if _, err := h.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// Close releases the database.
func (h *History) Close() error {
	return h.db.Close()
}

// SaveRun stores a run and its check rows in one transaction.
func (h *History) SaveRun(run *check.RunResult, reportPath string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	tx, err := h.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	passed, failed, errored := run.Counts()
	if _, err := tx.Exec(
		`INSERT INTO runs (id, suite, started_at, elapsed_ms, passed, failed, errored, report_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Suite, run.StartedAt.UnixMilli(), run.Elapsed.Milliseconds(),
		passed, failed, errored, reportPath,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, c := range run.Checks {
		texts, err := json.Marshal(c.Texts)
		if err != nil {
			return fmt.Errorf("marshal texts: %w", err)
		}
		var expected interface{}
		if c.ExpectedCount != nil {
			expected = *c.ExpectedCount
		}
		if _, err := tx.Exec(
			`INSERT INTO check_results
			 (run_id, name, url, status, page_title, element_count, expected_count,
			  texts, screenshot_path, screenshot_bytes, settle_timed_out, reason, elapsed_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, c.Name, c.URL, string(c.Status), c.PageTitle, c.Count, expected,
			string(texts), c.ScreenshotPath, c.ScreenshotBytes, c.SettleTimedOut, c.Reason,
			c.Elapsed.Milliseconds(),
		); err != nil {
			return fmt.Errorf("insert check result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (h *History) ListRuns(limit int) ([]RunSummary, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.Query(
		`SELECT id, suite, started_at, elapsed_ms, passed, failed, errored, report_path
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetRun returns a stored run by ID; a unique ID prefix also matches.
func (h *History) GetRun(id string) (*StoredRun, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rows, err := h.db.Query(
		`SELECT id, suite, started_at, elapsed_ms, passed, failed, errored, report_path
		 FROM runs WHERE id LIKE ? || '%' LIMIT 2`, id)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []RunSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("run %q not found", id)
	case 1:
	default:
		return nil, fmt.Errorf("run prefix %q is ambiguous", id)
	}

	run := &StoredRun{Summary: matches[0]}
	crows, err := h.db.Query(
		`SELECT name, url, status, page_title, element_count, expected_count,
		        texts, screenshot_path, screenshot_bytes, settle_timed_out, reason, elapsed_ms
		 FROM check_results WHERE run_id = ? ORDER BY rowid`, run.Summary.ID)
	if err != nil {
		return nil, fmt.Errorf("get check results: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var (
			c         check.CheckResult
			expected  sql.NullInt64
			texts     string
			elapsedMs int64
		)
		if err := crows.Scan(&c.Name, &c.URL, (*string)(&c.Status), &c.PageTitle,
			&c.Count, &expected, &texts, &c.ScreenshotPath, &c.ScreenshotBytes,
			&c.SettleTimedOut, &c.Reason, &elapsedMs); err != nil {
			return nil, fmt.Errorf("scan check result: %w", err)
		}
		if expected.Valid {
			v := int(expected.Int64)
			c.ExpectedCount = &v
		}
		if texts != "" {
			if err := json.Unmarshal([]byte(texts), &c.Texts); err != nil {
				return nil, fmt.Errorf("decode texts: %w", err)
			}
		}
		c.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		run.Checks = append(run.Checks, c)
	}
	return run, crows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSummary(row rowScanner) (RunSummary, error) {
	var (
		s          RunSummary
		startedMs  int64
		elapsedMs  int64
		reportPath sql.NullString
	)
	if err := row.Scan(&s.ID, &s.Suite, &startedMs, &elapsedMs,
		&s.Passed, &s.Failed, &s.Errored, &reportPath); err != nil {
		return RunSummary{}, fmt.Errorf("scan run: %w", err)
	}
	s.StartedAt = time.UnixMilli(startedMs)
	s.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	s.ReportPath = reportPath.String
	return s, nil
}
