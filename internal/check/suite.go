// Package check defines smoke-check suites and the runner that executes
// them against a live browser.
package check

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Suite is a named collection of page checks loaded from a YAML file.
type Suite struct {
	Name     string  `yaml:"name"`
	Parallel int     `yaml:"parallel"`
	Checks   []Check `yaml:"checks"`
}

// Check verifies that one page section renders with its expected elements.
type Check struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`

	// Section is the CSS selector of the element scrolled into view and
	// captured by the screenshot step.
	Section string `yaml:"section"`

	// CountSelector is counted after the section has settled. When
	// ExpectCount is set the check fails unless the count matches exactly.
	// CountLabel names the counted things in output.
	CountSelector string `yaml:"count_selector"`
	CountLabel    string `yaml:"count_label"`
	ExpectCount   *int   `yaml:"expect_count"`

	// TextSelector's matches have their text content extracted, with empty
	// strings dropped. TextLabel names them in output.
	TextSelector string `yaml:"text_selector"`
	TextLabel    string `yaml:"text_label"`

	// Screenshot is the PNG output path for the section's bounding box.
	// Overwritten on every run.
	Screenshot string `yaml:"screenshot"`

	SettleQuietMs   int `yaml:"settle_quiet_ms"`
	SettleTimeoutMs int `yaml:"settle_timeout_ms"`
}

// GetCountLabel returns the display name for counted elements.
func (c Check) GetCountLabel() string {
	if c.CountLabel == "" {
		return "animated metrics"
	}
	return c.CountLabel
}

// GetTextLabel returns the display name for extracted texts.
func (c Check) GetTextLabel() string {
	if c.TextLabel == "" {
		return "Mini metrics"
	}
	return c.TextLabel
}

// SettleQuiet returns how long the section's bounding box must hold still
// before its entry animation counts as finished.
func (c Check) SettleQuiet() time.Duration {
	if c.SettleQuietMs == 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.SettleQuietMs) * time.Millisecond
}

// SettleTimeout bounds the settle wait.
func (c Check) SettleTimeout() time.Duration {
	if c.SettleTimeoutMs == 0 {
		return 5 * time.Second
	}
	return time.Duration(c.SettleTimeoutMs) * time.Millisecond
}

// LoadSuite reads and validates a suite file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite: %w", err)
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parse suite %s: %w", path, err)
	}
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := suite.Validate(); err != nil {
		return nil, fmt.Errorf("suite %s: %w", path, err)
	}
	return &suite, nil
}

// Validate checks the suite for problems that would only surface mid-run.
func (s *Suite) Validate() error {
	if len(s.Checks) == 0 {
		return fmt.Errorf("no checks defined")
	}
	if s.Parallel < 0 {
		return fmt.Errorf("parallel must not be negative")
	}

	seen := make(map[string]bool, len(s.Checks))
	for i := range s.Checks {
		c := &s.Checks[i]
		if c.Name == "" {
			c.Name = fmt.Sprintf("check-%d", i+1)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate check name %q", c.Name)
		}
		seen[c.Name] = true

		if c.URL == "" {
			return fmt.Errorf("check %q: url is required", c.Name)
		}
		u, err := url.Parse(c.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("check %q: invalid url %q", c.Name, c.URL)
		}
		if c.Section == "" && c.CountSelector == "" && c.TextSelector == "" {
			return fmt.Errorf("check %q: at least one of section, count_selector, text_selector is required", c.Name)
		}
		if c.Screenshot != "" && c.Section == "" {
			return fmt.Errorf("check %q: screenshot requires a section selector", c.Name)
		}
		if c.ExpectCount != nil && c.CountSelector == "" {
			return fmt.Errorf("check %q: expect_count requires count_selector", c.Name)
		}
		if c.ExpectCount != nil && *c.ExpectCount < 0 {
			return fmt.Errorf("check %q: expect_count must not be negative", c.Name)
		}
	}
	return nil
}
