// Package config holds pagecheck tool configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"pagecheck/internal/browser"

	"gopkg.in/yaml.v3"
)

// Config holds all pagecheck configuration.
type Config struct {
	Browser browser.Config `yaml:"browser"`

	// ProbeTimeoutMs bounds the pre-flight reachability GET per target.
	ProbeTimeoutMs int `yaml:"probe_timeout_ms"`

	// ReportDir is where Markdown run reports are written.
	ReportDir string `yaml:"report_dir"`

	// HistoryPath overrides the XDG default location of the history DB.
	HistoryPath string `yaml:"history_path"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Browser:        browser.DefaultConfig(),
		ProbeTimeoutMs: 5000,
		ReportDir:      "reports",
	}
}

// ProbeTimeout returns the probe timeout.
func (c Config) ProbeTimeout() time.Duration {
	if c.ProbeTimeoutMs == 0 {
		return 5 * time.Second
	}
	return time.Duration(c.ProbeTimeoutMs) * time.Millisecond
}

// GetReportDir returns the report directory.
func (c Config) GetReportDir() string {
	if c.ReportDir == "" {
		return "reports"
	}
	return c.ReportDir
}

// Load reads config from path, layered over defaults. A missing file is not
// an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
