package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	require.Equal(t, DefaultConfig(), cfg)
	require.Equal(t, 5*time.Second, cfg.ProbeTimeout())
	require.Equal(t, "reports", cfg.GetReportDir())
	require.Equal(t, 1920, cfg.Browser.GetViewportWidth())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagecheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
browser:
  headless: true
  viewport_width: 1280
  slow_motion_ms: 100
probe_timeout_ms: 1000
report_dir: out/reports
history_path: /tmp/pagecheck-test.db
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.True(t, cfg.Browser.IsHeadless())
	require.Equal(t, 1280, cfg.Browser.GetViewportWidth())
	// Untouched fields keep their defaults.
	require.Equal(t, 1080, cfg.Browser.GetViewportHeight())
	require.Equal(t, 100*time.Millisecond, cfg.Browser.SlowMotion())
	require.Equal(t, time.Second, cfg.ProbeTimeout())
	require.Equal(t, "out/reports", cfg.GetReportDir())
	require.Equal(t, "/tmp/pagecheck-test.db", cfg.HistoryPath)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagecheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser: [not a map"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
