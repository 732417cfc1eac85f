package browser

import "time"

// Config holds browser configuration.
type Config struct {
	DebuggerURL         string `yaml:"debugger_url"`
	Bin                 string `yaml:"bin"`
	Headless            bool   `yaml:"headless"`
	SlowMotionMs        int    `yaml:"slow_motion_ms"`
	ViewportWidth       int    `yaml:"viewport_width"`
	ViewportHeight      int    `yaml:"viewport_height"`
	NavigationTimeoutMs int    `yaml:"navigation_timeout_ms"`
	IdleWindowMs        int    `yaml:"idle_window_ms"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:            false,
		ViewportWidth:       1920,
		ViewportHeight:      1080,
		NavigationTimeoutMs: 30000,
		IdleWindowMs:        2000,
	}
}

// IsHeadless returns the headless setting.
func (c Config) IsHeadless() bool {
	return c.Headless
}

// GetViewportWidth returns viewport width.
func (c Config) GetViewportWidth() int {
	if c.ViewportWidth == 0 {
		return 1920
	}
	return c.ViewportWidth
}

// GetViewportHeight returns viewport height.
func (c Config) GetViewportHeight() int {
	if c.ViewportHeight == 0 {
		return 1080
	}
	return c.ViewportHeight
}

// NavigationTimeout returns the navigation timeout.
func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// SlowMotion returns the per-action delay used when watching a check run live.
func (c Config) SlowMotion() time.Duration {
	if c.SlowMotionMs <= 0 {
		return 0
	}
	return time.Duration(c.SlowMotionMs) * time.Millisecond
}

// IdleWindow returns how long network activity must stay quiet after load
// before a page counts as settled.
func (c Config) IdleWindow() time.Duration {
	if c.IdleWindowMs == 0 {
		return 2 * time.Second
	}
	return time.Duration(c.IdleWindowMs) * time.Millisecond
}
