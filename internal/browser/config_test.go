package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.False(t, cfg.IsHeadless())
	require.Equal(t, 1920, cfg.GetViewportWidth())
	require.Equal(t, 1080, cfg.GetViewportHeight())
	require.Equal(t, 30*time.Second, cfg.NavigationTimeout())
	require.Equal(t, 2*time.Second, cfg.IdleWindow())
	require.Equal(t, time.Duration(0), cfg.SlowMotion())
}

func TestConfigZeroValueAccessors(t *testing.T) {
	var cfg Config

	require.Equal(t, 1920, cfg.GetViewportWidth())
	require.Equal(t, 1080, cfg.GetViewportHeight())
	require.Equal(t, 30*time.Second, cfg.NavigationTimeout())
	require.Equal(t, 2*time.Second, cfg.IdleWindow())
}

func TestConfigOverrides(t *testing.T) {
	cfg := Config{
		ViewportWidth:       1280,
		ViewportHeight:      720,
		NavigationTimeoutMs: 5000,
		SlowMotionMs:        250,
		IdleWindowMs:        500,
	}

	require.Equal(t, 1280, cfg.GetViewportWidth())
	require.Equal(t, 720, cfg.GetViewportHeight())
	require.Equal(t, 5*time.Second, cfg.NavigationTimeout())
	require.Equal(t, 250*time.Millisecond, cfg.SlowMotion())
	require.Equal(t, 500*time.Millisecond, cfg.IdleWindow())
}

func TestBoundingRectApproxEqual(t *testing.T) {
	base := boundingRect{X: 10, Y: 20, W: 300, H: 150}

	require.True(t, base.approxEqual(base))
	require.True(t, base.approxEqual(boundingRect{X: 10.4, Y: 20, W: 300, H: 150}))
	require.False(t, base.approxEqual(boundingRect{X: 11, Y: 20, W: 300, H: 150}))
	require.False(t, base.approxEqual(boundingRect{X: 10, Y: 20, W: 300, H: 250}))
}
