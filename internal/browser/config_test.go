package browser

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	var zero Config
	require.Equal(t, 1920, zero.GetViewportWidth())
	require.Equal(t, 1080, zero.GetViewportHeight())
	require.Equal(t, 30*time.Second, zero.NavigationTimeout())
	require.Equal(t, 10*time.Second, zero.ActionTimeout())
	require.Equal(t, time.Duration(0), zero.SettleDelay())
	require.Equal(t, "screenshots", zero.GetScreenshotDir())

	def := DefaultConfig()
	require.False(t, def.Headless)
	require.Equal(t, 2*time.Second, def.SettleDelay())

	negative := Config{SettleMs: -5}
	require.Equal(t, time.Duration(0), negative.SettleDelay())
}

func TestScreenshotPath(t *testing.T) {
	at := time.Date(2024, time.November, 2, 9, 5, 7, 0, time.UTC)

	require.Equal(t, filepath.Join("screenshots", "Error_20241102-090507.png"), ScreenshotPath("screenshots", "Error", at))
	require.Equal(t, filepath.Join("out", "RFQ_page_RFQ007686_20241102-090507.png"), ScreenshotPath("out", "RFQ_page_RFQ007686", at))
	require.Equal(t, filepath.Join("out", "a_b_c_20241102-090507.png"), ScreenshotPath("out", "a/b c", at))
	require.Equal(t, filepath.Join("out", "screenshot_20241102-090507.png"), ScreenshotPath("out", "  ", at))
}
