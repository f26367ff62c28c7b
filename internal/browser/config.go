package browser

import "time"

type Config struct {
	// Bin is the chromium executable, empty lets rod download or find one.
	Bin string `json:"bin"`
	// DebuggerURL connects to an already running browser instead of launching one.
	DebuggerURL         string `json:"debugger_url"`
	Headless            bool   `json:"headless"`
	ViewportWidth       int    `json:"viewport_width"`
	ViewportHeight      int    `json:"viewport_height"`
	NavigationTimeoutMs int    `json:"navigation_timeout_ms"`
	ActionTimeoutMs     int    `json:"action_timeout_ms"`
	SettleMs            int    `json:"settle_ms"`
	SlowMotionMs        int    `json:"slow_motion_ms"`
	ScreenshotDir       string `json:"screenshot_dir"`
}

// DefaultConfig is headful, so that whoever runs a workflow can watch it.
func DefaultConfig() Config {
	return Config{
		Headless:            false,
		ViewportWidth:       1920,
		ViewportHeight:      1080,
		NavigationTimeoutMs: 30000,
		ActionTimeoutMs:     10000,
		SettleMs:            2000,
		ScreenshotDir:       "screenshots",
	}
}

func (c Config) GetViewportWidth() int {
	if c.ViewportWidth == 0 {
		return 1920
	}
	return c.ViewportWidth
}

func (c Config) GetViewportHeight() int {
	if c.ViewportHeight == 0 {
		return 1080
	}
	return c.ViewportHeight
}

func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

func (c Config) ActionTimeout() time.Duration {
	if c.ActionTimeoutMs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ActionTimeoutMs) * time.Millisecond
}

// SettleDelay can be zero, unlike the timeouts.
func (c Config) SettleDelay() time.Duration {
	if c.SettleMs < 0 {
		return 0
	}
	return time.Duration(c.SettleMs) * time.Millisecond
}

func (c Config) GetScreenshotDir() string {
	if c.ScreenshotDir == "" {
		return "screenshots"
	}
	return c.ScreenshotDir
}
