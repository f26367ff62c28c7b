package browser

import (
	"path/filepath"
	"strings"
	"time"
)

const screenshotTimeLayout = "20060102-150405"

var stepReplacer = strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_")

// ScreenshotPath names a screenshot `<dir>/<step>_<YYYYmmdd-HHMMSS>.png`.
func ScreenshotPath(dir, step string, at time.Time) string {
	step = stepReplacer.Replace(strings.TrimSpace(step))
	if step == "" {
		step = "screenshot"
	}
	return filepath.Join(dir, step+"_"+at.Format(screenshotTimeLayout)+".png")
}
