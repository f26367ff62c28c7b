package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default text logger on stderr, `debug` lowers the
// level to include ReportDebug output.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
