package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"go.opentelemetry.io/otel"
)

var meter = otel.Meter("bcflow.host_stats")
var cpuGauge, _ = meter.Float64Gauge("host_cpu_usage")
var availableMemoryGauge, _ = meter.Int64Gauge("host_available_mb")
var goroutineGauge, _ = meter.Int64Gauge("goroutine_count")

// InstrumentHostStats records host load every interval until ctx is done.
// Browser runs are heavy, so the host is what usually slows a workflow down.
func InstrumentHostStats(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cpuUsage, err := cpu.PercentWithContext(ctx, 0, false)
				if err == nil && len(cpuUsage) > 0 {
					cpuGauge.Record(ctx, cpuUsage[0])
				} else if err != nil {
					slog.Debug("failed to read cpu usage", "err", err.Error())
				}

				vmem, err := mem.VirtualMemoryWithContext(ctx)
				if err == nil {
					availableMemoryGauge.Record(ctx, int64(vmem.Available>>20))
				}
				goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
			case <-ctx.Done():
				return
			}
		}
	}()
}
