package activities

import (
	"context"
	"time"

	"github.com/hardwario/tapper/internal/device"
	"github.com/hardwario/tapper/internal/sysinfo"
)

// HeartbeatInterval is the cadence at which system stats are reported.
const HeartbeatInterval = 60 * time.Second

// HeartbeatReporter emits a periodic stats message with system metrics and
// current tamper state.
func HeartbeatReporter(ctx context.Context, dev *device.Device) {
	for {
		stats := sysinfo.Collect()
		tamperState := "inactive"
		if dev.Tamper() {
			tamperState = "active"
		}

		dev.Schedule("stats", map[string]interface{}{
			"system": map[string]interface{}{
				"uptime":      stats.UptimeSeconds,
				"cpu":         stats.CPUPercent,
				"memory":      stats.MemoryPercent,
				"disk":        stats.DiskPercent,
				"temperature": stats.TemperatureC,
			},
			"tamper": map[string]interface{}{"state": tamperState},
		})

		select {
		case <-ctx.Done():
			return
		case <-time.After(HeartbeatInterval):
		}
	}
}
