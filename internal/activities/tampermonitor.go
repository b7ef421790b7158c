package activities

import (
	"context"
	"time"

	"github.com/hardwario/tapper/internal/device"
	"github.com/hardwario/tapper/internal/logger"
)

// TamperSampleInterval is the cadence at which the tamper input is sampled.
const TamperSampleInterval = 500 * time.Millisecond

// TamperMonitor samples the tamper input every 500ms, drives the buzzer and
// LED while the enclosure is tampered, and reports every active sample —
// spec fixes "emit on every active sample", not only on transitions.
func TamperMonitor(ctx context.Context, dev *device.Device) {
	log := logger.WithComponent("tamper_monitor")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			dev.BuzzerGuard().Lock()
			defer dev.BuzzerGuard().Unlock()
			dev.LEDGuard().Lock()
			defer dev.LEDGuard().Unlock()

			active := dev.Tamper()
			if active {
				dev.SetBuzzerLocked(true)
				dev.SetLEDLocked(device.ColorRed)
				dev.Schedule("event/tamper", map[string]interface{}{"state": "active"})
				log.Warn("tamper active")
			} else {
				dev.SetBuzzerLocked(false)
				dev.SetLEDLocked(device.ColorOff)
			}
		}()

		select {
		case <-ctx.Done():
			return
		case <-time.After(TamperSampleInterval):
		}
	}
}
