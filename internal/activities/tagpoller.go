// Package activities implements the periodic tasks that run concurrently
// over the shared Device: tag polling, tamper monitoring, heartbeat
// reporting and remote request processing. An error returned inside one
// iteration does not stop the loop; the loops do not recover from panics,
// so a panic in any activity ends the process.
package activities

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/hardwario/tapper/internal/device"
	"github.com/hardwario/tapper/internal/logger"
	"go.uber.org/zap"
)

// TagPollInterval is the settle time between two poll attempts, on top of
// the 500ms read_tag timeout (spec §4.2: "poll + 2s settle").
const TagPollInterval = 2 * time.Second

// TagPoller periodically reads the NFC front-end for a passive target and,
// on a hit, runs the tag-ack burst and emits event/tag.
func TagPoller(ctx context.Context, dev *device.Device) {
	log := logger.WithComponent("tag_poller")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		uid, err := dev.ReadTag(500 * time.Millisecond)
		if err != nil {
			log.Warn("tag read failed", zap.Error(err))
		} else if len(uid) > 0 {
			hexID := hex.EncodeToString(uid)
			dev.TagAck()
			dev.Schedule("event/tag", map[string]interface{}{"id": hexID})
			log.Info("tag detected", zap.String("id", hexID))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(TagPollInterval):
		}
	}
}
