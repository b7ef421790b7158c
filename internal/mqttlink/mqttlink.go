// Package mqttlink runs the broker-link activity described in spec §4.6:
// a publisher that drains the Device's outbound queue. Connection
// lifecycle, subscription and the network event loop itself are owned by
// the MQTT client library (paho) wired up inside internal/device — this
// package only owns the publisher loop that the spec calls out as a
// distinct concurrent activity.
package mqttlink

import (
	"context"

	"github.com/hardwario/tapper/internal/device"
	"github.com/hardwario/tapper/internal/logger"
	"go.uber.org/zap"
)

// Publisher drains the outbound queue and publishes each message, one at a
// time. It starves no other activity: Device.Publish only contends on the
// MQTT guard, never on the queue itself.
func Publisher(ctx context.Context, dev *device.Device) {
	log := logger.WithComponent("mqtt_link")
	outbound := dev.Outbound()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-outbound:
			if !ok {
				return
			}
			if err := dev.Publish(msg.Suffix, msg.Payload); err != nil {
				log.Warn("publish failed", zap.String("topic_suffix", msg.Suffix), zap.Error(err))
			}
		}
	}
}
