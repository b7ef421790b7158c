package mqttlink

import (
	"context"
	"testing"
	"time"

	"github.com/hardwario/tapper/internal/device"
	"github.com/hardwario/tapper/internal/hal"
)

func TestPublisher_ReturnsOnContextCancelWithEmptyQueue(t *testing.T) {
	dev := device.NewBench(hal.NewMock(), hal.DefaultPinMap(), "aa:bb:cc:dd:ee:ff")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Publisher(ctx, dev)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher did not return after context cancellation")
	}
}
