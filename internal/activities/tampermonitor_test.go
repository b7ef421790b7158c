package activities

import (
	"context"
	"testing"
	"time"

	"github.com/hardwario/tapper/internal/device"
	"github.com/hardwario/tapper/internal/hal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTamperMonitor_ActiveSampleDrivesBuzzerAndLED(t *testing.T) {
	dev, m := newTestDevice(t)
	pins := hal.DefaultPinMap()
	require.NoError(t, m.SetMode(pins.Tamper, hal.Input))
	m.SetInput(pins.Tamper, true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		TamperMonitor(ctx, dev)
		close(done)
	}()

	select {
	case msg := <-dev.Outbound():
		assert.Equal(t, "event/tamper", msg.Suffix)
		assert.Equal(t, "active", msg.Payload["state"])
	case <-time.After(time.Second):
		t.Fatal("tamper monitor did not report an active sample in time")
	}

	buzz, _ := m.DigitalRead(pins.Buzzer)
	assert.True(t, buzz)
	red, _ := m.DigitalRead(pins.LEDRed)
	assert.True(t, red)

	cancel()
	<-done
}

func TestTamperMonitor_InactiveSampleClearsOutputsWithoutPublishing(t *testing.T) {
	dev, m := newTestDevice(t)
	pins := hal.DefaultPinMap()
	require.NoError(t, m.SetMode(pins.Tamper, hal.Input))
	m.SetInput(pins.Tamper, false)
	require.NoError(t, dev.SetBuzzer(true))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		TamperMonitor(ctx, dev)
		close(done)
	}()

	// Give the first (inactive) sample a moment to run, then stop before the
	// 500ms sleep elapses.
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	select {
	case msg := <-dev.Outbound():
		t.Fatalf("unexpected publish on inactive sample: %+v", msg)
	default:
	}

	buzz, _ := m.DigitalRead(pins.Buzzer)
	assert.False(t, buzz)
}
