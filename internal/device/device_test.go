package device

import (
	"errors"
	"testing"

	"github.com/hardwario/tapper/internal/hal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDevice(t *testing.T) (*Device, *hal.Mock) {
	t.Helper()
	m := hal.NewMock()
	pins := hal.DefaultPinMap()

	require.NoError(t, m.SetMode(pins.Buzzer, hal.Output))
	require.NoError(t, m.SetMode(pins.Relay, hal.Output))
	require.NoError(t, m.SetMode(pins.Tamper, hal.Input))
	require.NoError(t, m.SetMode(pins.LEDRed, hal.Output))
	require.NoError(t, m.SetMode(pins.LEDGreen, hal.Output))
	require.NoError(t, m.SetMode(pins.LEDBlue, hal.Output))

	d := NewBench(m, pins, "aa:bb:cc:dd:ee:ff")
	return d, m
}

func TestDeviceID_OverrideWins(t *testing.T) {
	id, err := deviceID("bench-01")
	require.NoError(t, err)
	assert.Equal(t, "bench-01", id)
}

func TestDeviceID_FallsBackWithoutOverride(t *testing.T) {
	id, err := deviceID("")
	if err != nil {
		// No hardware-addressed interface on this host: the documented
		// failure mode, not a silent placeholder identity.
		assert.Empty(t, id)
		return
	}
	assert.NotEmpty(t, id)
}

func TestDevice_TamperReadsInputLine(t *testing.T) {
	d, m := newTestDevice(t)

	m.SetInput(d.pins.Tamper, false)
	assert.False(t, d.Tamper())

	m.SetInput(d.pins.Tamper, true)
	assert.True(t, d.Tamper())
}

func TestDevice_TamperFailsClosedOnReadError(t *testing.T) {
	d, m := newTestDevice(t)
	require.NoError(t, m.Close()) // unconfigures every pin, forcing a read error
	assert.True(t, d.Tamper())
}

func TestDevice_SetLEDAndCurrentLED(t *testing.T) {
	d, _ := newTestDevice(t)

	require.NoError(t, d.SetLED(ColorGreen))
	assert.Equal(t, ColorGreen, d.CurrentLED())

	require.NoError(t, d.SetLED(ColorOff))
	assert.Equal(t, ColorOff, d.CurrentLED())
}

func TestDevice_SetLEDUnknownColorLeavesLEDUnchanged(t *testing.T) {
	d, m := newTestDevice(t)

	require.NoError(t, d.SetLED(ColorGreen))
	require.NoError(t, d.SetLED(Color("nonexistent")))

	assert.Equal(t, ColorGreen, d.CurrentLED())
	r, _ := m.DigitalRead(d.pins.LEDRed)
	g, _ := m.DigitalRead(d.pins.LEDGreen)
	b, _ := m.DigitalRead(d.pins.LEDBlue)
	assert.False(t, r)
	assert.True(t, g)
	assert.False(t, b)
}

func TestDevice_TagAckRestoresPriorColor(t *testing.T) {
	d, _ := newTestDevice(t)
	require.NoError(t, d.SetLED(ColorGreen))

	d.TagAck()

	assert.Equal(t, ColorGreen, d.CurrentLED())
}

func TestDevice_RelayPulse(t *testing.T) {
	d, m := newTestDevice(t)
	require.NoError(t, d.PulseRelay(0))

	v, err := m.DigitalRead(d.pins.Relay)
	require.NoError(t, err)
	assert.False(t, v, "relay must be deactivated after the pulse")
}

func TestDevice_ScheduleEnqueuesOutbound(t *testing.T) {
	d, _ := newTestDevice(t)
	d.Schedule("event/tag", map[string]interface{}{"id": "deadbeef"})

	msg := <-d.Outbound()
	assert.Equal(t, "event/tag", msg.Suffix)
	assert.Equal(t, "deadbeef", msg.Payload["id"])
}

func TestDevice_PushInboundAndInbound(t *testing.T) {
	d, _ := newTestDevice(t)
	d.pushInbound(`{"id":1}`)

	raw := <-d.Inbound()
	assert.Equal(t, `{"id":1}`, raw)
}

func TestDevice_CleanupOutputsIsNilSafe(t *testing.T) {
	d := &Device{}
	assert.NotPanics(t, func() { d.cleanupOutputs() })
}

func TestExitCode_FatalExitUnwraps(t *testing.T) {
	err := fatalExit{code: ExitMQTTTimeout, err: errors.New("boom")}
	code, ok := ExitCode(err)
	assert.True(t, ok)
	assert.Equal(t, ExitMQTTTimeout, code)

	code, ok = ExitCode(errors.New("ordinary error"))
	assert.False(t, ok)
	assert.Equal(t, 0, code)
}
