package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMock_DigitalWriteRead(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.SetMode(1, Output))
	require.NoError(t, m.DigitalWrite(1, true))

	v, err := m.DigitalRead(1)
	require.NoError(t, err)
	assert.True(t, v)

	require.NoError(t, m.DigitalWrite(1, false))
	v, err = m.DigitalRead(1)
	require.NoError(t, err)
	assert.False(t, v)
}

func TestMock_DigitalReadUnconfiguredPin(t *testing.T) {
	m := NewMock()
	_, err := m.DigitalRead(5)
	assert.Error(t, err)
}

func TestMock_SetInput(t *testing.T) {
	m := NewMock()
	m.SetInput(6, true)

	v, err := m.DigitalRead(6)
	require.NoError(t, err)
	assert.True(t, v)
}

func TestMock_Close(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.SetMode(1, Output))
	require.NoError(t, m.DigitalWrite(1, true))
	require.NoError(t, m.Close())

	_, err := m.DigitalRead(1)
	assert.Error(t, err, "Close should reset pin state")
}

func TestPinMaps_Distinct(t *testing.T) {
	def := DefaultPinMap()
	legacy := LegacyPinMap()
	assert.NotEqual(t, def, legacy)
}
