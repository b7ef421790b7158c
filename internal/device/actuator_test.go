package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingActuator struct {
	onCalls, offCalls int
	failOn            bool
}

func (a *countingActuator) On() error {
	if a.failOn {
		return assert.AnError
	}
	a.onCalls++
	return nil
}

func (a *countingActuator) Off() error {
	a.offCalls++
	return nil
}

func TestWave_CyclesAndGaps(t *testing.T) {
	a := &countingActuator{}
	start := time.Now()
	err := wave(a, 3, 10*time.Millisecond, 5*time.Millisecond)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 3, a.onCalls)
	assert.Equal(t, 3, a.offCalls)
	// Every cycle, including the last, sleeps both onDur and offGap.
	assert.GreaterOrEqual(t, elapsed, 3*(10+5)*time.Millisecond)
}

func TestWave_ZeroGapSkipsExtraSleep(t *testing.T) {
	a := &countingActuator{}
	start := time.Now()
	err := wave(a, 1, 10*time.Millisecond, 0)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, elapsed, 50*time.Millisecond)
}

func TestWave_PropagatesOnError(t *testing.T) {
	a := &countingActuator{failOn: true}
	err := wave(a, 2, time.Millisecond, 0)
	assert.Error(t, err)
	assert.Equal(t, 0, a.offCalls, "Off must not run after a failed On")
}

func TestRunPattern_UnknownNameNoOps(t *testing.T) {
	a := &countingActuator{}
	err := runPattern("p99", a)
	require.NoError(t, err)
	assert.Equal(t, 0, a.onCalls)
	assert.Equal(t, 0, a.offCalls)
}

func TestRunPattern_P1(t *testing.T) {
	a := &countingActuator{}
	require.NoError(t, runPattern("p1", a))
	assert.Equal(t, 1, a.onCalls)
	assert.Equal(t, 1, a.offCalls)
}

func TestTriplet_KnownAndUnknownColors(t *testing.T) {
	tr, ok := triplet(ColorRed)
	require.True(t, ok)
	assert.Equal(t, rgb{true, false, false}, tr)

	_, ok = triplet(Color("ultraviolet"))
	assert.False(t, ok)
}
