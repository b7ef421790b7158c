package sysinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollect_ReturnsPopulatedSnapshot(t *testing.T) {
	stats := Collect()

	assert.False(t, stats.Timestamp.IsZero())
	assert.GreaterOrEqual(t, stats.CPUPercent, 0.0)
	assert.GreaterOrEqual(t, stats.MemoryPercent, 0.0)
	assert.GreaterOrEqual(t, stats.DiskPercent, 0.0)
	assert.GreaterOrEqual(t, stats.TemperatureC, 0.0)
}
