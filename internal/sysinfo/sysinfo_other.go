//go:build !linux

package sysinfo

import (
	"runtime"
	"time"
)

func collect() Stats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	var memPercent float64
	if memStats.Sys > 0 {
		memPercent = float64(memStats.Alloc) / float64(memStats.Sys) * 100
	}

	return Stats{
		UptimeSeconds: 0,
		CPUPercent:    0,
		MemoryPercent: memPercent,
		DiskPercent:   0,
		TemperatureC:  0,
		Timestamp:     time.Now(),
	}
}
