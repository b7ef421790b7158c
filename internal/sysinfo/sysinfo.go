// Package sysinfo collects the host metrics TAPPER's heartbeat reporter
// publishes: uptime, CPU usage, memory usage, disk usage and CPU
// temperature. It is EdgeFlow's resources package trimmed to exactly what
// the heartbeat payload needs.
package sysinfo

import "time"

// Stats is a single heartbeat-ready snapshot of host resource usage.
type Stats struct {
	UptimeSeconds   uint64    `json:"uptime_seconds"`
	CPUPercent      float64   `json:"cpu_percent"`
	MemoryPercent   float64   `json:"memory_percent"`
	DiskPercent     float64   `json:"disk_percent"`
	TemperatureC    float64   `json:"temperature_c"`
	Timestamp       time.Time `json:"timestamp"`
}

// Collect gathers a fresh snapshot using the platform-specific backend.
func Collect() Stats {
	return collect()
}
