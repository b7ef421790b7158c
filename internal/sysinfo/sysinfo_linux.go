//go:build linux

package sysinfo

import (
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

func readProcFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func collect() Stats {
	return Stats{
		UptimeSeconds: getUptime(),
		CPUPercent:    getCPUUsage(),
		MemoryPercent: getMemoryPercent(),
		DiskPercent:   getDiskPercent("/"),
		TemperatureC:  getCPUTemperature(),
		Timestamp:     time.Now(),
	}
}

func getCPUTemperature() float64 {
	content, err := readProcFile("/sys/class/thermal/thermal_zone0/temp")
	if err != nil {
		return 0
	}
	temp, err := strconv.ParseFloat(content, 64)
	if err != nil {
		return 0
	}
	return temp / 1000.0
}

func getUptime() uint64 {
	content, err := readProcFile("/proc/uptime")
	if err != nil {
		return 0
	}
	parts := strings.Fields(content)
	if len(parts) < 1 {
		return 0
	}
	uptime, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	return uint64(uptime)
}

func getMemoryPercent() float64 {
	content, err := readProcFile("/proc/meminfo")
	if err != nil {
		return 0
	}

	memMap := make(map[string]uint64)
	for _, line := range strings.Split(content, "\n") {
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		key := strings.TrimSuffix(parts[0], ":")
		val, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			continue
		}
		memMap[key] = val * 1024
	}

	total := memMap["MemTotal"]
	available := memMap["MemAvailable"]
	if available == 0 {
		available = memMap["MemFree"] + memMap["Buffers"] + memMap["Cached"]
	}
	if total == 0 {
		return 0
	}
	used := total - available
	return float64(used) / float64(total) * 100
}

var prevCPUIdle, prevCPUTotal uint64

func getCPUUsage() float64 {
	content, err := readProcFile("/proc/stat")
	if err != nil {
		return 0
	}

	lines := strings.Split(content, "\n")
	if len(lines) < 1 {
		return 0
	}

	fields := strings.Fields(lines[0])
	if len(fields) < 5 || fields[0] != "cpu" {
		return 0
	}

	var values []uint64
	for _, f := range fields[1:] {
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			v = 0
		}
		values = append(values, v)
	}
	if len(values) < 4 {
		return 0
	}

	idle := values[3]
	if len(values) > 4 {
		idle += values[4]
	}

	var total uint64
	for _, v := range values {
		total += v
	}

	if prevCPUTotal == 0 {
		prevCPUIdle = idle
		prevCPUTotal = total
		return 0
	}

	diffIdle := idle - prevCPUIdle
	diffTotal := total - prevCPUTotal
	prevCPUIdle = idle
	prevCPUTotal = total

	if diffTotal == 0 {
		return 0
	}
	return (1.0 - float64(diffIdle)/float64(diffTotal)) * 100
}

func getDiskPercent(path string) float64 {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0
	}
	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	if total == 0 {
		return 0
	}
	used := total - free
	return float64(used) / float64(total) * 100
}

func init() {
	getCPUUsage()
	time.Sleep(100 * time.Millisecond)
}
