package system

import (
	"context"
	"strconv"
	"strings"

	"xtra-telemetry/internal/shell"
)

type memInfo struct {
	total     int64
	available int64
	swapTotal int64
}

func (c *Collector) memInfo(ctx context.Context) (memInfo, error) {
	raw, err := shell.ReadFile(ctx, c.exec, "/proc/meminfo")
	if err != nil {
		return memInfo{}, err
	}
	return parseMemInfo(raw), nil
}

func parseMemInfo(raw string) memInfo {
	var m memInfo
	var free, cached, buffers int64

	for _, line := range strings.Split(raw, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		key := strings.TrimSuffix(fields[0], ":")
		valueKB, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			continue
		}

		switch key {
		case "MemTotal":
			m.total = valueKB * 1024
		case "MemAvailable":
			m.available = valueKB * 1024
		case "MemFree":
			free = valueKB * 1024
		case "Cached":
			cached = valueKB * 1024
		case "Buffers":
			buffers = valueKB * 1024
		case "SwapTotal":
			m.swapTotal = valueKB * 1024
		}
	}

	// kernels before 3.14 have no MemAvailable
	if m.available == 0 {
		m.available = free + cached + buffers
	}

	return m
}

// swapsTotal sums the Size column (KiB) of /proc/swaps.
func (c *Collector) swapsTotal(ctx context.Context) int64 {
	raw, err := shell.ReadFile(ctx, c.exec, "/proc/swaps")
	if err != nil {
		return 0
	}
	return parseSwaps(raw)
}

func parseSwaps(raw string) int64 {
	var total int64

	for i, line := range strings.Split(raw, "\n") {
		fields := strings.Fields(line)
		if i == 0 || len(fields) < 3 {
			continue
		}

		kb, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			continue
		}
		total += kb * 1024
	}

	return total
}
