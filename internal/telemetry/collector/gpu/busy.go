package gpu

import (
	"context"
	"math"
	"strconv"
	"strings"

	"xtra-telemetry/internal/shell"
	"xtra-telemetry/internal/telemetry/probe"
)

// Load returns GPU utilization in percent. An idle GPU legitimately reports
// 0, so 0 is accepted as a reading.
func (c *Collector) Load(ctx context.Context) int {
	load, _ := c.load(ctx)
	return load
}

func (c *Collector) load(ctx context.Context) (int, bool) {
	load, ok := probe.Resolve(ctx, &c.busyPath, c.busyPaths, c.readBusy)
	if !ok {
		c.log.Debug("no gpu load source")
	}
	return load, ok
}

func (c *Collector) readBusy(ctx context.Context, path string) (int, bool) {
	raw, err := shell.ReadFile(ctx, c.exec, path)
	if err != nil {
		return 0, false
	}
	return parseBusy(raw)
}

// parseBusy understands "42", "42 %" and the kgsl "busy total" counter pair.
func parseBusy(raw string) (int, bool) {
	fields := strings.Fields(strings.ReplaceAll(raw, "%", " "))

	switch len(fields) {
	case 0:
		return 0, false

	case 1:
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || v < 0 || v > 100 {
			return 0, false
		}
		return int(math.Round(v)), true

	default:
		busy, err1 := strconv.ParseInt(fields[0], 10, 64)
		total, err2 := strconv.ParseInt(fields[1], 10, 64)
		if err1 != nil || err2 != nil || busy < 0 || total < 0 || busy > total {
			return 0, false
		}
		if total == 0 {
			return 0, true
		}
		return int(busy * 100 / total), true
	}
}
