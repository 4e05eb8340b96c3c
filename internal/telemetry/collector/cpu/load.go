package cpu

import (
	"context"
	"strconv"
	"strings"

	"xtra-telemetry/internal/shell"
)

// Load returns the busy share of CPU time since the previous Load or
// Collect call.
//
// The prior sample starts at zero, so the first call reports the ratio
// accumulated since boot rather than an instantaneous value.
func (c *Collector) Load(ctx context.Context) float64 {
	return c.sampleLoad(ctx, &c.polled)
}

func (c *Collector) sampleLoad(ctx context.Context, w *loadWindow) float64 {
	raw, err := shell.ReadFile(ctx, c.exec, procStat)
	if err != nil {
		c.log.Warn("failed to read /proc/stat", "error", err)
		return 0
	}

	cur, ok := parseAggregate(raw)
	if !ok {
		c.log.Warn("malformed /proc/stat aggregate line")
		return 0
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	load := calculateLoad(w.prev, cur)
	w.prev = cur

	return load
}

func parseAggregate(stat string) (loadSample, bool) {
	for _, line := range strings.Split(stat, "\n") {
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}
		return parseCPUStat(strings.Fields(line)[1:])
	}
	return loadSample{}, false
}

// parseCPUStat counts iowait as idle.
func parseCPUStat(fields []string) (loadSample, bool) {
	if len(fields) < 4 {
		return loadSample{}, false
	}

	var s loadSample
	for i, val := range fields {
		v, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return loadSample{}, false
		}
		s.total += v
		if i == 3 || i == 4 {
			s.idle += v
		}
	}

	return s, true
}

func calculateLoad(prev, cur loadSample) float64 {
	totalDiff := int64(cur.total) - int64(prev.total)
	idleDiff := int64(cur.idle) - int64(prev.idle)

	if totalDiff <= 0 {
		return 0
	}

	load := float64(totalDiff-idleDiff) / float64(totalDiff) * 100
	return min(max(load, 0), 100)
}
