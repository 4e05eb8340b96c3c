package gpu

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"xtra-telemetry/internal/shell"
	"xtra-telemetry/internal/telemetry/probe"
)

// No candidate file declares its unit, so it is inferred from magnitude.
// A GPU clock in kHz stays well below hzThreshold and one in Hz well above.
const (
	hzThreshold  = 10_000_000
	khzThreshold = 1_000
)

func NormalizeFreq(raw int64) int64 {
	switch {
	case raw > hzThreshold:
		return raw / 1_000_000
	case raw > khzThreshold:
		return raw / 1_000
	default:
		return raw
	}
}

// Frequency returns the current GPU clock in MHz, or 0 when no candidate
// path reports one.
func (c *Collector) Frequency(ctx context.Context) int64 {
	mhz, ok := probe.Resolve(ctx, &c.freqPath, c.freqPaths, c.readFreq)
	if !ok {
		c.log.Debug("no gpu frequency source")
	}
	return mhz
}

func (c *Collector) readFreq(ctx context.Context, path string) (int64, bool) {
	raw, err := shell.ReadFile(ctx, c.exec, path)
	if err != nil {
		return 0, false
	}

	v, ok := parseFreq(raw)
	if !ok || v <= 0 {
		return 0, false
	}

	return NormalizeFreq(v), true
}

// parseFreq takes the first token so "587 MHz" style files still parse.
func parseFreq(raw string) (int64, bool) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return 0, false
	}

	v, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// AvailableFrequencies returns distinct steps in MHz, ascending.
func (c *Collector) AvailableFrequencies(ctx context.Context) []int64 {
	for _, path := range availableFreqPaths {
		raw, err := shell.ReadFile(ctx, c.exec, path)
		if err != nil {
			continue
		}

		var freqs []int64
		for _, field := range strings.Fields(raw) {
			v, err := strconv.ParseInt(field, 10, 64)
			if err != nil || v <= 0 {
				continue
			}
			freqs = append(freqs, NormalizeFreq(v))
		}

		if len(freqs) > 0 {
			slices.Sort(freqs)
			return slices.Compact(freqs)
		}
	}

	return []int64{}
}

func (c *Collector) frequencyRange(ctx context.Context, available []int64) (int64, int64) {
	if len(available) > 0 {
		return available[0], available[len(available)-1]
	}

	minMHz, _ := c.readFreq(ctx, kgslDevfreq+"/min_freq")
	maxMHz, _ := c.readFreq(ctx, kgslDevfreq+"/max_freq")
	return minMHz, maxMHz
}
