// Package cpu discovers cluster topology from cpufreq sysfs and samples
// per-core frequency, aggregate load and temperature.
package cpu

import (
	"context"
	"slices"

	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
	"xtra-telemetry/internal/shell"
	"xtra-telemetry/internal/telemetry/collector/thermal"
)

func NewCollector(exec shell.Executor, log logger.Logger, extraThermalNames []string) *Collector {
	log = log.With("collector", "cpu")

	return &Collector{
		exec: exec,
		log:  log,
		temp: thermal.NewResolver(exec, log, false,
			thermal.Tier{Source: domain.TempSourceName, Tokens: slices.Concat(nameTokens, extraThermalNames)},
			thermal.Tier{Source: domain.TempSourceLoose, Tokens: looseTokens},
		),
	}
}

// Collect always returns a usable value; ErrNoCores only signals that the
// topology could not be read this time.
func (c *Collector) Collect(ctx context.Context) (domain.CPUInfo, error) {
	return c.collect(ctx, &c.polled)
}

// CollectLive is Collect for on-demand readers. Its load window is kept
// apart from Collect's, so interleaved calls never shorten the polled one.
func (c *Collector) CollectLive(ctx context.Context) (domain.CPUInfo, error) {
	return c.collect(ctx, &c.live)
}

func (c *Collector) collect(ctx context.Context, w *loadWindow) (domain.CPUInfo, error) {
	info := domain.CPUInfo{
		Clusters:    c.Clusters(ctx),
		Cores:       c.Cores(ctx),
		LoadPercent: c.sampleLoad(ctx, w),
	}
	info.TemperatureC, _ = c.temp.Read(ctx)

	if len(info.Cores) == 0 {
		return info, ErrNoCores
	}

	return info, nil
}
