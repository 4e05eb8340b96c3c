// Package gpu resolves GPU frequency, load and temperature through cached
// probe paths, falling back across vendor sysfs layouts.
package gpu

import (
	"context"
	"slices"

	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
	"xtra-telemetry/internal/shell"
	"xtra-telemetry/internal/telemetry/collector/thermal"
)

func NewCollector(exec shell.Executor, log logger.Logger, opts Options) *Collector {
	log = log.With("collector", "gpu")

	return &Collector{
		exec:      exec,
		log:       log,
		freqPaths: slices.Concat(DefaultFreqPaths, opts.ExtraFreqPaths),
		busyPaths: slices.Concat(DefaultBusyPaths, opts.ExtraBusyPaths),
		temp: thermal.NewResolver(exec, log, true,
			thermal.Tier{Source: domain.TempSourceName, Tokens: slices.Concat(nameTokens, opts.ExtraThermalNames)},
			thermal.Tier{Source: domain.TempSourceLoose, Tokens: looseTokens},
		),
	}
}

func (c *Collector) Collect(ctx context.Context) (domain.GPUInfo, error) {
	vendor, renderer := c.Identity(ctx)
	freqs := c.AvailableFrequencies(ctx)
	minMHz, maxMHz := c.frequencyRange(ctx, freqs)

	info := domain.GPUInfo{
		Vendor:            vendor,
		Renderer:          renderer,
		Governor:          c.Governor(ctx),
		CurMHz:            c.Frequency(ctx),
		MinMHz:            minMHz,
		MaxMHz:            maxMHz,
		AvailableFreqsMHz: freqs,
	}

	load, loadOK := c.load(ctx)
	info.LoadPercent = load
	info.TemperatureC, info.TempSource = c.temp.Read(ctx)

	if info.CurMHz == 0 && !loadOK {
		return info, ErrNoSignals
	}

	return info, nil
}

func (c *Collector) Governor(ctx context.Context) string {
	gov, err := shell.ReadFile(ctx, c.exec, kgslDevfreq+"/governor")
	if err != nil {
		return unknown
	}
	return gov
}
