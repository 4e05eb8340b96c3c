// Package telemetry
package telemetry

import (
	"context"
	"time"

	"xtra-telemetry/internal/config"
	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
	"xtra-telemetry/internal/shell"
	"xtra-telemetry/internal/telemetry/collector/battery"
	"xtra-telemetry/internal/telemetry/collector/cpu"
	"xtra-telemetry/internal/telemetry/collector/gpu"
	"xtra-telemetry/internal/telemetry/collector/system"
	"xtra-telemetry/internal/telemetry/collector/usage"
)

// Engine owns every discovery cache. Two engines never share state, so
// independent pollers and tests stay isolated.
type Engine struct {
	cpu     *cpu.Collector
	gpu     *gpu.Collector
	battery *battery.Collector
	system  *system.Collector
	usage   *usage.Collector
	log     logger.Logger
}

func NewEngine(exec shell.Executor, log logger.Logger, probes *config.ProbeConfig) *Engine {
	if probes == nil {
		probes = &config.ProbeConfig{}
	}

	return &Engine{
		cpu: cpu.NewCollector(exec, log, probes.CPU.ThermalNames),
		gpu: gpu.NewCollector(exec, log, gpu.Options{
			ExtraFreqPaths:    probes.GPU.FreqPaths,
			ExtraBusyPaths:    probes.GPU.BusyPaths,
			ExtraThermalNames: probes.GPU.ThermalNames,
		}),
		battery: battery.NewCollector(exec, log),
		system:  system.NewCollector(exec, log),
		usage:   usage.NewCollector(exec, usage.NewShellResolver(exec), log),
		log:     log,
	}
}

// CPUInfo reads on demand. Its load covers the time since the previous
// CPUInfo call and leaves the window used by Collect untouched.
func (e *Engine) CPUInfo(ctx context.Context) domain.CPUInfo {
	return e.cpuInfo(e.cpu.CollectLive(ctx))
}

func (e *Engine) cpuInfo(info domain.CPUInfo, err error) domain.CPUInfo {
	if err != nil {
		e.log.Error("collector", "name", "cpu", "error", err)
	}
	return info
}

func (e *Engine) GPUInfo(ctx context.Context) domain.GPUInfo {
	info, err := e.gpu.Collect(ctx)
	if err != nil {
		e.log.Error("collector", "name", "gpu", "error", err)
	}
	return info
}

func (e *Engine) BatteryInfo(ctx context.Context) domain.BatteryInfo {
	info, err := e.battery.Collect(ctx)
	if err != nil {
		e.log.Error("collector", "name", "battery", "error", err)
	}
	return info
}

func (e *Engine) SystemInfo(ctx context.Context) domain.SystemInfo {
	info, err := e.system.Collect(ctx)
	if err != nil {
		e.log.Error("collector", "name", "system", "error", err)
	}
	return info
}

// AppBatteryUsage runs a full batterystats dump and is not part of the
// periodic snapshot.
func (e *Engine) AppBatteryUsage(ctx context.Context) []domain.AppBatteryStats {
	stats, err := e.usage.Collect(ctx)
	if err != nil {
		e.log.Error("collector", "name", "usage", "error", err)
	}
	return stats
}

func (e *Engine) Collect(ctx context.Context) domain.Snapshot {
	return domain.Snapshot{
		CPU:        e.cpuInfo(e.cpu.Collect(ctx)),
		GPU:        e.GPUInfo(ctx),
		Battery:    e.BatteryInfo(ctx),
		System:     e.SystemInfo(ctx),
		RecordedAt: time.Now().UTC(),
	}
}
