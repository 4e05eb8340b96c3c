// Package system gathers device identity, memory and storage facts.
package system

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"

	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
	"xtra-telemetry/internal/shell"
)

const (
	unknown = "Unknown"

	dataPartition     = "/data"
	defaultSwappiness = 60
)

type Collector struct {
	exec shell.Executor
	log  logger.Logger

	kernelVersion func(ctx context.Context) (string, error)
	uptime        func(ctx context.Context) (uint64, error)
	diskUsage     func(ctx context.Context, path string) (*disk.UsageStat, error)
}

func NewCollector(exec shell.Executor, log logger.Logger) *Collector {
	return &Collector{
		exec:          exec,
		log:           log.With("collector", "system"),
		kernelVersion: host.KernelVersionWithContext,
		uptime:        host.UptimeWithContext,
		diskUsage:     disk.UsageWithContext,
	}
}

func (c *Collector) Collect(ctx context.Context) (domain.SystemInfo, error) {
	info := domain.SystemInfo{
		AndroidVersion: c.prop(ctx, "ro.build.version.release"),
		ABI:            c.prop(ctx, "ro.product.cpu.abi"),
		DeviceModel:    c.deviceModel(ctx),
		BuildKeys:      buildKeys(c.prop(ctx, "ro.build.fingerprint")),
		SELinux:        c.selinux(ctx),
		KernelVersion:  c.kernel(ctx),
		Swappiness:     c.swappiness(ctx),
		ZramSizeBytes:  c.zramSize(ctx),
	}

	mem, err := c.memInfo(ctx)
	if err != nil {
		c.log.Warn("failed to read /proc/meminfo", "error", err)
	}
	info.TotalRAMBytes = mem.total
	info.AvailableRAMBytes = mem.available
	info.SwapTotalBytes = mem.swapTotal
	if info.SwapTotalBytes == 0 {
		info.SwapTotalBytes = c.swapsTotal(ctx)
	}

	if usage, err := c.diskUsage(ctx, dataPartition); err == nil {
		info.TotalStorageBytes = int64(usage.Total)
		info.AvailableStorageBytes = int64(usage.Free)
	} else {
		c.log.Debug("storage usage unavailable", "path", dataPartition, "error", err)
	}

	if up, err := c.uptime(ctx); err == nil {
		info.UptimeSeconds = up
	}

	return info, nil
}

func (c *Collector) prop(ctx context.Context, name string) string {
	v, err := shell.Run(ctx, c.exec, "getprop "+name)
	if err != nil {
		return unknown
	}
	return v
}

func (c *Collector) deviceModel(ctx context.Context) string {
	manufacturer := c.prop(ctx, "ro.product.manufacturer")
	model := c.prop(ctx, "ro.product.model")

	switch {
	case model == unknown:
		return unknown
	case manufacturer == unknown, strings.HasPrefix(strings.ToLower(model), strings.ToLower(manufacturer)):
		return model
	default:
		return manufacturer + " " + model
	}
}

func buildKeys(fingerprint string) string {
	switch {
	case fingerprint == unknown:
		return unknown
	case strings.Contains(fingerprint, "test-keys"):
		return "test-keys"
	case strings.Contains(fingerprint, "dev-keys"):
		return "dev-keys"
	default:
		return "release-keys"
	}
}

func (c *Collector) selinux(ctx context.Context) string {
	v, err := shell.Run(ctx, c.exec, "getenforce")
	if err != nil {
		return unknown
	}
	return v
}

// kernel prefers the local uname and falls back to asking the shell.
func (c *Collector) kernel(ctx context.Context) string {
	if v, err := c.kernelVersion(ctx); err == nil && v != "" {
		return v
	}

	v, err := shell.Run(ctx, c.exec, "uname -r")
	if err != nil {
		return unknown
	}
	return v
}

func (c *Collector) swappiness(ctx context.Context) int {
	v, err := shell.ReadInt(ctx, c.exec, "/proc/sys/vm/swappiness")
	if err != nil {
		return defaultSwappiness
	}
	return int(v)
}

func (c *Collector) zramSize(ctx context.Context) int64 {
	v, err := shell.ReadInt(ctx, c.exec, "/sys/block/zram0/disksize")
	if err != nil {
		return 0
	}
	return v
}
