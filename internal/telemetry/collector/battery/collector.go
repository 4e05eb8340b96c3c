// Package battery reads the power_supply battery node and scores its health.
package battery

import (
	"context"
	"errors"
	"sync"

	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
	"xtra-telemetry/internal/shell"
)

const (
	root = "/sys/class/power_supply/battery"

	unknown = "Unknown"
)

var ErrUnavailable = errors.New("battery level unreadable")

func path(file string) string {
	return root + "/" + file
}

type Collector struct {
	exec shell.Executor
	log  logger.Logger

	fullMAh   cachedInt
	designMAh cachedInt
	cycles    cachedInt
}

// cachedInt holds a value that is read once and then kept for the
// collector's lifetime.
type cachedInt struct {
	mu  sync.Mutex
	v   int
	set bool
}

func (c *cachedInt) load(read func() (int, bool)) (int, bool) {
	c.mu.Lock()
	if c.set {
		defer c.mu.Unlock()
		return c.v, true
	}
	c.mu.Unlock()

	v, ok := read()
	if !ok {
		return 0, false
	}

	c.mu.Lock()
	c.v, c.set = v, true
	c.mu.Unlock()

	return v, true
}

func NewCollector(exec shell.Executor, log logger.Logger) *Collector {
	return &Collector{
		exec: exec,
		log:  log.With("collector", "battery"),
	}
}

func (c *Collector) Collect(ctx context.Context) (domain.BatteryInfo, error) {
	info := domain.BatteryInfo{
		Status:     c.readString(ctx, "status"),
		Health:     c.readString(ctx, "health"),
		Technology: c.readString(ctx, "technology"),
	}

	level, levelErr := shell.ReadInt(ctx, c.exec, path("capacity"))
	if levelErr == nil {
		info.Level = int(level)
	}

	if t, err := shell.ReadInt(ctx, c.exec, path("temp")); err == nil {
		info.TemperatureC = float64(t) / 10
	}
	if uv, err := shell.ReadInt(ctx, c.exec, path("voltage_now")); err == nil {
		info.VoltageMV = int(uv / 1000)
	}
	if ua, err := shell.ReadInt(ctx, c.exec, path("current_now")); err == nil {
		info.CurrentMA = signedCurrent(int(ua/1000), info.Charging())
	}

	info.CurrentCapacityMAh, _ = c.fullMAh.load(func() (int, bool) { return c.readMicroAmpHours(ctx, "charge_full") })
	info.DesignCapacityMAh, _ = c.designMAh.load(func() (int, bool) { return c.readMicroAmpHours(ctx, "charge_full_design") })
	info.CycleCount, _ = c.cycles.load(func() (int, bool) {
		v, err := shell.ReadInt(ctx, c.exec, path("cycle_count"))
		return int(v), err == nil
	})

	info.HealthPercent = HealthPercent(info.CurrentCapacityMAh, info.DesignCapacityMAh, info.CycleCount)

	if levelErr != nil {
		return info, ErrUnavailable
	}

	return info, nil
}

// signedCurrent drops whatever sign the driver uses and derives it from
// the charge direction instead.
func signedCurrent(mA int, charging bool) int {
	if mA < 0 {
		mA = -mA
	}
	if charging {
		return mA
	}
	return -mA
}

func (c *Collector) readMicroAmpHours(ctx context.Context, file string) (int, bool) {
	uah, err := shell.ReadInt(ctx, c.exec, path(file))
	if err != nil || uah <= 0 {
		c.log.Debug("battery capacity unreadable", "file", file, "error", err)
		return 0, false
	}
	return int(uah / 1000), true
}

func (c *Collector) readString(ctx context.Context, file string) string {
	v, err := shell.ReadFile(ctx, c.exec, path(file))
	if err != nil {
		return unknown
	}
	return v
}
