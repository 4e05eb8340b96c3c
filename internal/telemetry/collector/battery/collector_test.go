package battery

import (
	"context"
	"errors"
	"math"
	"testing"

	"xtra-telemetry/internal/logger"
	"xtra-telemetry/internal/shell/shelltest"
)

func TestHealthPercent(t *testing.T) {
	tests := []struct {
		name    string
		current int
		design  int
		cycles  int
		want    float64
	}{
		{name: "unknown design", current: 4000, design: 0, cycles: 100, want: 0},
		{name: "new battery", current: 5000, design: 5000, cycles: 0, want: 100},
		{name: "design cycles reached", current: 5000, design: 5000, cycles: 800, want: 0.7*100 + 0.3*80},
		{name: "cycle penalty capped", current: 5000, design: 5000, cycles: 5000, want: 0.7*100 + 0.3*65},
		{name: "worn capacity", current: 4000, design: 5000, cycles: 400, want: 0.7*80 + 0.3*90},
		{name: "overreported capacity clamps", current: 5500, design: 5000, cycles: 0, want: 100},
		{name: "charge_full unreadable", current: 0, design: 5000, cycles: 0, want: 100},
		{name: "negative cycles", current: 5000, design: 5000, cycles: -1, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HealthPercent(tt.current, tt.design, tt.cycles)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("HealthPercent() = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("HealthPercent() = %v out of range", got)
			}
		})
	}
}

func TestSignedCurrent(t *testing.T) {
	tests := []struct {
		mA       int
		charging bool
		want     int
	}{
		{mA: 850, charging: true, want: 850},
		{mA: -850, charging: true, want: 850},
		{mA: 850, charging: false, want: -850},
		{mA: -850, charging: false, want: -850},
	}

	for _, tt := range tests {
		if got := signedCurrent(tt.mA, tt.charging); got != tt.want {
			t.Errorf("signedCurrent(%d, %v) = %d, want %d", tt.mA, tt.charging, got, tt.want)
		}
	}
}

func batteryNode() *shelltest.Executor {
	return shelltest.New().
		SetFile(path("capacity"), "76").
		SetFile(path("temp"), "312").
		SetFile(path("voltage_now"), "4012000").
		SetFile(path("current_now"), "-1250000").
		SetFile(path("status"), "Charging").
		SetFile(path("health"), "Good").
		SetFile(path("technology"), "Li-poly").
		SetFile(path("cycle_count"), "400").
		SetFile(path("charge_full"), "4000000").
		SetFile(path("charge_full_design"), "5000000")
}

func TestCollect(t *testing.T) {
	info, err := NewCollector(batteryNode(), logger.Discard()).Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if info.Level != 76 || info.TemperatureC != 31.2 || info.VoltageMV != 4012 {
		t.Errorf("level/temp/voltage = %d/%v/%d", info.Level, info.TemperatureC, info.VoltageMV)
	}
	if info.CurrentMA != 1250 {
		t.Errorf("CurrentMA = %d, want 1250 while charging", info.CurrentMA)
	}
	if info.CurrentCapacityMAh != 4000 || info.DesignCapacityMAh != 5000 || info.CycleCount != 400 {
		t.Errorf("capacity = %d/%d cycles %d", info.CurrentCapacityMAh, info.DesignCapacityMAh, info.CycleCount)
	}
	if math.Abs(info.HealthPercent-83) > 1e-9 {
		t.Errorf("HealthPercent = %v, want 83", info.HealthPercent)
	}
	if info.Health != "Good" || info.Technology != "Li-poly" {
		t.Errorf("labels = %q/%q", info.Health, info.Technology)
	}
}

func TestCollectDischarging(t *testing.T) {
	fake := batteryNode().SetFile(path("status"), "Discharging").SetFile(path("current_now"), "430000")

	info, _ := NewCollector(fake, logger.Discard()).Collect(context.Background())
	if info.CurrentMA != -430 {
		t.Errorf("CurrentMA = %d, want -430", info.CurrentMA)
	}
}

func TestCollectCachesCapacityAndCycles(t *testing.T) {
	fake := batteryNode()
	c := NewCollector(fake, logger.Discard())
	ctx := context.Background()

	c.Collect(ctx)

	fake.SetFile(path("cycle_count"), "999")
	fake.ResetCalls()

	info, _ := c.Collect(ctx)

	if info.CycleCount != 400 {
		t.Errorf("CycleCount = %d, want cached 400", info.CycleCount)
	}
	for _, file := range []string{"charge_full", "charge_full_design", "cycle_count"} {
		if n := fake.FileReads(path(file)); n != 0 {
			t.Errorf("%s read %d times after caching", file, n)
		}
	}
	if fake.FileReads(path("capacity")) != 1 {
		t.Error("level must be re-read every call")
	}
}

func TestCollectUnreadableCapacityIsRetried(t *testing.T) {
	fake := batteryNode().RemoveFile(path("charge_full_design"))
	c := NewCollector(fake, logger.Discard())

	info, _ := c.Collect(context.Background())
	if info.DesignCapacityMAh != 0 || info.HealthPercent != 0 {
		t.Fatalf("design=%d health=%v, want 0/0", info.DesignCapacityMAh, info.HealthPercent)
	}

	fake.SetFile(path("charge_full_design"), "5000000")
	info, _ = c.Collect(context.Background())
	if info.DesignCapacityMAh != 5000 {
		t.Errorf("DesignCapacityMAh = %d after recovery, want 5000", info.DesignCapacityMAh)
	}
}

func TestCollectNoBattery(t *testing.T) {
	info, err := NewCollector(shelltest.New(), logger.Discard()).Collect(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Collect() error = %v, want ErrUnavailable", err)
	}
	if info.Status != "Unknown" || info.HealthPercent != 0 {
		t.Errorf("defaults = %+v", info)
	}
}
