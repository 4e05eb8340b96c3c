package telemetry

import (
	"context"
	"math"
	"testing"

	"xtra-telemetry/internal/config"
	"xtra-telemetry/internal/logger"
	"xtra-telemetry/internal/shell"
	"xtra-telemetry/internal/shell/shelltest"
)

func device() *shelltest.Executor {
	return shelltest.New().
		SetDir("/sys/devices/system/cpu/cpu0").
		SetDir("/sys/devices/system/cpu/cpu1").
		SetFile("/sys/devices/system/cpu/cpu0/cpufreq/cpuinfo_max_freq", "1800000").
		SetFile("/sys/devices/system/cpu/cpu1/cpufreq/cpuinfo_max_freq", "2800000").
		SetFile("/sys/devices/system/cpu/cpu0/cpufreq/scaling_cur_freq", "1200000").
		SetFile("/sys/devices/system/cpu/cpu1/online", "1").
		SetFile("/sys/devices/system/cpu/cpu1/cpufreq/scaling_cur_freq", "2000000").
		SetFile("/proc/stat", "cpu 500 0 0 500 0 0 0 0 0 0").
		SetFile("/sys/kernel/gpu/gpu_clock", "2800000").
		SetFile("/sys/class/power_supply/battery/capacity", "55").
		SetFile("/sys/class/power_supply/battery/status", "Discharging").
		SetFile("/sys/class/power_supply/battery/charge_full", "4500000").
		SetFile("/sys/class/power_supply/battery/charge_full_design", "4500000").
		SetFile("/sys/class/power_supply/battery/cycle_count", "0").
		SetOutput("dumpsys batterystats --charged", "Estimated power use (mAh):\n  Uid 1000: 5.0 (3.0%)\n  Uid u0a1: 1.0 (9.0%)\n")
}

func TestEngineSnapshot(t *testing.T) {
	e := NewEngine(device(), logger.Discard(), nil)

	snap := e.Collect(context.Background())

	if len(snap.CPU.Clusters) != 2 || len(snap.CPU.Cores) != 2 {
		t.Errorf("cpu = %d clusters, %d cores", len(snap.CPU.Clusters), len(snap.CPU.Cores))
	}
	if snap.CPU.Cores[1].CurMHz != 2000 {
		t.Errorf("core 1 = %+v", snap.CPU.Cores[1])
	}
	if snap.CPU.LoadPercent != 50 {
		t.Errorf("LoadPercent = %v, want 50", snap.CPU.LoadPercent)
	}
	if snap.GPU.CurMHz != 2800 {
		t.Errorf("GPU.CurMHz = %d, want 2800", snap.GPU.CurMHz)
	}
	if snap.Battery.Level != 55 || snap.Battery.HealthPercent != 100 {
		t.Errorf("battery = %+v", snap.Battery)
	}
	if snap.RecordedAt.IsZero() {
		t.Error("RecordedAt not set")
	}
}

func TestEngineAppBatteryUsage(t *testing.T) {
	e := NewEngine(device(), logger.Discard(), nil)

	stats := e.AppBatteryUsage(context.Background())
	if len(stats) != 2 {
		t.Fatalf("AppBatteryUsage() = %+v", stats)
	}
	// package index is missing, so the app lookup fails
	if stats[0].UID != 10001 || stats[0].Name != "Unknown (10001)" {
		t.Errorf("stats[0] = %+v", stats[0])
	}
	if stats[1].Name != "Android System" {
		t.Errorf("stats[1] = %+v", stats[1])
	}
}

func TestEngineProbeOverrides(t *testing.T) {
	probes := &config.ProbeConfig{}
	probes.GPU.FreqPaths = []string{"/vendor/gpu/cur_clock"}

	fake := shelltest.New().SetFile("/vendor/gpu/cur_clock", "600")
	e := NewEngine(fake, logger.Discard(), probes)

	if got := e.GPUInfo(context.Background()).CurMHz; got != 600 {
		t.Errorf("GPUInfo().CurMHz = %d, want 600", got)
	}
}

func TestEnginesDoNotShareCaches(t *testing.T) {
	fake := device()
	a := NewEngine(fake, logger.Discard(), nil)
	b := NewEngine(fake, logger.Discard(), nil)

	a.CPUInfo(context.Background())
	fake.ResetCalls()
	b.CPUInfo(context.Background())

	if fake.Calls(shell.ExistsCommand("/sys/devices/system/cpu/cpu0")) != 1 {
		t.Error("second engine reused the first engine's topology")
	}
}

func TestLiveCPUReadKeepsScheduledLoadWindow(t *testing.T) {
	fake := device()
	e := NewEngine(fake, logger.Discard(), nil)
	ctx := context.Background()

	fake.SetFile("/proc/stat", "cpu 100 0 0 100 0 0 0 0 0 0")
	e.Collect(ctx)

	fake.SetFile("/proc/stat", "cpu 200 0 0 100 0 0 0 0 0 0")
	if got := e.CPUInfo(ctx).LoadPercent; math.Abs(got-200.0/3) > 1e-9 {
		t.Errorf("live LoadPercent = %v, want since-boot ratio", got)
	}

	// 1000 more jiffies since the first tick, 850 of them idle
	fake.SetFile("/proc/stat", "cpu 250 0 0 950 0 0 0 0 0 0")
	if got := e.Collect(ctx).CPU.LoadPercent; math.Abs(got-15) > 1e-9 {
		t.Errorf("scheduled LoadPercent = %v, want 15", got)
	}
}
