package domain

import (
	"context"
	"errors"
	"time"
)

var ErrSnapshotNotReady = errors.New("snapshot not ready")

type Snapshot struct {
	CPU        CPUInfo     `json:"cpu"`
	GPU        GPUInfo     `json:"gpu"`
	Battery    BatteryInfo `json:"battery"`
	System     SystemInfo  `json:"system"`
	RecordedAt time.Time   `json:"recorded_at"`
}

type CoreInfo struct {
	Core     int    `json:"core"`
	Cluster  int    `json:"cluster"`
	Online   bool   `json:"online"`
	CurMHz   int64  `json:"cur_mhz"`
	MinMHz   int64  `json:"min_mhz"`
	MaxMHz   int64  `json:"max_mhz"`
	Governor string `json:"governor"`
}

type ClusterInfo struct {
	Index              int      `json:"index"`
	Cores              []int    `json:"cores"`
	HardwareMinMHz     int64    `json:"hardware_min_mhz"`
	HardwareMaxMHz     int64    `json:"hardware_max_mhz"`
	ScalingMinMHz      int64    `json:"scaling_min_mhz"`
	ScalingMaxMHz      int64    `json:"scaling_max_mhz"`
	Governor           string   `json:"governor"`
	AvailableGovernors []string `json:"available_governors"`
	AvailableFreqsMHz  []int64  `json:"available_freqs_mhz"`
	PolicyPath         string   `json:"policy_path"`
}

type CPUInfo struct {
	Cores        []CoreInfo    `json:"cores"`
	Clusters     []ClusterInfo `json:"clusters"`
	LoadPercent  float64       `json:"load_percent"`
	TemperatureC float64       `json:"temperature_c"`
}

type TempSource string

const (
	TempSourceUnknown   TempSource = ""
	TempSourceName      TempSource = "name"
	TempSourceLoose     TempSource = "loose"
	TempSourceHeuristic TempSource = "heuristic"
)

type GPUInfo struct {
	Vendor            string     `json:"vendor"`
	Renderer          string     `json:"renderer"`
	Governor          string     `json:"governor"`
	CurMHz            int64      `json:"cur_mhz"`
	MinMHz            int64      `json:"min_mhz"`
	MaxMHz            int64      `json:"max_mhz"`
	AvailableFreqsMHz []int64    `json:"available_freqs_mhz"`
	LoadPercent       int        `json:"load_percent"`
	TemperatureC      float64    `json:"temperature_c"`
	TempSource        TempSource `json:"temp_source,omitempty"`
}

type SystemInfo struct {
	AndroidVersion        string `json:"android_version"`
	ABI                   string `json:"abi"`
	KernelVersion         string `json:"kernel_version"`
	DeviceModel           string `json:"device_model"`
	BuildKeys             string `json:"build_keys"`
	SELinux               string `json:"selinux"`
	TotalRAMBytes         int64  `json:"total_ram_bytes"`
	AvailableRAMBytes     int64  `json:"available_ram_bytes"`
	SwapTotalBytes        int64  `json:"swap_total_bytes"`
	ZramSizeBytes         int64  `json:"zram_size_bytes"`
	Swappiness            int    `json:"swappiness"`
	TotalStorageBytes     int64  `json:"total_storage_bytes"`
	AvailableStorageBytes int64  `json:"available_storage_bytes"`
	UptimeSeconds         uint64 `json:"uptime_seconds"`
}

// TelemetryService reads live values; every call may hit the shell.
type TelemetryService interface {
	CPUInfo(ctx context.Context) CPUInfo
	GPUInfo(ctx context.Context) GPUInfo
	BatteryInfo(ctx context.Context) BatteryInfo
	SystemInfo(ctx context.Context) SystemInfo
	AppBatteryUsage(ctx context.Context) []AppBatteryStats
}

type SnapshotReader interface {
	Latest() (Snapshot, error)
}
