package domain

import (
	"context"
	"time"
)

type BatteryInfo struct {
	Level              int     `json:"level"`
	TemperatureC       float64 `json:"temperature_c"`
	Health             string  `json:"health"`
	Status             string  `json:"status"`
	Technology         string  `json:"technology"`
	VoltageMV          int     `json:"voltage_mv"`
	CurrentMA          int     `json:"current_ma"`
	CycleCount         int     `json:"cycle_count"`
	CurrentCapacityMAh int     `json:"current_capacity_mah"`
	DesignCapacityMAh  int     `json:"design_capacity_mah"`
	HealthPercent      float64 `json:"health_percent"`
}

func (b BatteryInfo) Charging() bool {
	return b.Status == "Charging" || b.Status == "Full"
}

type UsageType string

const (
	UsageSystem UsageType = "SYSTEM"
	UsageApp    UsageType = "APP"
)

type AppBatteryStats struct {
	UID         int       `json:"uid"`
	PackageName string    `json:"package_name,omitempty"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon,omitempty"`
	Percent     float64   `json:"percent"`
	Type        UsageType `json:"type"`
}

type CurrentSample struct {
	ID         int64     `json:"id"`
	CurrentMA  int       `json:"current_ma"`
	Charging   bool      `json:"charging"`
	RecordedAt time.Time `json:"recorded_at"`
}

type CurrentSampleRepository interface {
	Insert(ctx context.Context, s *CurrentSample) error
	Latest(ctx context.Context, limit int) ([]CurrentSample, error)
	Trim(ctx context.Context, keep int) (int64, error)
}

type HistoryQuery struct {
	Limit int `json:"limit" validate:"min=1,max=4320"`
}
