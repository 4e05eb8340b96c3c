package usage

import (
	"context"
	"fmt"

	"xtra-telemetry/internal/domain"
)

const (
	rootUID   = 0
	systemUID = 1000
)

// IdentityResolver maps UIDs to the packages and names that own them.
type IdentityResolver interface {
	NameForUID(ctx context.Context, uid int) (string, error)
	PackagesForUID(ctx context.Context, uid int) ([]string, error)
	AppInfo(ctx context.Context, pkg string) (label, icon string, err error)
}

func resolve(ctx context.Context, r IdentityResolver, e Entry) domain.AppBatteryStats {
	stats := domain.AppBatteryStats{
		UID:     e.UID,
		Percent: e.Percent,
		Type:    domain.UsageSystem,
	}

	switch {
	case e.UID == UnknownUID:
		stats.Name = "Unknown"

	case e.UID == rootUID:
		stats.Name = "Root / Kernel"
		stats.PackageName = "root"

	case e.UID == systemUID:
		stats.Name = "Android System"
		stats.PackageName = "android"

	case e.UID < firstAppUID:
		name, err := r.NameForUID(ctx, e.UID)
		if err != nil || name == "" {
			name = fmt.Sprintf("System (%d)", e.UID)
		}
		stats.Name = name

	default:
		stats.Type = domain.UsageApp

		pkgs, err := r.PackagesForUID(ctx, e.UID)
		switch {
		case err != nil:
			stats.Name = fmt.Sprintf("Unknown (%d)", e.UID)
		case len(pkgs) == 0:
			stats.Name = "Removed App"
		default:
			stats.PackageName = pkgs[0]
			label, icon, err := r.AppInfo(ctx, pkgs[0])
			if err != nil || label == "" {
				label = pkgs[0]
			}
			stats.Name = label
			stats.Icon = icon
		}
	}

	return stats
}
