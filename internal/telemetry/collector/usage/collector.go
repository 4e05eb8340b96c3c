// Package usage attributes battery drain to applications from the
// batterystats power-use section.
package usage

import (
	"context"
	"fmt"

	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
	"xtra-telemetry/internal/shell"
)

const dumpsysCommand = "dumpsys batterystats --charged"

type refresher interface {
	Refresh(ctx context.Context) error
}

type Collector struct {
	exec     shell.Executor
	resolver IdentityResolver
	log      logger.Logger
}

func NewCollector(exec shell.Executor, resolver IdentityResolver, log logger.Logger) *Collector {
	return &Collector{
		exec:     exec,
		resolver: resolver,
		log:      log.With("collector", "usage"),
	}
}

// Collect returns an empty, non-nil slice when the dump is unavailable.
func (c *Collector) Collect(ctx context.Context) ([]domain.AppBatteryStats, error) {
	out, err := c.exec.Execute(ctx, dumpsysCommand)
	if err != nil {
		return []domain.AppBatteryStats{}, fmt.Errorf("dumpsys batterystats: %w", err)
	}

	entries := Parse(out, c.log)

	if r, ok := c.resolver.(refresher); ok && len(entries) > 0 {
		if err := r.Refresh(ctx); err != nil {
			c.log.Warn("package index refresh failed", "error", err)
		}
	}

	stats := make([]domain.AppBatteryStats, 0, len(entries))
	for _, e := range entries {
		stats = append(stats, resolve(ctx, c.resolver, e))
	}

	return stats, nil
}
