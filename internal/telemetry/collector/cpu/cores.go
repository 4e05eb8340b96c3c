package cpu

import (
	"context"

	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/shell"
)

// Cores reads fresh per-core state for every discovered core.
func (c *Collector) Cores(ctx context.Context) []domain.CoreInfo {
	topo := c.topology(ctx)
	if topo == nil {
		return []domain.CoreInfo{}
	}

	out := make([]domain.CoreInfo, 0, len(topo.cores))
	for _, core := range topo.cores {
		out = append(out, c.readCore(ctx, core, topo.clusterOf[core]))
	}
	return out
}

func (c *Collector) readCore(ctx context.Context, core, cluster int) domain.CoreInfo {
	info := domain.CoreInfo{
		Core:     core,
		Cluster:  cluster,
		Governor: governorOffline,
	}

	// cpu0 cannot be hotplugged and usually has no online file
	info.Online = core == 0
	if !info.Online {
		state, err := shell.ReadFile(ctx, c.exec, corePath(core)+"/online")
		info.Online = err == nil && state == "1"
	}

	if !info.Online {
		return info
	}

	cur, err := shell.ReadInt(ctx, c.exec, freqPath(core, "scaling_cur_freq"))
	if err != nil {
		c.log.Debug("core frequency unreadable", "core", core, "error", err)
		return info
	}

	info.CurMHz = kHzToMHz(cur)
	info.MinMHz = kHzToMHz(c.readKHz(ctx, core, "scaling_min_freq", 0))
	info.MaxMHz = kHzToMHz(c.readKHz(ctx, core, "scaling_max_freq", 0))
	info.Governor = c.readGovernor(ctx, core)

	return info
}
