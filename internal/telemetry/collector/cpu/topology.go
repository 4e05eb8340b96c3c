package cpu

import (
	"context"
	"maps"
	"slices"
	"strconv"
	"strings"

	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/shell"
)

// Clusters returns the cached cluster list, discovering it on first use.
// An empty discovery is not cached so a later call can retry once the
// shell is usable.
func (c *Collector) Clusters(ctx context.Context) []domain.ClusterInfo {
	topo := c.topology(ctx)
	if topo == nil {
		return []domain.ClusterInfo{}
	}

	out := make([]domain.ClusterInfo, len(topo.clusters))
	for i, cl := range topo.clusters {
		cl.Cores = slices.Clone(cl.Cores)
		cl.AvailableGovernors = slices.Clone(cl.AvailableGovernors)
		cl.AvailableFreqsMHz = slices.Clone(cl.AvailableFreqsMHz)
		out[i] = cl
	}
	return out
}

func (c *Collector) topology(ctx context.Context) *topology {
	c.topoMu.Lock()
	cached := c.topo
	c.topoMu.Unlock()

	if cached != nil {
		return cached
	}

	topo := c.discover(ctx)
	if len(topo.cores) == 0 {
		c.log.Warn("cpu topology unknown, no cores found")
		return nil
	}

	c.topoMu.Lock()
	defer c.topoMu.Unlock()

	// last writer wins when two first calls race
	c.topo = topo
	return c.topo
}

func (c *Collector) discover(ctx context.Context) *topology {
	topo := &topology{clusterOf: make(map[int]int)}

	for core := 0; core < maxCores; core++ {
		if !shell.Exists(ctx, c.exec, corePath(core)) {
			break
		}
		topo.cores = append(topo.cores, core)
		topo.clusterOf[core] = -1
	}

	groups := make(map[int64][]int)
	for _, core := range topo.cores {
		maxKHz, err := shell.ReadInt(ctx, c.exec, freqPath(core, "cpuinfo_max_freq"))
		if err != nil {
			c.log.Debug("skipping core without max frequency", "core", core, "error", err)
			continue
		}
		groups[maxKHz] = append(groups[maxKHz], core)
	}

	for i, maxKHz := range slices.Sorted(maps.Keys(groups)) {
		members := groups[maxKHz]
		for _, core := range members {
			topo.clusterOf[core] = i
		}
		topo.clusters = append(topo.clusters, c.describeCluster(ctx, i, members, maxKHz))
	}

	c.log.Info("cpu topology discovered", "cores", len(topo.cores), "clusters", len(topo.clusters))

	return topo
}

func (c *Collector) describeCluster(ctx context.Context, index int, cores []int, maxKHz int64) domain.ClusterInfo {
	first := cores[0]

	minKHz := c.readKHz(ctx, first, "cpuinfo_min_freq", 0)

	return domain.ClusterInfo{
		Index:              index,
		Cores:              cores,
		HardwareMinMHz:     kHzToMHz(minKHz),
		HardwareMaxMHz:     kHzToMHz(maxKHz),
		ScalingMinMHz:      kHzToMHz(c.readKHz(ctx, first, "scaling_min_freq", minKHz)),
		ScalingMaxMHz:      kHzToMHz(c.readKHz(ctx, first, "scaling_max_freq", maxKHz)),
		Governor:           c.readGovernor(ctx, first),
		AvailableGovernors: c.availableGovernors(ctx, first),
		AvailableFreqsMHz:  c.availableFreqs(ctx, first),
		PolicyPath:         policyPath(first),
	}
}

func (c *Collector) readKHz(ctx context.Context, core int, file string, fallback int64) int64 {
	v, err := shell.ReadInt(ctx, c.exec, freqPath(core, file))
	if err != nil {
		return fallback
	}
	return v
}

func (c *Collector) readGovernor(ctx context.Context, core int) string {
	gov, err := shell.ReadFile(ctx, c.exec, freqPath(core, "scaling_governor"))
	if err != nil {
		return governorUnknown
	}
	return gov
}

func (c *Collector) availableGovernors(ctx context.Context, core int) []string {
	raw, err := shell.ReadFile(ctx, c.exec, freqPath(core, "scaling_available_governors"))
	if err != nil {
		return defaultGovernors()
	}

	govs := strings.Fields(raw)
	if len(govs) == 0 {
		return defaultGovernors()
	}
	return govs
}

func defaultGovernors() []string {
	return slices.Clone(DefaultGovernors)
}

// availableFreqs keeps the kernel's order. Unparseable tokens are dropped.
func (c *Collector) availableFreqs(ctx context.Context, core int) []int64 {
	freqs := []int64{}

	raw, err := shell.ReadFile(ctx, c.exec, freqPath(core, "scaling_available_frequencies"))
	if err != nil {
		return freqs
	}

	for _, field := range strings.Fields(raw) {
		khz, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		freqs = append(freqs, kHzToMHz(khz))
	}

	return freqs
}
