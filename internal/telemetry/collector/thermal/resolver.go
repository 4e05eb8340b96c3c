package thermal

import (
	"context"
	"sync"

	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
	"xtra-telemetry/internal/shell"
	"xtra-telemetry/internal/telemetry/probe"
	"xtra-telemetry/pkg"
)

type Tier struct {
	Source domain.TempSource
	Tokens []string
}

// HeuristicRange is the zone index window probed when no zone name matches.
var HeuristicRange = [2]int{5, 15}

type Resolver struct {
	exec      shell.Executor
	log       logger.Logger
	tiers     []Tier
	heuristic bool

	cache  probe.Path
	mu     sync.Mutex
	source domain.TempSource
}

func NewResolver(exec shell.Executor, log logger.Logger, heuristic bool, tiers ...Tier) *Resolver {
	return &Resolver{
		exec:      exec,
		log:       log,
		tiers:     tiers,
		heuristic: heuristic,
	}
}

// Read returns 0 and TempSourceUnknown when no zone can be resolved.
func (r *Resolver) Read(ctx context.Context) (float64, domain.TempSource) {
	if path, ok := r.cache.Get(); ok {
		if t, ok := ReadTemp(ctx, r.exec, path); ok {
			return t, r.cachedSource()
		}
		r.log.Debug("thermal: cached zone stopped reporting", "path", path)
		r.cache.Clear()
	}

	zones, err := ListZones(ctx, r.exec)
	if err != nil {
		r.log.Debug("thermal: zone enumeration failed", "error", err)
		return 0, domain.TempSourceUnknown
	}

	for _, tier := range r.tiers {
		for _, z := range zones {
			token, ok := pkg.MatchToken(z.Type, tier.Tokens)
			if !ok {
				continue
			}
			if t, ok := r.try(ctx, z.Index, tier.Source); ok {
				r.log.Debug("thermal: zone resolved", "zone", z.Index, "type", z.Type, "token", token, "source", tier.Source)
				return t, tier.Source
			}
		}
	}

	if r.heuristic {
		for _, z := range zones {
			if z.Index < HeuristicRange[0] || z.Index > HeuristicRange[1] {
				continue
			}
			if t, ok := r.try(ctx, z.Index, domain.TempSourceHeuristic); ok {
				r.log.Debug("thermal: using heuristic zone", "zone", z.Index, "type", z.Type)
				return t, domain.TempSourceHeuristic
			}
		}
	}

	return 0, domain.TempSourceUnknown
}

func (r *Resolver) try(ctx context.Context, index int, source domain.TempSource) (float64, bool) {
	path := ZonePath(index)

	t, ok := ReadTemp(ctx, r.exec, path)
	if !ok {
		return 0, false
	}

	r.cache.Set(path)
	r.mu.Lock()
	r.source = source
	r.mu.Unlock()

	return t, true
}

func (r *Resolver) cachedSource() domain.TempSource {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source
}
