package core

import (
	"context"
	"time"

	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
)

type SampleFunc func(context.Context) domain.Snapshot

type SinkFunc func(context.Context, domain.Snapshot)

// Scheduler polls the engine on a fixed interval. Ticks are serial, so a
// slow shell delays the next sample instead of stacking them up.
type Scheduler struct {
	interval time.Duration
	log      logger.Logger
	sample   SampleFunc
	sinks    []SinkFunc
}

func NewScheduler(interval time.Duration, log logger.Logger, sample SampleFunc, sinks ...SinkFunc) *Scheduler {
	return &Scheduler{
		interval: interval,
		log:      log.With("component", "scheduler"),
		sample:   sample,
		sinks:    sinks,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("scheduler started", "interval", s.interval)
	s.tick(ctx)

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if s.sample == nil {
		return
	}

	start := time.Now()
	snap := s.sample(ctx)
	if ctx.Err() != nil {
		return
	}

	for _, sink := range s.sinks {
		sink(ctx, snap)
	}

	if took := time.Since(start); took > s.interval {
		s.log.Warn("sample slower than interval", "took", took, "interval", s.interval)
	} else {
		s.log.Debug("sample done", "took", took)
	}
}
