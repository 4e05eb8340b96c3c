package core

import (
	"context"

	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
)

// trimEvery spaces out retention deletes; the table may briefly hold up
// to trimEvery rows more than the limit.
const trimEvery = 60

// CurrentRecorder persists the battery current of every snapshot.
type CurrentRecorder struct {
	repo    domain.CurrentSampleRepository
	limit   int
	log     logger.Logger
	pending int
}

func NewCurrentRecorder(repo domain.CurrentSampleRepository, limit int, log logger.Logger) *CurrentRecorder {
	return &CurrentRecorder{
		repo:  repo,
		limit: limit,
		log:   log.With("component", "history"),
	}
}

// Record is a scheduler sink. Snapshots are delivered serially, so no
// locking is needed.
func (r *CurrentRecorder) Record(ctx context.Context, snap domain.Snapshot) {
	// level 0 means the battery node was unreadable
	if snap.Battery.Level == 0 {
		return
	}

	sample := &domain.CurrentSample{
		CurrentMA:  snap.Battery.CurrentMA,
		Charging:   snap.Battery.Charging(),
		RecordedAt: snap.RecordedAt,
	}
	if err := r.repo.Insert(ctx, sample); err != nil {
		r.log.Error("failed to store current sample", "error", err)
		return
	}

	r.pending++
	if r.pending < trimEvery {
		return
	}
	r.pending = 0

	removed, err := r.repo.Trim(ctx, r.limit)
	if err != nil {
		r.log.Error("failed to trim current history", "error", err)
		return
	}
	if removed > 0 {
		r.log.Debug("current history trimmed", "removed", removed, "keep", r.limit)
	}
}
