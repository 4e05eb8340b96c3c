package snapshot

import (
	"context"

	"xtra-telemetry/internal/domain"
)

type TelemetryStore struct {
	Store[domain.Snapshot]
}

func NewTelemetryStore() *TelemetryStore {
	return &TelemetryStore{}
}

func (s *TelemetryStore) Latest() (domain.Snapshot, error) {
	snap, ok := s.Get()
	if !ok {
		return domain.Snapshot{}, domain.ErrSnapshotNotReady
	}
	return snap, nil
}

// Record is a scheduler sink.
func (s *TelemetryStore) Record(_ context.Context, snap domain.Snapshot) {
	s.Set(snap)
}
