package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"xtra-telemetry/internal/domain"
)

func TestTelemetryStoreNotReady(t *testing.T) {
	s := NewTelemetryStore()

	if _, err := s.Latest(); !errors.Is(err, domain.ErrSnapshotNotReady) {
		t.Errorf("Latest() error = %v, want ErrSnapshotNotReady", err)
	}
}

func TestTelemetryStoreRecord(t *testing.T) {
	s := NewTelemetryStore()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	s.Record(context.Background(), domain.Snapshot{RecordedAt: at, GPU: domain.GPUInfo{CurMHz: 585}})

	snap, err := s.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if !snap.RecordedAt.Equal(at) || snap.GPU.CurMHz != 585 {
		t.Errorf("Latest() = %+v", snap)
	}
}
