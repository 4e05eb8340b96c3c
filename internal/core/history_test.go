package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
)

type memoryHistory struct {
	samples   []domain.CurrentSample
	trims     []int
	insertErr error
}

func (m *memoryHistory) Insert(_ context.Context, s *domain.CurrentSample) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	s.ID = int64(len(m.samples) + 1)
	m.samples = append(m.samples, *s)
	return nil
}

func (m *memoryHistory) Latest(_ context.Context, limit int) ([]domain.CurrentSample, error) {
	return m.samples[max(0, len(m.samples)-limit):], nil
}

func (m *memoryHistory) Trim(_ context.Context, keep int) (int64, error) {
	m.trims = append(m.trims, keep)
	removed := max(0, len(m.samples)-keep)
	m.samples = m.samples[removed:]
	return int64(removed), nil
}

func TestCurrentRecorderStoresSamples(t *testing.T) {
	repo := &memoryHistory{}
	rec := NewCurrentRecorder(repo, 100, logger.Discard())
	at := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	rec.Record(context.Background(), domain.Snapshot{
		Battery:    domain.BatteryInfo{Level: 80, Status: "Charging", CurrentMA: 1500},
		RecordedAt: at,
	})
	rec.Record(context.Background(), domain.Snapshot{
		Battery:    domain.BatteryInfo{Level: 0},
		RecordedAt: at.Add(5 * time.Second),
	})

	if len(repo.samples) != 1 {
		t.Fatalf("stored %d samples, want 1", len(repo.samples))
	}
	s := repo.samples[0]
	if s.CurrentMA != 1500 || !s.Charging || !s.RecordedAt.Equal(at) {
		t.Errorf("sample = %+v", s)
	}
}

func TestCurrentRecorderTrims(t *testing.T) {
	repo := &memoryHistory{}
	rec := NewCurrentRecorder(repo, 10, logger.Discard())

	for range trimEvery * 2 {
		rec.Record(context.Background(), domain.Snapshot{Battery: domain.BatteryInfo{Level: 50, CurrentMA: -300}})
	}

	if len(repo.trims) != 2 {
		t.Errorf("trimmed %d times, want 2", len(repo.trims))
	}
	if len(repo.samples) != 10 {
		t.Errorf("kept %d samples, want 10", len(repo.samples))
	}
}

func TestCurrentRecorderInsertFailure(t *testing.T) {
	repo := &memoryHistory{insertErr: errors.New("disk full")}
	rec := NewCurrentRecorder(repo, 10, logger.Discard())

	for range trimEvery {
		rec.Record(context.Background(), domain.Snapshot{Battery: domain.BatteryInfo{Level: 50}})
	}

	if len(repo.trims) != 0 {
		t.Errorf("trimmed after failed inserts")
	}
}
