package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"xtra-telemetry/internal/domain"
)

type CurrentSampleRepository struct {
	db *sql.DB
}

func NewCurrentSampleRepository(db *sql.DB) domain.CurrentSampleRepository {
	return &CurrentSampleRepository{db: db}
}

func (r *CurrentSampleRepository) Insert(ctx context.Context, s *domain.CurrentSample) error {
	query := `INSERT INTO current_samples (current_ma, charging, recorded_at) VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, s.CurrentMA, s.Charging, s.RecordedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert current sample: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	s.ID = id

	return nil
}

// Latest returns up to limit samples, oldest first.
func (r *CurrentSampleRepository) Latest(ctx context.Context, limit int) ([]domain.CurrentSample, error) {
	query := `SELECT id, current_ma, charging, recorded_at FROM current_samples ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query current samples: %w", err)
	}
	defer rows.Close()

	samples := []domain.CurrentSample{}
	for rows.Next() {
		var s domain.CurrentSample
		var recordedAt int64
		if err := rows.Scan(&s.ID, &s.CurrentMA, &s.Charging, &recordedAt); err != nil {
			return nil, err
		}
		s.RecordedAt = time.UnixMilli(recordedAt).UTC()
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.Reverse(samples)

	return samples, nil
}

// Trim deletes everything but the newest keep samples.
func (r *CurrentSampleRepository) Trim(ctx context.Context, keep int) (int64, error) {
	query := `
	DELETE FROM current_samples
	WHERE id NOT IN (SELECT id FROM current_samples ORDER BY id DESC LIMIT ?)`

	result, err := r.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to trim current samples: %w", err)
	}

	return result.RowsAffected()
}
