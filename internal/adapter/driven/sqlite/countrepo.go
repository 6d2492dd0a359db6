package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/exhibitops/floorwatch/internal/domain/model"
	"github.com/exhibitops/floorwatch/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CountStore = (*CountRepo)(nil)

// CountRepo is the SQLite implementation of the CountStore port interface.
type CountRepo struct {
	db *DB
}

// NewCountRepo creates a new CountRepo backed by the given DB.
func NewCountRepo(db *DB) *CountRepo {
	return &CountRepo{db: db}
}

// RecordSamples stores one poll cycle's samples in a single transaction.
// Samples referencing unknown areas are skipped; the upstream counting
// service may report areas the dashboard does not track.
func (r *CountRepo) RecordSamples(ctx context.Context, samples []model.VisitorSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `
		INSERT INTO visitor_counts (area_id, count, observed_at)
		SELECT ?, ?, ?
		WHERE EXISTS (SELECT 1 FROM areas WHERE id = ?)
	`

	for _, sample := range samples {
		observedAt := sample.ObservedAt
		if observedAt.IsZero() {
			observedAt = time.Now()
		}
		if _, err := tx.ExecContext(ctx, query,
			sample.AreaID, sample.Count, formatTime(observedAt), sample.AreaID,
		); err != nil {
			return fmt.Errorf("record sample for area %d: %w", sample.AreaID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit samples: %w", err)
	}
	return nil
}

// LatestCounts returns the most recent count per area inside the window.
// Areas without a sample inside the window are absent from the map.
func (r *CountRepo) LatestCounts(ctx context.Context, window time.Duration) (map[int64]int, error) {
	clause, args := windowFilter(window)
	query := fmt.Sprintf(`
		SELECT area_id, count FROM (
			SELECT area_id, count,
			       ROW_NUMBER() OVER (PARTITION BY area_id ORDER BY observed_at DESC) AS rn
			FROM visitor_counts
			%s
		) WHERE rn = 1
	`, clause)

	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query latest counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var areaID int64
		var count int
		if err := rows.Scan(&areaID, &count); err != nil {
			return nil, fmt.Errorf("scan count row: %w", err)
		}
		counts[areaID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}

	return counts, nil
}
