package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/exhibitops/floorwatch/internal/domain/model"
	"github.com/exhibitops/floorwatch/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ThresholdStore = (*ThresholdRepo)(nil)

// ThresholdRepo is the SQLite implementation of the ThresholdStore port
// interface. The upper_threshold column stores -1 for an unbounded band;
// that sentinel never leaves this package.
type ThresholdRepo struct {
	db *DB
}

// NewThresholdRepo creates a new ThresholdRepo backed by the given DB.
func NewThresholdRepo(db *DB) *ThresholdRepo {
	return &ThresholdRepo{db: db}
}

const unboundedSentinel = -1

func encodeBound(b model.Bound) int {
	if b.IsUnbounded() {
		return unboundedSentinel
	}
	return b.Value()
}

func decodeBound(v int) model.Bound {
	if v < 0 {
		return model.Unbounded()
	}
	return model.Bounded(v)
}

// thresholdOrder sorts finite bounds ascending with the unbounded band last.
const thresholdOrder = `CASE WHEN upper_threshold < 0 THEN 1 ELSE 0 END, upper_threshold, id`

// GetByArea returns all thresholds of one area for one band type, sorted
// ascending by effective bound.
func (r *ThresholdRepo) GetByArea(ctx context.Context, areaID int64, band model.BandType) ([]model.Threshold, error) {
	query := `
		SELECT id, area_id, band_type, upper_threshold, color, alert, alert_message_enabled, alert_message
		FROM thresholds
		WHERE area_id = ? AND band_type = ?
		ORDER BY ` + thresholdOrder

	rows, err := r.db.Reader.QueryContext(ctx, query, areaID, string(band))
	if err != nil {
		return nil, fmt.Errorf("query thresholds for area %d: %w", areaID, err)
	}
	defer rows.Close()

	return collectThresholds(rows)
}

// GetAllByArea returns the thresholds of one area for both band types,
// grouped by band type and sorted ascending within each.
func (r *ThresholdRepo) GetAllByArea(ctx context.Context, areaID int64) ([]model.Threshold, error) {
	query := `
		SELECT id, area_id, band_type, upper_threshold, color, alert, alert_message_enabled, alert_message
		FROM thresholds
		WHERE area_id = ?
		ORDER BY band_type, ` + thresholdOrder

	rows, err := r.db.Reader.QueryContext(ctx, query, areaID)
	if err != nil {
		return nil, fmt.Errorf("query thresholds for area %d: %w", areaID, err)
	}
	defer rows.Close()

	return collectThresholds(rows)
}

func collectThresholds(rows *sql.Rows) ([]model.Threshold, error) {
	var ths []model.Threshold
	for rows.Next() {
		var th model.Threshold
		var id int64
		var band string
		var upper int
		if err := rows.Scan(&id, &th.AreaID, &band, &upper, &th.Color, &th.Alert, &th.AlertMessageEnabled, &th.AlertMessage); err != nil {
			return nil, fmt.Errorf("scan threshold row: %w", err)
		}
		th.ID = model.PersistedID(id)
		th.Band = model.BandType(band)
		th.Upper = decodeBound(upper)
		ths = append(ths, th)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate thresholds: %w", err)
	}

	return ths, nil
}

// ReplaceSet atomically replaces the (areaID, band) set. Input ids are
// discarded; the returned thresholds carry fresh persisted ids.
func (r *ThresholdRepo) ReplaceSet(ctx context.Context, areaID int64, band model.BandType, ths []model.Threshold) ([]model.Threshold, error) {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM areas WHERE id = ?`, areaID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check area %d: %w", areaID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("replace thresholds for area %d: %w", areaID, driven.ErrAreaNotFound)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM thresholds WHERE area_id = ? AND band_type = ?`,
		areaID, string(band),
	); err != nil {
		return nil, fmt.Errorf("clear thresholds for area %d: %w", areaID, err)
	}

	const insert = `
		INSERT INTO thresholds (area_id, band_type, upper_threshold, color, alert, alert_message_enabled, alert_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	saved := make([]model.Threshold, 0, len(ths))
	for _, th := range ths {
		result, err := tx.ExecContext(ctx, insert,
			areaID, string(band), encodeBound(th.Upper), th.Color,
			th.Alert, th.AlertMessageEnabled, th.AlertMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("insert threshold (bound %s): %w", th.Upper, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("threshold insert id: %w", err)
		}

		th.ID = model.PersistedID(id)
		th.AreaID = areaID
		th.Band = band
		saved = append(saved, th)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit threshold replacement: %w", err)
	}
	return saved, nil
}
