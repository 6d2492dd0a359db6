package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/exhibitops/floorwatch/internal/domain/model"
	"github.com/exhibitops/floorwatch/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AreaStore = (*AreaRepo)(nil)

// AreaRepo is the SQLite implementation of the AreaStore port interface.
// Visitor counts live in their own table; reads resolve the latest sample
// per area inside the caller's time window.
type AreaRepo struct {
	db *DB
}

// NewAreaRepo creates a new AreaRepo backed by the given DB.
func NewAreaRepo(db *DB) *AreaRepo {
	return &AreaRepo{db: db}
}

// selectAreaColumns is shared by GetByID and ListAll. The latest-sample
// subquery is filtered by the window clause spliced in at %s.
const selectAreaColumns = `
	SELECT a.id, a.name, a.name_en, a.capacity, a.active, a.highlight,
	       a.hide_name, a.hide_absolute, a.hide_percentage, a.coordinates,
	       c.count, c.observed_at
	FROM areas a
	LEFT JOIN (
		SELECT area_id, count, observed_at,
		       ROW_NUMBER() OVER (PARTITION BY area_id ORDER BY observed_at DESC) AS rn
		FROM visitor_counts
		%s
	) c ON c.area_id = a.id AND c.rn = 1
`

// windowFilter returns the WHERE clause and args limiting count samples to
// the given window. A zero window means no time limit.
func windowFilter(window time.Duration) (string, []any) {
	if window <= 0 {
		return "", nil
	}
	cutoff := time.Now().UTC().Add(-window)
	return "WHERE observed_at >= ?", []any{formatTime(cutoff)}
}

// Create inserts a new area and returns it with its assigned id.
func (r *AreaRepo) Create(ctx context.Context, area model.Area) (model.Area, error) {
	const query = `
		INSERT INTO areas (name, name_en, capacity, active, highlight, hide_name, hide_absolute, hide_percentage, coordinates)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	coords, err := json.Marshal(area.Coordinates)
	if err != nil {
		return model.Area{}, fmt.Errorf("marshal coordinates: %w", err)
	}

	result, err := r.db.Writer.ExecContext(ctx, query,
		area.Name, area.NameEN, area.Capacity, area.Active, area.Highlight,
		area.HideName, area.HideAbsolute, area.HidePercentage, string(coords),
	)
	if err != nil {
		return model.Area{}, fmt.Errorf("create area %q: %w", area.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Area{}, fmt.Errorf("area insert id: %w", err)
	}

	area.ID = id
	return area, nil
}

// Delete removes an area by id. Thresholds and count samples cascade.
func (r *AreaRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM areas WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete area %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete area %d: %w", id, driven.ErrAreaNotFound)
	}

	return nil
}

// GetByID retrieves one area with its latest visitor count inside the
// window. Returns nil, nil if the area does not exist.
func (r *AreaRepo) GetByID(ctx context.Context, id int64, window time.Duration) (*model.Area, error) {
	clause, args := windowFilter(window)
	query := fmt.Sprintf(selectAreaColumns, clause) + ` WHERE a.id = ?`
	args = append(args, id)

	area, err := scanArea(r.db.Reader.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get area %d: %w", id, err)
	}

	return area, nil
}

// ListAll returns all areas ordered by name, counts resolved per window.
func (r *AreaRepo) ListAll(ctx context.Context, window time.Duration) ([]model.Area, error) {
	clause, args := windowFilter(window)
	query := fmt.Sprintf(selectAreaColumns, clause) + ` ORDER BY a.name`

	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	defer rows.Close()

	var areas []model.Area
	for rows.Next() {
		area, err := scanArea(rows)
		if err != nil {
			return nil, fmt.Errorf("scan area: %w", err)
		}
		areas = append(areas, *area)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate areas: %w", err)
	}

	return areas, nil
}

// UpdateSettings loads the area, applies the patch and writes the result
// back in one transaction so concurrent edits cannot interleave fields.
func (r *AreaRepo) UpdateSettings(ctx context.Context, id int64, patch model.AreaPatch) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const selectQuery = `
		SELECT name, name_en, capacity, active, highlight, hide_name, hide_absolute, hide_percentage, coordinates
		FROM areas WHERE id = ?
	`

	var area model.Area
	var coordsJSON string
	err = tx.QueryRowContext(ctx, selectQuery, id).Scan(
		&area.Name, &area.NameEN, &area.Capacity, &area.Active, &area.Highlight,
		&area.HideName, &area.HideAbsolute, &area.HidePercentage, &coordsJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update area %d: %w", id, driven.ErrAreaNotFound)
	}
	if err != nil {
		return fmt.Errorf("load area %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(coordsJSON), &area.Coordinates); err != nil {
		return fmt.Errorf("unmarshal coordinates: %w", err)
	}

	area = patch.Apply(area)
	coords, err := json.Marshal(area.Coordinates)
	if err != nil {
		return fmt.Errorf("marshal coordinates: %w", err)
	}

	const updateQuery = `
		UPDATE areas
		SET name = ?, name_en = ?, capacity = ?, active = ?, highlight = ?,
		    hide_name = ?, hide_absolute = ?, hide_percentage = ?, coordinates = ?
		WHERE id = ?
	`
	if _, err := tx.ExecContext(ctx, updateQuery,
		area.Name, area.NameEN, area.Capacity, area.Active, area.Highlight,
		area.HideName, area.HideAbsolute, area.HidePercentage, string(coords), id,
	); err != nil {
		return fmt.Errorf("update area %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit area update: %w", err)
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanArea(s scanner) (*model.Area, error) {
	var area model.Area
	var coordsJSON string
	var count sql.NullInt64
	var observedAt sql.NullString

	err := s.Scan(
		&area.ID, &area.Name, &area.NameEN, &area.Capacity, &area.Active, &area.Highlight,
		&area.HideName, &area.HideAbsolute, &area.HidePercentage, &coordsJSON,
		&count, &observedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(coordsJSON), &area.Coordinates); err != nil {
		return nil, fmt.Errorf("unmarshal coordinates: %w", err)
	}

	if count.Valid {
		area.VisitorCount = int(count.Int64)
	}
	if observedAt.Valid {
		area.LastUpdated, err = parseTime(observedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse observed_at: %w", err)
		}
	}

	return &area, nil
}

// formatTime stores timestamps as UTC RFC 3339 so lexicographic comparison
// in SQL matches chronological order.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
