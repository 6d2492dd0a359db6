package sqlite

import (
	"context"
	"fmt"

	"github.com/exhibitops/floorwatch/internal/domain/model"
	"github.com/exhibitops/floorwatch/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.LegendStore = (*LegendRepo)(nil)

// LegendRepo is the SQLite implementation of the LegendStore port interface.
type LegendRepo struct {
	db *DB
}

// NewLegendRepo creates a new LegendRepo backed by the given DB.
func NewLegendRepo(db *DB) *LegendRepo {
	return &LegendRepo{db: db}
}

// ListAll returns all legend rows in insertion order.
func (r *LegendRepo) ListAll(ctx context.Context) ([]model.LegendRow, error) {
	const query = `SELECT id, object, description_de, description_en, band_type FROM legend ORDER BY id`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list legend: %w", err)
	}
	defer rows.Close()

	var legend []model.LegendRow
	for rows.Next() {
		var row model.LegendRow
		var band string
		if err := rows.Scan(&row.ID, &row.Object, &row.DescriptionDE, &row.DescriptionEN, &band); err != nil {
			return nil, fmt.Errorf("scan legend row: %w", err)
		}
		row.Band = model.BandType(band)
		legend = append(legend, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate legend: %w", err)
	}

	return legend, nil
}

// ReplaceAll swaps the whole legend for the given rows in one transaction.
func (r *LegendRepo) ReplaceAll(ctx context.Context, legend []model.LegendRow) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM legend`); err != nil {
		return fmt.Errorf("clear legend: %w", err)
	}

	const insert = `INSERT INTO legend (object, description_de, description_en, band_type) VALUES (?, ?, ?, ?)`
	for _, row := range legend {
		if _, err := tx.ExecContext(ctx, insert, row.Object, row.DescriptionDE, row.DescriptionEN, string(row.Band)); err != nil {
			return fmt.Errorf("insert legend row %q: %w", row.Object, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit legend replacement: %w", err)
	}
	return nil
}
