package driven

import (
	"context"

	"github.com/exhibitops/floorwatch/internal/domain/model"
)

// ThresholdStore defines the driven port for threshold persistence. Sets
// are always written as a whole replacement per (area, band type); there is
// no partial patch at this boundary.
type ThresholdStore interface {
	// GetByArea returns all thresholds of one area for one band type,
	// sorted ascending by effective bound.
	GetByArea(ctx context.Context, areaID int64, band model.BandType) ([]model.Threshold, error)

	// GetAllByArea returns the denormalized thresholds of one area for
	// both band types together, as delivered in snapshots.
	GetAllByArea(ctx context.Context, areaID int64) ([]model.Threshold, error)

	// ReplaceSet atomically replaces the (areaID, band) set with the given
	// thresholds and returns them with durable persisted ids. Pending ids
	// on input thresholds are discarded. Returns ErrAreaNotFound when the
	// area does not exist.
	ReplaceSet(ctx context.Context, areaID int64, band model.BandType, ths []model.Threshold) ([]model.Threshold, error)
}

// LegendStore defines the driven port for legend row persistence. The
// legend is display-only configuration, edited as a whole list.
type LegendStore interface {
	ListAll(ctx context.Context) ([]model.LegendRow, error)
	ReplaceAll(ctx context.Context, rows []model.LegendRow) error
}
