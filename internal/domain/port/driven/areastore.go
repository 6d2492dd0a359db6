package driven

import (
	"context"
	"errors"
	"time"

	"github.com/exhibitops/floorwatch/internal/domain/model"
)

// Sentinel errors returned by AreaStore implementations.
var (
	// ErrAreaNotFound indicates the requested area does not exist.
	ErrAreaNotFound = errors.New("area not found")
)

// AreaStore defines the driven port for area persistence. GetByID and the
// list methods return areas with their current visitor count resolved from
// the latest sample inside the given window (zero window means "latest
// sample, whatever its age"). Threshold sets are loaded separately via
// ThresholdStore.
type AreaStore interface {
	// Create inserts a new area and returns it with its assigned id.
	Create(ctx context.Context, area model.Area) (model.Area, error)

	// Delete removes an area. Associated thresholds and count samples are
	// removed by foreign key cascade. Returns ErrAreaNotFound if absent.
	Delete(ctx context.Context, id int64) error

	// GetByID retrieves one area. Returns nil, nil when it does not exist.
	GetByID(ctx context.Context, id int64, window time.Duration) (*model.Area, error)

	// ListAll returns all areas ordered by name.
	ListAll(ctx context.Context, window time.Duration) ([]model.Area, error)

	// UpdateSettings applies a settings patch to an area through one
	// validated update. Returns ErrAreaNotFound if absent.
	UpdateSettings(ctx context.Context, id int64, patch model.AreaPatch) error
}

// CountStore defines the driven port for visitor count sample persistence.
type CountStore interface {
	// RecordSamples stores one poll cycle's samples. Samples for unknown
	// areas are skipped, not errors; the upstream feed may know areas the
	// dashboard does not track.
	RecordSamples(ctx context.Context, samples []model.VisitorSample) error

	// LatestCounts returns the most recent count per area inside the
	// window (zero window means no lower time limit). Areas without a
	// sample are absent from the map.
	LatestCounts(ctx context.Context, window time.Duration) (map[int64]int, error)
}
