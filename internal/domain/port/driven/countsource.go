package driven

import (
	"context"
	"time"

	"github.com/exhibitops/floorwatch/internal/domain/model"
)

// CountSource defines the driven port for the upstream people-counting
// service. Implementations fetch the visitor counts observed inside the
// given time window; a zero window asks for the most recent counts.
type CountSource interface {
	FetchCounts(ctx context.Context, window time.Duration) ([]model.VisitorSample, error)
}
