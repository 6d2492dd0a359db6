// Package application contains use-case orchestration services and the
// pure band resolution functions.
package application

import (
	"fmt"
	"sort"

	"github.com/exhibitops/floorwatch/internal/domain/model"
)

// ResolveActiveBand returns the band whose range the visitor count falls
// into: the threshold with the smallest effective upper bound that is still
// at or above the count, treating an unbounded bound as +∞. Returns nil
// when no band covers the count (empty set, or the count exceeds every
// finite bound and no unbounded band exists); callers fall back to
// model.NeutralColor.
//
// Duplicate bounds are a data-entry anomaly the editor prevents, but the
// resolver must not misbehave on malformed input: ties resolve to the
// threshold supplied first.
func ResolveActiveBand(count int, ths []model.Threshold) *model.Threshold {
	sorted := sortedAscending(ths)
	for i := range sorted {
		if sorted[i].Upper.AtLeast(count) {
			return &sorted[i]
		}
	}
	return nil
}

// ActiveLevel returns the 1-based position of the active band in ascending
// bound order, or len(ths)+1 when the count is above every band. An empty
// set yields level 1.
func ActiveLevel(count int, ths []model.Threshold) int {
	sorted := sortedAscending(ths)
	for i := range sorted {
		if sorted[i].Upper.AtLeast(count) {
			return i + 1
		}
	}
	return len(sorted) + 1
}

// ResolveAlertBand walks the bands from the top down and returns the
// highest alert-enabled band whose lower bound the count has reached or
// exceeded. A band's lower bound is the effective upper bound of the
// next-lower band, or 0 for the lowest band (visitor counts are
// non-negative, so the lowest band's floor is always crossed). The result
// is independent of which band is active for color: a venue may alert on
// the second-highest band while the top band only changes color.
func ResolveAlertBand(count int, ths []model.Threshold) *model.Threshold {
	band, _ := resolveReachedBand(count, ths, func(t model.Threshold) bool { return t.Alert })
	return band
}

// ResolveWarningMessage returns the active warning text for the count, if
// any. The walk is the same as ResolveAlertBand but filtered on the
// alert-message flag. A configured message is returned verbatim; a band
// with the flag set but no text yields a generated fallback naming the
// crossed lower bound. The second return is false when no warning is
// active.
func ResolveWarningMessage(count int, ths []model.Threshold) (string, bool) {
	band, lowerBound := resolveReachedBand(count, ths, func(t model.Threshold) bool { return t.AlertMessageEnabled })
	if band == nil {
		return "", false
	}
	if band.AlertMessage != "" {
		return band.AlertMessage, true
	}
	return fmt.Sprintf("Warning: visitor count %d exceeds the threshold of %d.", count, lowerBound), true
}

// ResolveBandStatus assembles the full resolved output for one area and one
// band type: display level and color, blink state, warning message, and
// occupancy percentage. Pure and deterministic; safe to call once per area
// per render tick.
func ResolveBandStatus(area model.Area, ths []model.Threshold) model.BandStatus {
	status := model.BandStatus{
		Level:            ActiveLevel(area.VisitorCount, ths),
		ActiveColor:      model.NeutralColor,
		OccupancyPercent: area.OccupancyPercent(),
	}

	if active := ResolveActiveBand(area.VisitorCount, ths); active != nil {
		status.ActiveColor = active.Color
	}
	if area.Highlight != "" {
		// Manual override wins over the resolved band color.
		status.ActiveColor = area.Highlight
	}

	status.Blinking = ResolveAlertBand(area.VisitorCount, ths) != nil
	if msg, ok := ResolveWarningMessage(area.VisitorCount, ths); ok {
		status.WarningMessage = msg
	}

	return status
}

// FilterBand returns only the thresholds of the given band type, preserving
// input order. Snapshots deliver both band systems in one flat list; they
// are partitioned before any resolution.
func FilterBand(ths []model.Threshold, band model.BandType) []model.Threshold {
	out := make([]model.Threshold, 0, len(ths))
	for _, t := range ths {
		if t.Band == band {
			out = append(out, t)
		}
	}
	return out
}

// resolveReachedBand is the shared descending walk behind ResolveAlertBand
// and ResolveWarningMessage. It returns the first band, from the highest
// bound down, that matches the filter and whose lower bound is at or below
// the count, together with that lower bound.
func resolveReachedBand(count int, ths []model.Threshold, match func(model.Threshold) bool) (*model.Threshold, int) {
	sorted := sortedAscending(ths)

	for i := len(sorted) - 1; i >= 0; i-- {
		lowerBound := 0
		if i > 0 {
			if lower := sorted[i-1].Upper; !lower.IsUnbounded() {
				lowerBound = lower.Value()
			}
		}

		if count >= lowerBound && match(sorted[i]) {
			return &sorted[i], lowerBound
		}
	}

	return nil, 0
}

// sortedAscending returns a copy of ths sorted ascending by effective
// bound. The stable sort keeps the supplied order for duplicate bounds,
// which is what makes the tie-break deterministic.
func sortedAscending(ths []model.Threshold) []model.Threshold {
	sorted := make([]model.Threshold, len(ths))
	copy(sorted, ths)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Upper.Less(sorted[j].Upper)
	})
	return sorted
}
