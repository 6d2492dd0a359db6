package model

import (
	"fmt"
	"sort"
)

// MaxBandsPerSet caps how many bands one (area, band type) set may hold.
// Enforced at insert time only; the resolver never depends on it.
const MaxBandsPerSet = 4

// ThresholdSet is the ordered collection of bands for one area and one band
// type. It enforces the band invariants on every mutation: bounds are
// totally ordered (unbounded highest), at most one unbounded band, at most
// MaxBandsPerSet bands. A rejected mutation leaves the set unchanged.
//
// The set is a working copy for a single interactive editing session; it is
// not safe for concurrent use.
type ThresholdSet struct {
	areaID     int64
	band       BandType
	thresholds []Threshold
	nextToken  int64
}

// NewThresholdSet builds a set for one area and band type from already
// stored thresholds. Input order does not matter; the set keeps its bands
// sorted ascending by effective bound. Thresholds of other band types are
// ignored so a denormalized snapshot slice can be passed directly.
func NewThresholdSet(areaID int64, band BandType, existing []Threshold) *ThresholdSet {
	s := &ThresholdSet{areaID: areaID, band: band, nextToken: 1}
	for _, t := range existing {
		if t.Band != band {
			continue
		}
		s.thresholds = append(s.thresholds, t)
	}
	s.sort()
	return s
}

// AreaID returns the owning area's id.
func (s *ThresholdSet) AreaID() int64 {
	return s.areaID
}

// Band returns the band type this set holds.
func (s *ThresholdSet) Band() BandType {
	return s.band
}

// Len returns the number of bands in the set.
func (s *ThresholdSet) Len() int {
	return len(s.thresholds)
}

// Thresholds returns a copy of the bands, sorted ascending by effective
// bound. Mutating the returned slice does not affect the set.
func (s *ThresholdSet) Thresholds() []Threshold {
	out := make([]Threshold, len(s.thresholds))
	copy(out, s.thresholds)
	return out
}

// Add appends a new band to the top of the set. Bands are added in
// increasing order only; inserting in the middle is not supported (edit an
// existing band's bound instead). The candidate's area and band type are
// forced to the set's own. A candidate without an id is assigned a
// provisional pending id.
//
// Rejections: ErrBandLimitExceeded when the set is full (checked first,
// regardless of the candidate bound), ErrUnboundedAlreadySet for a second
// unbounded band, ErrInvalidBound for a finite bound not strictly above
// the current maximum finite bound (or below 1).
func (s *ThresholdSet) Add(candidate Threshold) error {
	if len(s.thresholds) >= MaxBandsPerSet {
		return fmt.Errorf("add band to %s set of area %d: %w", s.band, s.areaID, ErrBandLimitExceeded)
	}

	if candidate.Upper.IsUnbounded() {
		if s.hasUnbounded() {
			return fmt.Errorf("add band to %s set of area %d: %w", s.band, s.areaID, ErrUnboundedAlreadySet)
		}
	} else {
		if candidate.Upper.Value() < 1 {
			return fmt.Errorf("add band to %s set of area %d: bound %s must be at least 1: %w",
				s.band, s.areaID, candidate.Upper, ErrInvalidBound)
		}
		if max, ok := s.maxFiniteBound(); ok && candidate.Upper.Value() <= max {
			return fmt.Errorf("add band to %s set of area %d: bound %s must exceed %d: %w",
				s.band, s.areaID, candidate.Upper, max, ErrInvalidBound)
		}
	}

	candidate.AreaID = s.areaID
	candidate.Band = s.band
	if candidate.ID == (ThresholdID{}) {
		candidate.ID = PendingID(s.nextToken)
		s.nextToken++
	}

	s.thresholds = append(s.thresholds, candidate)
	s.sort()
	return nil
}

// Edit applies a patch to the band with the given id. A patched bound must
// fall strictly between its immediate neighbors' bounds in the current sort
// order: above the previous band's bound (0 for the lowest band) and below
// the next band's bound (+∞ for the highest). Returns ErrThresholdNotFound
// or ErrInvalidBound; on rejection the set is unchanged.
func (s *ThresholdSet) Edit(id ThresholdID, patch ThresholdPatch) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("edit band in %s set of area %d: %w", s.band, s.areaID, ErrThresholdNotFound)
	}

	if patch.Upper != nil {
		lower := Bounded(0)
		if idx > 0 {
			lower = s.thresholds[idx-1].Upper
		}
		upper := Unbounded()
		if idx < len(s.thresholds)-1 {
			upper = s.thresholds[idx+1].Upper
		}

		if !lower.Less(*patch.Upper) || !patch.Upper.Less(upper) {
			return fmt.Errorf("edit band in %s set of area %d: bound %s must lie between %s and %s: %w",
				s.band, s.areaID, *patch.Upper, lower, upper, ErrInvalidBound)
		}
	}

	s.thresholds[idx] = patch.apply(s.thresholds[idx])
	s.sort()
	return nil
}

// Delete removes the band with the given id. Removal is unconditional and
// never re-validates the remaining neighbors; gaps are fine because a
// band's effective lower bound is always derived from whatever remains.
// Deleting an id that is not in the set is a no-op.
func (s *ThresholdSet) Delete(id ThresholdID) {
	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	s.thresholds = append(s.thresholds[:idx], s.thresholds[idx+1:]...)
}

func (s *ThresholdSet) indexOf(id ThresholdID) int {
	for i, t := range s.thresholds {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *ThresholdSet) hasUnbounded() bool {
	for _, t := range s.thresholds {
		if t.Upper.IsUnbounded() {
			return true
		}
	}
	return false
}

// maxFiniteBound returns the largest finite bound in the set, if any.
func (s *ThresholdSet) maxFiniteBound() (int, bool) {
	max, found := 0, false
	for _, t := range s.thresholds {
		if t.Upper.IsUnbounded() {
			continue
		}
		if !found || t.Upper.Value() > max {
			max = t.Upper.Value()
			found = true
		}
	}
	return max, found
}

// sort orders bands ascending by effective bound. The sort is stable so
// duplicate bounds (a data-entry anomaly the editor prevents but tolerates
// on load) keep their input order for the resolver's tie-break.
func (s *ThresholdSet) sort() {
	sort.SliceStable(s.thresholds, func(i, j int) bool {
		return s.thresholds[i].Upper.Less(s.thresholds[j].Upper)
	})
}
