package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/exhibitops/floorwatch/internal/domain/model"
	"github.com/exhibitops/floorwatch/internal/domain/port/driven"
)

// sessionKey identifies one editing session: one area, one band type.
type sessionKey struct {
	areaID int64
	band   model.BandType
}

// EditorService maintains per-(area, band type) working copies of threshold
// sets and enforces the band invariants on every mutation. A working copy
// is opened lazily on the first mutation or read, stays authoritative until
// Save or Discard, and is never touched by snapshot refreshes -- incoming
// polls only write visitor counts, so an in-progress edit cannot be
// clobbered.
//
// All validation failures are local, synchronous rejections carrying a
// model sentinel error; the working copy is left unchanged and the session
// stays open so the user can correct the input.
type EditorService struct {
	thresholdStore driven.ThresholdStore

	mu       sync.Mutex
	sessions map[sessionKey]*model.ThresholdSet

	logger *slog.Logger
}

// NewEditorService creates an EditorService backed by the given store.
func NewEditorService(ts driven.ThresholdStore) *EditorService {
	return &EditorService{
		thresholdStore: ts,
		sessions:       make(map[sessionKey]*model.ThresholdSet),
		logger:         slog.Default(),
	}
}

// WorkingSet returns the thresholds of the current working copy for the
// area and band type, opening a session from stored state if none exists.
func (s *EditorService) WorkingSet(ctx context.Context, areaID int64, band model.BandType) ([]model.Threshold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.session(ctx, areaID, band)
	if err != nil {
		return nil, err
	}
	return set.Thresholds(), nil
}

// AddBand adds a new band to the working copy. The candidate is validated
// against the set invariants; on success it carries a provisional pending
// id until Save confirms persistence.
func (s *EditorService) AddBand(ctx context.Context, areaID int64, band model.BandType, candidate model.Threshold) ([]model.Threshold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.session(ctx, areaID, band)
	if err != nil {
		return nil, err
	}
	if err := set.Add(candidate); err != nil {
		return nil, err
	}
	return set.Thresholds(), nil
}

// EditBand applies a patch to one band of the working copy, re-validating
// a changed bound against its immediate neighbors.
func (s *EditorService) EditBand(ctx context.Context, areaID int64, band model.BandType, id model.ThresholdID, patch model.ThresholdPatch) ([]model.Threshold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.session(ctx, areaID, band)
	if err != nil {
		return nil, err
	}
	if err := set.Edit(id, patch); err != nil {
		return nil, err
	}
	return set.Thresholds(), nil
}

// DeleteBand removes one band from the working copy. Removal is
// unconditional; remaining bands keep their stored bounds and lower bounds
// are derived dynamically at resolve time.
func (s *EditorService) DeleteBand(ctx context.Context, areaID int64, band model.BandType, id model.ThresholdID) ([]model.Threshold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.session(ctx, areaID, band)
	if err != nil {
		return nil, err
	}
	set.Delete(id)
	return set.Thresholds(), nil
}

// Save persists the working copy as a whole-set replacement and closes the
// session. The returned thresholds carry durable persisted ids. On failure
// the session stays open with the unsaved edits intact so the user can
// retry.
func (s *EditorService) Save(ctx context.Context, areaID int64, band model.BandType) ([]model.Threshold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey{areaID: areaID, band: band}
	set, ok := s.sessions[key]
	if !ok {
		// Nothing edited; saving is a no-op against stored state.
		return s.thresholdStore.GetByArea(ctx, areaID, band)
	}

	saved, err := s.thresholdStore.ReplaceSet(ctx, areaID, band, set.Thresholds())
	if err != nil {
		return nil, fmt.Errorf("save %s thresholds of area %d: %w", band, areaID, err)
	}

	delete(s.sessions, key)
	s.logger.Info("threshold set saved", "area_id", areaID, "band", band, "bands", len(saved))
	return saved, nil
}

// Discard drops the working copy without persisting, reverting the session
// to stored state.
func (s *EditorService) Discard(areaID int64, band model.BandType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey{areaID: areaID, band: band})
}

// CopyResult reports the outcome of copying a threshold set to one target
// area.
type CopyResult struct {
	AreaID int64
	Err    error
}

// CopyThresholds replaces the given band type's threshold set on every
// target area with a deep copy of the source area's set. The copy is
// best-effort per target: one failing target does not roll back the
// others. Open editing sessions on affected targets are dropped so the
// next read reflects the copied state. Source thresholds are re-read from
// the store, not from any open editing session.
func (s *EditorService) CopyThresholds(ctx context.Context, sourceAreaID int64, targetAreaIDs []int64, band model.BandType) ([]CopyResult, error) {
	source, err := s.thresholdStore.GetByArea(ctx, sourceAreaID, band)
	if err != nil {
		return nil, fmt.Errorf("load %s thresholds of source area %d: %w", band, sourceAreaID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]CopyResult, 0, len(targetAreaIDs))
	for _, targetID := range targetAreaIDs {
		if targetID == sourceAreaID {
			results = append(results, CopyResult{AreaID: targetID})
			continue
		}

		// Fresh ids on the copies; the store assigns durable ones.
		copies := make([]model.Threshold, len(source))
		for i, t := range source {
			t.ID = model.ThresholdID{}
			t.AreaID = targetID
			copies[i] = t
		}

		if _, err := s.thresholdStore.ReplaceSet(ctx, targetID, band, copies); err != nil {
			s.logger.Error("threshold copy failed", "source", sourceAreaID, "target", targetID, "band", band, "error", err)
			results = append(results, CopyResult{AreaID: targetID, Err: err})
			continue
		}

		delete(s.sessions, sessionKey{areaID: targetID, band: band})
		results = append(results, CopyResult{AreaID: targetID})
	}

	return results, nil
}

// session returns the open working copy for the key, loading one from the
// store on first use. Callers must hold s.mu.
func (s *EditorService) session(ctx context.Context, areaID int64, band model.BandType) (*model.ThresholdSet, error) {
	key := sessionKey{areaID: areaID, band: band}
	if set, ok := s.sessions[key]; ok {
		return set, nil
	}

	stored, err := s.thresholdStore.GetByArea(ctx, areaID, band)
	if err != nil {
		return nil, fmt.Errorf("load %s thresholds of area %d: %w", band, areaID, err)
	}

	set := model.NewThresholdSet(areaID, band, stored)
	s.sessions[key] = set
	return set, nil
}
