package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/exhibitops/floorwatch/internal/domain/model"
	"github.com/exhibitops/floorwatch/internal/domain/port/driven"
)

// AreaStatus is the assembled per-area view consumed by the rendering and
// notification surfaces: the area with its current visitor count, its
// denormalized thresholds for both band types, and the resolved status per
// band type.
type AreaStatus struct {
	Area       model.Area
	Thresholds []model.Threshold
	Management model.BandStatus
	Security   model.BandStatus
}

// Warning is one active security warning for the warning list surface.
type Warning struct {
	AreaID   int64
	AreaName string
	NameEN   string
	Message  string
}

// StatusService assembles resolved area statuses from stored areas and
// thresholds. Resolution itself is pure; this service only loads inputs
// and partitions the flat threshold list by band type.
type StatusService struct {
	areaStore      driven.AreaStore
	thresholdStore driven.ThresholdStore
	logger         *slog.Logger
}

// NewStatusService creates a StatusService with the required stores.
func NewStatusService(as driven.AreaStore, ts driven.ThresholdStore) *StatusService {
	return &StatusService{
		areaStore:      as,
		thresholdStore: ts,
		logger:         slog.Default(),
	}
}

// AreaStatuses returns the resolved status of every area, ordered by name.
// Visitor counts reflect the latest sample inside the window. A failure to
// load one area's thresholds degrades that area to the neutral fallback
// rather than failing the whole snapshot.
func (s *StatusService) AreaStatuses(ctx context.Context, window time.Duration) ([]AreaStatus, error) {
	areas, err := s.areaStore.ListAll(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}

	statuses := make([]AreaStatus, 0, len(areas))
	for _, area := range areas {
		ths, err := s.thresholdStore.GetAllByArea(ctx, area.ID)
		if err != nil {
			s.logger.Warn("failed to load thresholds, rendering neutral", "area_id", area.ID, "error", err)
			ths = nil
		}
		statuses = append(statuses, resolveAreaStatus(area, ths))
	}

	return statuses, nil
}

// AreaStatusByID returns the resolved status of one area, or nil when the
// area does not exist.
func (s *StatusService) AreaStatusByID(ctx context.Context, areaID int64, window time.Duration) (*AreaStatus, error) {
	area, err := s.areaStore.GetByID(ctx, areaID, window)
	if err != nil {
		return nil, fmt.Errorf("get area %d: %w", areaID, err)
	}
	if area == nil {
		return nil, nil
	}

	ths, err := s.thresholdStore.GetAllByArea(ctx, areaID)
	if err != nil {
		s.logger.Warn("failed to load thresholds, rendering neutral", "area_id", areaID, "error", err)
		ths = nil
	}

	status := resolveAreaStatus(*area, ths)
	return &status, nil
}

// Warnings returns the active security warnings across all areas, sorted
// by area name. Inactive areas never warn.
func (s *StatusService) Warnings(ctx context.Context, window time.Duration) ([]Warning, error) {
	statuses, err := s.AreaStatuses(ctx, window)
	if err != nil {
		return nil, err
	}

	warnings := make([]Warning, 0)
	for _, st := range statuses {
		if !st.Area.Active || !st.Security.HasWarning() {
			continue
		}
		warnings = append(warnings, Warning{
			AreaID:   st.Area.ID,
			AreaName: st.Area.Name,
			NameEN:   st.Area.NameEN,
			Message:  st.Security.WarningMessage,
		})
	}

	sort.Slice(warnings, func(i, j int) bool { return warnings[i].AreaName < warnings[j].AreaName })
	return warnings, nil
}

// resolveAreaStatus partitions an area's flat threshold list into the two
// band systems and resolves each independently.
func resolveAreaStatus(area model.Area, ths []model.Threshold) AreaStatus {
	return AreaStatus{
		Area:       area,
		Thresholds: ths,
		Management: ResolveBandStatus(area, FilterBand(ths, model.BandManagement)),
		Security:   ResolveBandStatus(area, FilterBand(ths, model.BandSecurity)),
	}
}
