package application_test

import (
	"context"
	"sort"
	"time"

	"github.com/exhibitops/floorwatch/internal/domain/model"
	"github.com/exhibitops/floorwatch/internal/domain/port/driven"
)

// --- Mock implementations ---

type setKey struct {
	areaID int64
	band   model.BandType
}

// mockThresholdStore is an in-memory ThresholdStore that assigns durable
// ids on ReplaceSet and can inject failures per area.
type mockThresholdStore struct {
	sets         map[setKey][]model.Threshold
	nextID       int64
	replaceCalls int
	failFor      map[int64]error
}

func newMockThresholdStore() *mockThresholdStore {
	return &mockThresholdStore{
		sets:    make(map[setKey][]model.Threshold),
		failFor: make(map[int64]error),
	}
}

func (m *mockThresholdStore) GetByArea(_ context.Context, areaID int64, band model.BandType) ([]model.Threshold, error) {
	out := append([]model.Threshold(nil), m.sets[setKey{areaID, band}]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Upper.Less(out[j].Upper) })
	return out, nil
}

func (m *mockThresholdStore) GetAllByArea(ctx context.Context, areaID int64) ([]model.Threshold, error) {
	mgmt, _ := m.GetByArea(ctx, areaID, model.BandManagement)
	sec, _ := m.GetByArea(ctx, areaID, model.BandSecurity)
	return append(mgmt, sec...), nil
}

func (m *mockThresholdStore) ReplaceSet(_ context.Context, areaID int64, band model.BandType, ths []model.Threshold) ([]model.Threshold, error) {
	m.replaceCalls++
	if err := m.failFor[areaID]; err != nil {
		return nil, err
	}

	saved := make([]model.Threshold, len(ths))
	for i, t := range ths {
		m.nextID++
		t.ID = model.PersistedID(m.nextID)
		t.AreaID = areaID
		t.Band = band
		saved[i] = t
	}
	m.sets[setKey{areaID, band}] = saved
	return append([]model.Threshold(nil), saved...), nil
}

var _ driven.ThresholdStore = (*mockThresholdStore)(nil)

// mockAreaStore serves a fixed list of areas.
type mockAreaStore struct {
	areas []model.Area
}

func (m *mockAreaStore) Create(_ context.Context, area model.Area) (model.Area, error) {
	area.ID = int64(len(m.areas) + 1)
	m.areas = append(m.areas, area)
	return area, nil
}

func (m *mockAreaStore) Delete(_ context.Context, _ int64) error { return nil }

func (m *mockAreaStore) GetByID(_ context.Context, id int64, _ time.Duration) (*model.Area, error) {
	for _, a := range m.areas {
		if a.ID == id {
			area := a
			return &area, nil
		}
	}
	return nil, nil
}

func (m *mockAreaStore) ListAll(_ context.Context, _ time.Duration) ([]model.Area, error) {
	out := append([]model.Area(nil), m.areas...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockAreaStore) UpdateSettings(_ context.Context, id int64, patch model.AreaPatch) error {
	for i, a := range m.areas {
		if a.ID == id {
			m.areas[i] = patch.Apply(a)
			return nil
		}
	}
	return driven.ErrAreaNotFound
}

var _ driven.AreaStore = (*mockAreaStore)(nil)

// mockCountStore records samples and reports what was stored.
type mockCountStore struct {
	recorded [][]model.VisitorSample
	err      error
}

func (m *mockCountStore) RecordSamples(_ context.Context, samples []model.VisitorSample) error {
	if m.err != nil {
		return m.err
	}
	m.recorded = append(m.recorded, samples)
	return nil
}

func (m *mockCountStore) LatestCounts(_ context.Context, _ time.Duration) (map[int64]int, error) {
	counts := make(map[int64]int)
	for _, batch := range m.recorded {
		for _, s := range batch {
			counts[s.AreaID] = s.Count
		}
	}
	return counts, nil
}

var _ driven.CountStore = (*mockCountStore)(nil)

// mockCountSource returns a canned response or error per call.
type mockCountSource struct {
	samples []model.VisitorSample
	err     error
	calls   int
}

func (m *mockCountSource) FetchCounts(_ context.Context, _ time.Duration) ([]model.VisitorSample, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.samples, nil
}

var _ driven.CountSource = (*mockCountSource)(nil)
