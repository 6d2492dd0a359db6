package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/exhibitops/floorwatch/internal/domain/model"
	"github.com/exhibitops/floorwatch/internal/domain/port/driven"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAreaRepo_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAreaRepo(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.NewArea("Halle A"))
	require.NoError(t, err)
	assert.Greater(t, created.ID, int64(0))

	got, err := repo.GetByID(ctx, created.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Halle A", got.Name)
	assert.True(t, got.Active)
	assert.Len(t, got.Coordinates, 4)
	assert.Zero(t, got.VisitorCount)
	assert.True(t, got.LastUpdated.IsZero())
}

func TestAreaRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAreaRepo(db)

	got, err := repo.GetByID(context.Background(), 99, 0)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAreaRepo_ListAllOrdersByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAreaRepo(db)
	ctx := context.Background()

	for _, name := range []string{"Ostflügel", "Atrium", "Halle B"} {
		_, err := repo.Create(ctx, model.NewArea(name))
		require.NoError(t, err)
	}

	areas, err := repo.ListAll(ctx, 0)
	require.NoError(t, err)
	require.Len(t, areas, 3)
	assert.Equal(t, "Atrium", areas[0].Name)
	assert.Equal(t, "Halle B", areas[1].Name)
	assert.Equal(t, "Ostflügel", areas[2].Name)
}

func TestAreaRepo_ResolvesLatestCount(t *testing.T) {
	db := setupTestDB(t)
	areaRepo := NewAreaRepo(db)
	countRepo := NewCountRepo(db)
	ctx := context.Background()

	area, err := areaRepo.Create(ctx, model.NewArea("Halle A"))
	require.NoError(t, err)

	now := time.Now().UTC()
	err = countRepo.RecordSamples(ctx, []model.VisitorSample{
		{AreaID: area.ID, Count: 40, ObservedAt: now.Add(-2 * time.Hour)},
		{AreaID: area.ID, Count: 120, ObservedAt: now.Add(-5 * time.Minute)},
	})
	require.NoError(t, err)

	got, err := areaRepo.GetByID(ctx, area.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 120, got.VisitorCount)
	assert.False(t, got.LastUpdated.IsZero())
}

func TestAreaRepo_WindowExcludesStaleSamples(t *testing.T) {
	db := setupTestDB(t)
	areaRepo := NewAreaRepo(db)
	countRepo := NewCountRepo(db)
	ctx := context.Background()

	area, err := areaRepo.Create(ctx, model.NewArea("Halle A"))
	require.NoError(t, err)

	err = countRepo.RecordSamples(ctx, []model.VisitorSample{
		{AreaID: area.ID, Count: 300, ObservedAt: time.Now().UTC().Add(-48 * time.Hour)},
	})
	require.NoError(t, err)

	// The only sample is older than the window, so the count stays zero.
	got, err := areaRepo.GetByID(ctx, area.ID, 24*time.Hour)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Zero(t, got.VisitorCount)

	// With the window disabled the stale sample is visible again.
	got, err = areaRepo.GetByID(ctx, area.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 300, got.VisitorCount)
}

func TestAreaRepo_UpdateSettings(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAreaRepo(db)
	ctx := context.Background()

	area, err := repo.Create(ctx, model.NewArea("Halle A"))
	require.NoError(t, err)

	capacity := 500
	highlight := "purple"
	active := false
	err = repo.UpdateSettings(ctx, area.ID, model.AreaPatch{
		Capacity:    &capacity,
		Highlight:   &highlight,
		Active:      &active,
		Coordinates: []model.Point{{X: 1, Y: 2}, {X: 3, Y: 4}},
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, area.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 500, got.Capacity)
	assert.Equal(t, "purple", got.Highlight)
	assert.False(t, got.Active)
	assert.Equal(t, []model.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}, got.Coordinates)
	// Unpatched fields survive.
	assert.Equal(t, "Halle A", got.Name)
}

func TestAreaRepo_UpdateSettingsMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAreaRepo(db)

	name := "Ghost"
	err := repo.UpdateSettings(context.Background(), 99, model.AreaPatch{Name: &name})
	assert.ErrorIs(t, err, driven.ErrAreaNotFound)
}

func TestAreaRepo_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	areaRepo := NewAreaRepo(db)
	thresholdRepo := NewThresholdRepo(db)
	countRepo := NewCountRepo(db)
	ctx := context.Background()

	area, err := areaRepo.Create(ctx, model.NewArea("Halle A"))
	require.NoError(t, err)

	_, err = thresholdRepo.ReplaceSet(ctx, area.ID, model.BandManagement, []model.Threshold{
		{Upper: model.Bounded(100), Color: "green"},
	})
	require.NoError(t, err)
	err = countRepo.RecordSamples(ctx, []model.VisitorSample{
		{AreaID: area.ID, Count: 10, ObservedAt: time.Now().UTC()},
	})
	require.NoError(t, err)

	err = areaRepo.Delete(ctx, area.ID)
	require.NoError(t, err)

	got, err := areaRepo.GetByID(ctx, area.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, got)

	ths, err := thresholdRepo.GetAllByArea(ctx, area.ID)
	require.NoError(t, err)
	assert.Empty(t, ths)

	counts, err := countRepo.LatestCounts(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestAreaRepo_DeleteMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAreaRepo(db)

	err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, driven.ErrAreaNotFound)
}
