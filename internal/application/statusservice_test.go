package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exhibitops/floorwatch/internal/application"
	"github.com/exhibitops/floorwatch/internal/domain/model"
)

func TestStatusService_AreaStatuses(t *testing.T) {
	areas := &mockAreaStore{areas: []model.Area{
		{ID: 1, Name: "Halle A", Capacity: 200, VisitorCount: 120, Active: true},
		{ID: 2, Name: "Eingang West", Capacity: 100, VisitorCount: 10, Active: true},
	}}
	store := newMockThresholdStore()
	seedSecuritySet(t, store, 1)

	svc := application.NewStatusService(areas, store)
	statuses, err := svc.AreaStatuses(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	// Ordered by name.
	assert.Equal(t, "Eingang West", statuses[0].Area.Name)
	assert.Equal(t, "Halle A", statuses[1].Area.Name)

	hall := statuses[1]
	assert.Equal(t, "yellow", hall.Security.ActiveColor)
	assert.True(t, hall.Security.Blinking)
	assert.Equal(t, 60, hall.Security.OccupancyPercent)

	// No management bands configured: neutral, independent of security.
	assert.Equal(t, model.NeutralColor, hall.Management.ActiveColor)
	assert.False(t, hall.Management.Blinking)

	entrance := statuses[0]
	assert.Equal(t, model.NeutralColor, entrance.Security.ActiveColor)
}

func TestStatusService_AreaStatusByID(t *testing.T) {
	areas := &mockAreaStore{areas: []model.Area{{ID: 1, Name: "Halle A", Capacity: 200, VisitorCount: 40, Active: true}}}
	store := newMockThresholdStore()
	seedSecuritySet(t, store, 1)
	svc := application.NewStatusService(areas, store)

	status, err := svc.AreaStatusByID(context.Background(), 1, 0)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, "green", status.Security.ActiveColor)

	missing, err := svc.AreaStatusByID(context.Background(), 99, 0)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStatusService_Warnings(t *testing.T) {
	areas := &mockAreaStore{areas: []model.Area{
		{ID: 1, Name: "Halle B", Capacity: 200, VisitorCount: 300, Active: true},
		{ID: 2, Name: "Halle A", Capacity: 200, VisitorCount: 300, Active: true},
		{ID: 3, Name: "Halle C", Capacity: 200, VisitorCount: 10, Active: true},
		{ID: 4, Name: "Lager", Capacity: 200, VisitorCount: 300, Active: false},
	}}
	store := newMockThresholdStore()
	for _, id := range []int64{1, 2, 3} {
		_, err := store.ReplaceSet(context.Background(), id, model.BandSecurity, []model.Threshold{
			{Upper: model.Bounded(150), Color: "yellow"},
			{Upper: model.Unbounded(), Color: "red", Alert: true, AlertMessageEnabled: true, AlertMessage: "Bereich räumen."},
		})
		require.NoError(t, err)
	}
	// The inactive area has an alert-worthy count but must never warn.
	_, err := store.ReplaceSet(context.Background(), 4, model.BandSecurity, []model.Threshold{
		{Upper: model.Unbounded(), Color: "red", Alert: true, AlertMessageEnabled: true},
	})
	require.NoError(t, err)

	svc := application.NewStatusService(areas, store)
	warnings, err := svc.Warnings(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, warnings, 2)

	// Sorted by area name; the quiet and inactive areas are absent.
	assert.Equal(t, "Halle A", warnings[0].AreaName)
	assert.Equal(t, "Halle B", warnings[1].AreaName)
	assert.Equal(t, "Bereich räumen.", warnings[0].Message)
}
