package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exhibitops/floorwatch/internal/application"
	"github.com/exhibitops/floorwatch/internal/domain/model"
)

func TestToDashboard_SkipsInactiveAreas(t *testing.T) {
	active := model.NewArea("Halle A")
	active.ID = 1
	inactive := model.NewArea("Lager")
	inactive.ID = 2
	inactive.Active = false

	view := toDashboard([]application.AreaStatus{
		{Area: active},
		{Area: inactive},
	}, nil, nil)

	require.Len(t, view.Areas, 1)
	assert.Equal(t, int64(1), view.Areas[0].ID)
}

func TestToAreaTile_HideFlags(t *testing.T) {
	area := model.NewArea("Halle A")
	area.VisitorCount = 120
	area.HideName = true
	area.HidePercentage = true

	tile := toAreaTile(application.AreaStatus{
		Area:     area,
		Security: model.BandStatus{ActiveColor: "yellow", OccupancyPercent: 60},
	})

	assert.Empty(t, tile.Name)
	assert.Equal(t, "120", tile.CountLabel)
	assert.Empty(t, tile.PercentLabel)
	assert.Equal(t, "yellow", tile.Color)
}

func TestToAreaTile_Labels(t *testing.T) {
	area := model.NewArea("Halle A")
	area.VisitorCount = 667
	area.Coordinates = []model.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 50.5}}

	tile := toAreaTile(application.AreaStatus{
		Area:     area,
		Security: model.BandStatus{ActiveColor: "red", Blinking: true, OccupancyPercent: 67},
	})

	assert.Equal(t, "Halle A", tile.Name)
	assert.Equal(t, "667", tile.CountLabel)
	assert.Equal(t, "67%", tile.PercentLabel)
	assert.True(t, tile.Blinking)
	assert.Equal(t, "0,0 100,0 100,50.5", tile.Points)
}

func TestToDashboard_WarningMessagesRendered(t *testing.T) {
	view := toDashboard(nil, []application.Warning{
		{AreaName: "Halle A", Message: "Zone **überfüllt**"},
	}, nil)

	require.Len(t, view.Warnings, 1)
	assert.Equal(t, "Halle A", view.Warnings[0].AreaName)
	assert.Contains(t, view.Warnings[0].MessageHTML, "<strong>überfüllt</strong>")
}
