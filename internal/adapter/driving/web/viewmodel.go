package web

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	vm "github.com/exhibitops/floorwatch/internal/adapter/driving/web/viewmodel"
	"github.com/exhibitops/floorwatch/internal/application"
	"github.com/exhibitops/floorwatch/internal/domain/model"
)

// toDashboard assembles the page model. Inactive areas are not rendered at
// all; the security band drives tile color and blinking on the floor plan.
func toDashboard(statuses []application.AreaStatus, warnings []application.Warning, legend []model.LegendRow) vm.Dashboard {
	tiles := make([]vm.AreaTile, 0, len(statuses))
	for _, st := range statuses {
		if !st.Area.Active {
			continue
		}
		tiles = append(tiles, toAreaTile(st))
	}

	warningRows := make([]vm.WarningRow, 0, len(warnings))
	for _, warn := range warnings {
		warningRows = append(warningRows, vm.WarningRow{
			AreaName:    warn.AreaName,
			MessageHTML: RenderMarkdown(warn.Message),
		})
	}

	legendRows := make([]vm.LegendRow, 0, len(legend))
	for _, row := range legend {
		legendRows = append(legendRows, vm.LegendRow{
			Object:        row.Object,
			DescriptionDE: row.DescriptionDE,
			DescriptionEN: row.DescriptionEN,
			BandType:      string(row.Band),
		})
	}

	return vm.Dashboard{
		Areas:    tiles,
		Warnings: warningRows,
		Legend:   legendRows,
		Updated:  time.Now().Format("15:04:05"),
	}
}

// toAreaTile converts one resolved area status into its tile. Hide flags
// suppress the respective label rather than the whole tile.
func toAreaTile(st application.AreaStatus) vm.AreaTile {
	area := st.Area

	tile := vm.AreaTile{
		ID:       area.ID,
		Color:    st.Security.ActiveColor,
		Blinking: st.Security.Blinking,
		Points:   polygonPoints(area.Coordinates),
	}

	if !area.HideName {
		tile.Name = area.Name
	}
	if !area.HideAbsolute {
		tile.CountLabel = strconv.Itoa(area.VisitorCount)
	}
	if !area.HidePercentage {
		tile.PercentLabel = fmt.Sprintf("%d%%", st.Security.OccupancyPercent)
	}

	return tile
}

// polygonPoints renders coordinates as an SVG points attribute value.
func polygonPoints(points []model.Point) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts, fmt.Sprintf("%g,%g", p.X, p.Y))
	}
	return strings.Join(parts, " ")
}
