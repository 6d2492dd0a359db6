package model

import (
	"math"
	"time"
)

// Point is one vertex of an area's floor-plan polygon.
type Point struct {
	X float64
	Y float64
}

// Area is a named physical zone of the venue. The visitor count is supplied
// externally and refreshed on a polling cycle; the threshold sets for both
// band types are owned by the area but live in their own table.
type Area struct {
	ID           int64
	Name         string
	NameEN       string
	Capacity     int
	VisitorCount int
	Active       bool

	// Highlight is a manual override color. When set it wins over the
	// resolved band color on every rendering surface.
	Highlight string

	// Per-field display visibility flags.
	HideName       bool
	HideAbsolute   bool
	HidePercentage bool

	Coordinates []Point
	LastUpdated time.Time
}

// NewArea returns a fresh area with the default four zero-coordinate points
// and no thresholds. Created areas start active with all fields visible.
func NewArea(name string) Area {
	return Area{
		Name:        name,
		Active:      true,
		Coordinates: []Point{{}, {}, {}, {}},
	}
}

// OccupancyPercent returns the visitor count as a rounded percentage of
// capacity. It does not clamp to 100; whether to cap the displayed value is
// the rendering surface's choice. Zero capacity yields zero.
func (a Area) OccupancyPercent() int {
	if a.Capacity <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(a.VisitorCount) / float64(a.Capacity)))
}

// AreaPatch carries the editable settings of an area. Nil pointer fields
// mean "keep the current value". Patches are applied through Apply so every
// settings edit goes through one validated update path.
type AreaPatch struct {
	Name           *string
	NameEN         *string
	Capacity       *int
	Active         *bool
	Highlight      *string
	HideName       *bool
	HideAbsolute   *bool
	HidePercentage *bool
	Coordinates    []Point
}

// Apply returns a copy of the area with the patch's non-nil fields set.
// A non-nil Coordinates slice replaces the polygon wholesale.
func (p AreaPatch) Apply(a Area) Area {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.NameEN != nil {
		a.NameEN = *p.NameEN
	}
	if p.Capacity != nil {
		a.Capacity = *p.Capacity
	}
	if p.Active != nil {
		a.Active = *p.Active
	}
	if p.Highlight != nil {
		a.Highlight = *p.Highlight
	}
	if p.HideName != nil {
		a.HideName = *p.HideName
	}
	if p.HideAbsolute != nil {
		a.HideAbsolute = *p.HideAbsolute
	}
	if p.HidePercentage != nil {
		a.HidePercentage = *p.HidePercentage
	}
	if p.Coordinates != nil {
		a.Coordinates = append([]Point(nil), p.Coordinates...)
	}
	return a
}

// VisitorSample is one observed visitor count for an area, as delivered by
// the upstream counting service.
type VisitorSample struct {
	AreaID     int64
	Count      int
	ObservedAt time.Time
}
