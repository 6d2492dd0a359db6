// Package viewmodel holds the display-ready structures rendered by the web
// components. All formatting decisions (hidden fields, labels, polygon
// point strings) are made before rendering; components only print.
package viewmodel

// Dashboard is the full floor-plan page model.
type Dashboard struct {
	Areas    []AreaTile
	Warnings []WarningRow
	Legend   []LegendRow
	Updated  string
}

// AreaTile is one rendered area on the floor plan. Label fields are empty
// when the corresponding hide flag is set.
type AreaTile struct {
	ID           int64
	Name         string
	Color        string
	Blinking     bool
	CountLabel   string
	PercentLabel string

	// Points is the SVG polygon points attribute ("x,y x,y ...").
	Points string
}

// WarningRow is one active security warning. MessageHTML is sanitized HTML
// rendered from the operator-entered markdown message.
type WarningRow struct {
	AreaName    string
	MessageHTML string
}

// LegendRow is one display-only legend entry.
type LegendRow struct {
	Object        string
	DescriptionDE string
	DescriptionEN string
	BandType      string
}
