package model

// LegendRow is a display-only mapping rendered in the dashboard legend: an
// object marker (icon name or color), two-locale descriptions, and the band
// type it belongs to. No resolver logic depends on legend rows.
type LegendRow struct {
	ID            int64
	Object        string
	DescriptionDE string
	DescriptionEN string
	Band          BandType
}
