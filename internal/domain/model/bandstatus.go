package model

// NeutralColor is the fallback display color when no band matches the
// current visitor count (empty set, or count above every finite bound with
// no unbounded band).
const NeutralColor = "lightgray"

// BandStatus is the resolved occupancy output for one area and one band
// type, computed per render tick and never persisted. Level is 1-based in
// ascending bound order; 0 means no band matched. An empty WarningMessage
// means no active warning -- callers do not distinguish "count is fine"
// from "no alert-capable bands exist".
type BandStatus struct {
	Level            int
	ActiveColor      string
	Blinking         bool
	WarningMessage   string
	OccupancyPercent int
}

// HasWarning reports whether an alert message is active.
func (s BandStatus) HasWarning() bool {
	return s.WarningMessage != ""
}
