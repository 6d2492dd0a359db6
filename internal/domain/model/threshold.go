package model

// ThresholdID identifies a threshold row. A threshold added in the editor
// but not yet saved carries a pending id (client-assigned token); once the
// persistence layer confirms the save it is replaced by a durable row id.
// Whether a threshold is saved is a type-level fact, not a sign check.
type ThresholdID struct {
	value   int64
	pending bool
}

// PersistedID returns an id for a durably stored threshold row.
func PersistedID(id int64) ThresholdID {
	return ThresholdID{value: id}
}

// PendingID returns a provisional id for a not-yet-saved threshold.
func PendingID(token int64) ThresholdID {
	return ThresholdID{value: token, pending: true}
}

// IsPending reports whether the threshold has not been persisted yet.
func (id ThresholdID) IsPending() bool {
	return id.pending
}

// Value returns the row id for persisted thresholds, or the client token
// for pending ones.
func (id ThresholdID) Value() int64 {
	return id.value
}

// Threshold is one capacity band boundary within a band type for one area.
// A visitor count belongs to the band when it is at or below Upper (treating
// an unbounded Upper as +∞) and above the next-lower band's Upper.
type Threshold struct {
	ID     ThresholdID
	AreaID int64
	Band   BandType
	Upper  Bound
	Color  string

	// Alert marks the band as blink-triggering; AlertMessageEnabled
	// surfaces a warning message for it. Both are meaningful for the
	// security band type only.
	Alert               bool
	AlertMessageEnabled bool
	AlertMessage        string
}

// ThresholdPatch carries the editable fields of a threshold. Nil pointer
// fields mean "keep the current value". Patches are applied through
// ThresholdSet.Edit, which re-validates the bound against its neighbors.
type ThresholdPatch struct {
	Upper               *Bound
	Color               *string
	Alert               *bool
	AlertMessageEnabled *bool
	AlertMessage        *string
}

// apply returns a copy of t with the patch's non-nil fields set. The bound
// is not validated here; ThresholdSet.Edit owns that.
func (p ThresholdPatch) apply(t Threshold) Threshold {
	if p.Upper != nil {
		t.Upper = *p.Upper
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.Alert != nil {
		t.Alert = *p.Alert
	}
	if p.AlertMessageEnabled != nil {
		t.AlertMessageEnabled = *p.AlertMessageEnabled
	}
	if p.AlertMessage != nil {
		t.AlertMessage = *p.AlertMessage
	}
	return t
}
