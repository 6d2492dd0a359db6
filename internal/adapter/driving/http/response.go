package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/exhibitops/floorwatch/internal/application"
	"github.com/exhibitops/floorwatch/internal/domain/model"
)

// unboundedWire is the sentinel value representing an unbounded upper
// threshold on the wire and in storage. Inside the process the model's
// Bound type is used instead.
const unboundedWire = -1

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeRejection writes a validation rejection with its machine-readable
// reason code so clients can branch without parsing the message.
func writeRejection(w http.ResponseWriter, reason, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: message, Reason: reason})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// PointResponse is one polygon vertex on the wire.
type PointResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ThresholdResponse is the JSON representation of one threshold band.
// UpperThreshold carries -1 for the unbounded band; ID is negative for
// bands added in the editor but not yet saved.
type ThresholdResponse struct {
	ID                  int64  `json:"id"`
	AreaID              int64  `json:"area_id"`
	BandType            string `json:"band_type"`
	UpperThreshold      int    `json:"upper_threshold"`
	Color               string `json:"color"`
	Alert               bool   `json:"alert"`
	AlertMessageEnabled bool   `json:"alert_message_enabled"`
	AlertMessage        string `json:"alert_message"`
}

// BandStatusResponse is the resolved occupancy output for one band type.
type BandStatusResponse struct {
	Level            int    `json:"level"`
	Color            string `json:"color"`
	Blinking         bool   `json:"blinking"`
	WarningMessage   string `json:"warning_message"`
	OccupancyPercent int    `json:"occupancy_percent"`
}

// AreaResponse is the JSON representation of an area with its resolved
// status for both band types.
type AreaResponse struct {
	ID             int64               `json:"id"`
	Name           string              `json:"name"`
	NameEN         string              `json:"name_en"`
	Capacity       int                 `json:"capacity"`
	VisitorCount   int                 `json:"visitor_count"`
	Active         bool                `json:"active"`
	Highlight      string              `json:"highlight"`
	HideName       bool                `json:"hide_name"`
	HideAbsolute   bool                `json:"hide_absolute"`
	HidePercentage bool                `json:"hide_percentage"`
	Coordinates    []PointResponse     `json:"coordinates"`
	LastUpdated    string              `json:"last_updated,omitempty"`
	Thresholds     []ThresholdResponse `json:"thresholds"`
	Management     BandStatusResponse  `json:"management"`
	Security       BandStatusResponse  `json:"security"`
}

// WarningResponse is one active security warning.
type WarningResponse struct {
	AreaID   int64  `json:"area_id"`
	AreaName string `json:"area_name"`
	NameEN   string `json:"name_en"`
	Message  string `json:"message"`
}

// LegendRowResponse is the JSON representation of one legend row.
type LegendRowResponse struct {
	ID            int64  `json:"id"`
	Object        string `json:"object"`
	DescriptionDE string `json:"description_de"`
	DescriptionEN string `json:"description_en"`
	BandType      string `json:"band_type"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// CreateAreaRequest is the JSON body for the create area endpoint.
type CreateAreaRequest struct {
	Name string `json:"name"`
}

// PatchAreaRequest is the JSON body for the area settings endpoint. Absent
// fields keep their current values; a present coordinates list replaces the
// polygon wholesale.
type PatchAreaRequest struct {
	Name           *string         `json:"name"`
	NameEN         *string         `json:"name_en"`
	Capacity       *int            `json:"capacity"`
	Active         *bool           `json:"active"`
	Highlight      *string         `json:"highlight"`
	HideName       *bool           `json:"hide_name"`
	HideAbsolute   *bool           `json:"hide_absolute"`
	HidePercentage *bool           `json:"hide_percentage"`
	Coordinates    []PointResponse `json:"coordinates"`
}

// AddThresholdRequest is the JSON body for the add band endpoint.
type AddThresholdRequest struct {
	UpperThreshold      int    `json:"upper_threshold"`
	Color               string `json:"color"`
	Alert               bool   `json:"alert"`
	AlertMessageEnabled bool   `json:"alert_message_enabled"`
	AlertMessage        string `json:"alert_message"`
}

// PatchThresholdRequest is the JSON body for the edit band endpoint.
// Absent fields keep their current values.
type PatchThresholdRequest struct {
	UpperThreshold      *int    `json:"upper_threshold"`
	Color               *string `json:"color"`
	Alert               *bool   `json:"alert"`
	AlertMessageEnabled *bool   `json:"alert_message_enabled"`
	AlertMessage        *string `json:"alert_message"`
}

// CopyThresholdsRequest is the JSON body for the copy endpoint.
type CopyThresholdsRequest struct {
	TargetAreaIDs []int64 `json:"target_area_ids"`
}

// CopyResultResponse reports the per-target outcome of a copy.
type CopyResultResponse struct {
	AreaID int64  `json:"area_id"`
	Error  string `json:"error,omitempty"`
}

// LegendRowRequest is one row of the legend replacement body.
type LegendRowRequest struct {
	Object        string `json:"object"`
	DescriptionDE string `json:"description_de"`
	DescriptionEN string `json:"description_en"`
	BandType      string `json:"band_type"`
}

// toThresholdResponse converts a domain Threshold to its wire form,
// flattening the Bound and id types into the sentinel encodings.
func toThresholdResponse(th model.Threshold) ThresholdResponse {
	upper := unboundedWire
	if !th.Upper.IsUnbounded() {
		upper = th.Upper.Value()
	}

	id := th.ID.Value()
	if th.ID.IsPending() && id > 0 {
		id = -id
	}

	return ThresholdResponse{
		ID:                  id,
		AreaID:              th.AreaID,
		BandType:            string(th.Band),
		UpperThreshold:      upper,
		Color:               th.Color,
		Alert:               th.Alert,
		AlertMessageEnabled: th.AlertMessageEnabled,
		AlertMessage:        th.AlertMessage,
	}
}

func toThresholdResponses(ths []model.Threshold) []ThresholdResponse {
	resp := make([]ThresholdResponse, 0, len(ths))
	for _, th := range ths {
		resp = append(resp, toThresholdResponse(th))
	}
	return resp
}

// toBandStatusResponse converts a resolved BandStatus to its wire form.
func toBandStatusResponse(s model.BandStatus) BandStatusResponse {
	return BandStatusResponse{
		Level:            s.Level,
		Color:            s.ActiveColor,
		Blinking:         s.Blinking,
		WarningMessage:   s.WarningMessage,
		OccupancyPercent: s.OccupancyPercent,
	}
}

// toAreaResponse converts an assembled AreaStatus to its wire form.
func toAreaResponse(st application.AreaStatus) AreaResponse {
	area := st.Area

	coords := make([]PointResponse, 0, len(area.Coordinates))
	for _, p := range area.Coordinates {
		coords = append(coords, PointResponse{X: p.X, Y: p.Y})
	}

	lastUpdated := ""
	if !area.LastUpdated.IsZero() {
		lastUpdated = area.LastUpdated.UTC().Format(time.RFC3339)
	}

	return AreaResponse{
		ID:             area.ID,
		Name:           area.Name,
		NameEN:         area.NameEN,
		Capacity:       area.Capacity,
		VisitorCount:   area.VisitorCount,
		Active:         area.Active,
		Highlight:      area.Highlight,
		HideName:       area.HideName,
		HideAbsolute:   area.HideAbsolute,
		HidePercentage: area.HidePercentage,
		Coordinates:    coords,
		LastUpdated:    lastUpdated,
		Thresholds:     toThresholdResponses(st.Thresholds),
		Management:     toBandStatusResponse(st.Management),
		Security:       toBandStatusResponse(st.Security),
	}
}

// toWarningResponse converts an application Warning to its wire form.
func toWarningResponse(warn application.Warning) WarningResponse {
	return WarningResponse{
		AreaID:   warn.AreaID,
		AreaName: warn.AreaName,
		NameEN:   warn.NameEN,
		Message:  warn.Message,
	}
}

// toLegendRowResponse converts a domain LegendRow to its wire form.
func toLegendRowResponse(row model.LegendRow) LegendRowResponse {
	return LegendRowResponse{
		ID:            row.ID,
		Object:        row.Object,
		DescriptionDE: row.DescriptionDE,
		DescriptionEN: row.DescriptionEN,
		BandType:      string(row.Band),
	}
}

// parseBound converts a wire upper threshold to a Bound. Only the exact
// sentinel value means unbounded; any other negative value is kept as a
// finite bound and rejected by set validation.
func parseBound(wire int) model.Bound {
	if wire == unboundedWire {
		return model.Unbounded()
	}
	return model.Bounded(wire)
}

// parseThresholdID converts a wire id to a ThresholdID. Negative wire ids
// identify pending (unsaved) bands.
func parseThresholdID(wire int64) model.ThresholdID {
	if wire < 0 {
		return model.PendingID(-wire)
	}
	return model.PersistedID(wire)
}
