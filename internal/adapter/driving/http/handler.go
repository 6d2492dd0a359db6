// Package httphandler is the HTTP driving adapter serving the REST API.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/exhibitops/floorwatch/internal/application"
	"github.com/exhibitops/floorwatch/internal/domain/model"
	"github.com/exhibitops/floorwatch/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	statusSvc   *application.StatusService
	editorSvc   *application.EditorService
	areaStore   driven.AreaStore
	legendStore driven.LegendStore
	pollSvc     *application.PollService
	window      time.Duration
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. pollSvc may
// be nil when no upstream count source is configured; the refresh endpoint
// then reports the absence instead of polling. window is the default count
// filter window; requests may override it with ?window_minutes=.
func NewHandler(
	statusSvc *application.StatusService,
	editorSvc *application.EditorService,
	areaStore driven.AreaStore,
	legendStore driven.LegendStore,
	pollSvc *application.PollService,
	window time.Duration,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		statusSvc:   statusSvc,
		editorSvc:   editorSvc,
		areaStore:   areaStore,
		legendStore: legendStore,
		pollSvc:     pollSvc,
		window:      window,
		logger:      logger,
	}
}

// NewServeMux creates an http.Handler with all API routes registered and
// wrapped with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// RegisterAPIRoutes registers all REST API routes on the provided mux so
// the API and the web GUI can share one server.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/areas", h.ListAreas)
	mux.HandleFunc("POST /api/v1/areas", h.CreateArea)
	mux.HandleFunc("GET /api/v1/areas/{id}", h.GetArea)
	mux.HandleFunc("PATCH /api/v1/areas/{id}", h.PatchArea)
	mux.HandleFunc("DELETE /api/v1/areas/{id}", h.DeleteArea)

	mux.HandleFunc("GET /api/v1/areas/{id}/thresholds/{band}", h.WorkingSet)
	mux.HandleFunc("POST /api/v1/areas/{id}/thresholds/{band}", h.AddThreshold)
	mux.HandleFunc("PATCH /api/v1/areas/{id}/thresholds/{band}/{thresholdID}", h.EditThreshold)
	mux.HandleFunc("DELETE /api/v1/areas/{id}/thresholds/{band}/{thresholdID}", h.DeleteThreshold)
	mux.HandleFunc("POST /api/v1/areas/{id}/thresholds/{band}/save", h.SaveThresholds)
	mux.HandleFunc("POST /api/v1/areas/{id}/thresholds/{band}/discard", h.DiscardThresholds)
	mux.HandleFunc("POST /api/v1/areas/{id}/thresholds/{band}/copy", h.CopyThresholds)

	mux.HandleFunc("GET /api/v1/legend", h.GetLegend)
	mux.HandleFunc("PUT /api/v1/legend", h.ReplaceLegend)
	mux.HandleFunc("GET /api/v1/warnings", h.ListWarnings)
	mux.HandleFunc("POST /api/v1/refresh", h.Refresh)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// ApplyMiddleware wraps the mux with logging and recovery middleware.
func ApplyMiddleware(mux http.Handler, logger *slog.Logger) http.Handler {
	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	return wrapped
}

// ListAreas returns every area with its resolved status for both band types.
func (h *Handler) ListAreas(w http.ResponseWriter, r *http.Request) {
	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	statuses, err := h.statusSvc.AreaStatuses(r.Context(), window)
	if err != nil {
		h.logger.Error("failed to list areas", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]AreaResponse, 0, len(statuses))
	for _, st := range statuses {
		resp = append(resp, toAreaResponse(st))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetArea returns a single area with its resolved status.
func (h *Handler) GetArea(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseAreaID(w, r)
	if !ok {
		return
	}
	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	status, err := h.statusSvc.AreaStatusByID(r.Context(), id, window)
	if err != nil {
		h.logger.Error("failed to get area", "area_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if status == nil {
		writeError(w, http.StatusNotFound, "area not found")
		return
	}

	writeJSON(w, http.StatusOK, toAreaResponse(*status))
}

// CreateArea creates a new area with default settings and empty threshold sets.
func (h *Handler) CreateArea(w http.ResponseWriter, r *http.Request) {
	var req CreateAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "area name must not be empty")
		return
	}

	area, err := h.areaStore.Create(r.Context(), model.NewArea(req.Name))
	if err != nil {
		h.logger.Error("failed to create area", "name", req.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("area created", "area_id", area.ID, "name", area.Name)

	status, err := h.statusSvc.AreaStatusByID(r.Context(), area.ID, h.window)
	if err != nil || status == nil {
		h.logger.Error("failed to load created area", "area_id", area.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toAreaResponse(*status))
}

// PatchArea applies a settings patch to an area.
func (h *Handler) PatchArea(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseAreaID(w, r)
	if !ok {
		return
	}

	var req PatchAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := model.AreaPatch{
		Name:           req.Name,
		NameEN:         req.NameEN,
		Capacity:       req.Capacity,
		Active:         req.Active,
		Highlight:      req.Highlight,
		HideName:       req.HideName,
		HideAbsolute:   req.HideAbsolute,
		HidePercentage: req.HidePercentage,
	}
	if req.Coordinates != nil {
		points := make([]model.Point, 0, len(req.Coordinates))
		for _, p := range req.Coordinates {
			points = append(points, model.Point{X: p.X, Y: p.Y})
		}
		patch.Coordinates = points
	}

	if err := h.areaStore.UpdateSettings(r.Context(), id, patch); err != nil {
		if errors.Is(err, driven.ErrAreaNotFound) {
			writeError(w, http.StatusNotFound, "area not found")
			return
		}
		h.logger.Error("failed to patch area", "area_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	status, err := h.statusSvc.AreaStatusByID(r.Context(), id, h.window)
	if err != nil || status == nil {
		h.logger.Error("failed to reload patched area", "area_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toAreaResponse(*status))
}

// DeleteArea removes an area; its thresholds and count samples cascade.
func (h *Handler) DeleteArea(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseAreaID(w, r)
	if !ok {
		return
	}

	if err := h.areaStore.Delete(r.Context(), id); err != nil {
		if errors.Is(err, driven.ErrAreaNotFound) {
			writeError(w, http.StatusNotFound, "area not found")
			return
		}
		h.logger.Error("failed to delete area", "area_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("area deleted", "area_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// WorkingSet returns the editor's current working copy for one band type.
func (h *Handler) WorkingSet(w http.ResponseWriter, r *http.Request) {
	id, band, ok := h.parseAreaBand(w, r)
	if !ok {
		return
	}

	ths, err := h.editorSvc.WorkingSet(r.Context(), id, band)
	if err != nil {
		h.logger.Error("failed to load working set", "area_id", id, "band", band, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toThresholdResponses(ths))
}

// AddThreshold appends a new band to the working copy.
func (h *Handler) AddThreshold(w http.ResponseWriter, r *http.Request) {
	id, band, ok := h.parseAreaBand(w, r)
	if !ok {
		return
	}

	var req AddThresholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	candidate := model.Threshold{
		Upper:               parseBound(req.UpperThreshold),
		Color:               req.Color,
		Alert:               req.Alert,
		AlertMessageEnabled: req.AlertMessageEnabled,
		AlertMessage:        req.AlertMessage,
	}

	ths, err := h.editorSvc.AddBand(r.Context(), id, band, candidate)
	if err != nil {
		h.writeThresholdError(w, id, band, err)
		return
	}

	writeJSON(w, http.StatusOK, toThresholdResponses(ths))
}

// EditThreshold patches one band of the working copy.
func (h *Handler) EditThreshold(w http.ResponseWriter, r *http.Request) {
	id, band, ok := h.parseAreaBand(w, r)
	if !ok {
		return
	}
	thresholdID, ok := h.parseThresholdID(w, r)
	if !ok {
		return
	}

	var req PatchThresholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := model.ThresholdPatch{
		Color:               req.Color,
		Alert:               req.Alert,
		AlertMessageEnabled: req.AlertMessageEnabled,
		AlertMessage:        req.AlertMessage,
	}
	if req.UpperThreshold != nil {
		bound := parseBound(*req.UpperThreshold)
		patch.Upper = &bound
	}

	ths, err := h.editorSvc.EditBand(r.Context(), id, band, thresholdID, patch)
	if err != nil {
		h.writeThresholdError(w, id, band, err)
		return
	}

	writeJSON(w, http.StatusOK, toThresholdResponses(ths))
}

// DeleteThreshold removes one band from the working copy. Deleting an
// unknown band is a no-op, not an error.
func (h *Handler) DeleteThreshold(w http.ResponseWriter, r *http.Request) {
	id, band, ok := h.parseAreaBand(w, r)
	if !ok {
		return
	}
	thresholdID, ok := h.parseThresholdID(w, r)
	if !ok {
		return
	}

	ths, err := h.editorSvc.DeleteBand(r.Context(), id, band, thresholdID)
	if err != nil {
		h.writeThresholdError(w, id, band, err)
		return
	}

	writeJSON(w, http.StatusOK, toThresholdResponses(ths))
}

// SaveThresholds persists the working copy as a whole-set replacement and
// returns the saved bands with their durable ids.
func (h *Handler) SaveThresholds(w http.ResponseWriter, r *http.Request) {
	id, band, ok := h.parseAreaBand(w, r)
	if !ok {
		return
	}

	ths, err := h.editorSvc.Save(r.Context(), id, band)
	if err != nil {
		h.writeThresholdError(w, id, band, err)
		return
	}

	writeJSON(w, http.StatusOK, toThresholdResponses(ths))
}

// DiscardThresholds drops the working copy without saving.
func (h *Handler) DiscardThresholds(w http.ResponseWriter, r *http.Request) {
	id, band, ok := h.parseAreaBand(w, r)
	if !ok {
		return
	}

	h.editorSvc.Discard(id, band)
	w.WriteHeader(http.StatusNoContent)
}

// CopyThresholds copies the source area's saved set to the target areas.
// The copy is best-effort per target; per-target failures are reported in
// the response instead of aborting the batch.
func (h *Handler) CopyThresholds(w http.ResponseWriter, r *http.Request) {
	id, band, ok := h.parseAreaBand(w, r)
	if !ok {
		return
	}

	var req CopyThresholdsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.TargetAreaIDs) == 0 {
		writeError(w, http.StatusBadRequest, "target_area_ids must not be empty")
		return
	}

	results, err := h.editorSvc.CopyThresholds(r.Context(), id, req.TargetAreaIDs, band)
	if err != nil {
		h.writeThresholdError(w, id, band, err)
		return
	}

	resp := make([]CopyResultResponse, 0, len(results))
	for _, res := range results {
		out := CopyResultResponse{AreaID: res.AreaID}
		if res.Err != nil {
			out.Error = res.Err.Error()
		}
		resp = append(resp, out)
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetLegend returns all legend rows.
func (h *Handler) GetLegend(w http.ResponseWriter, r *http.Request) {
	rows, err := h.legendStore.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list legend", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]LegendRowResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, toLegendRowResponse(row))
	}

	writeJSON(w, http.StatusOK, resp)
}

// ReplaceLegend swaps the whole legend for the supplied rows.
func (h *Handler) ReplaceLegend(w http.ResponseWriter, r *http.Request) {
	var req []LegendRowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rows := make([]model.LegendRow, 0, len(req))
	for _, in := range req {
		band := model.BandType(in.BandType)
		if !band.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid band type: "+in.BandType)
			return
		}
		rows = append(rows, model.LegendRow{
			Object:        in.Object,
			DescriptionDE: in.DescriptionDE,
			DescriptionEN: in.DescriptionEN,
			Band:          band,
		})
	}

	if err := h.legendStore.ReplaceAll(r.Context(), rows); err != nil {
		h.logger.Error("failed to replace legend", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.GetLegend(w, r)
}

// ListWarnings returns the active security warnings across all areas.
func (h *Handler) ListWarnings(w http.ResponseWriter, r *http.Request) {
	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	warnings, err := h.statusSvc.Warnings(r.Context(), window)
	if err != nil {
		h.logger.Error("failed to list warnings", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]WarningResponse, 0, len(warnings))
	for _, warn := range warnings {
		resp = append(resp, toWarningResponse(warn))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Refresh triggers an immediate poll of the upstream count source and
// blocks until the cycle completes.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.pollSvc == nil {
		writeError(w, http.StatusServiceUnavailable, "no count source configured")
		return
	}

	if err := h.pollSvc.Refresh(r.Context()); err != nil {
		h.logger.Error("manual refresh failed", "error", err)
		writeError(w, http.StatusBadGateway, "refresh failed; last known counts kept")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// writeThresholdError maps editor and store errors to HTTP responses.
// Validation rejections carry a machine-readable reason code.
func (h *Handler) writeThresholdError(w http.ResponseWriter, areaID int64, band model.BandType, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidBound):
		writeRejection(w, "invalid_bound", err.Error())
	case errors.Is(err, model.ErrUnboundedAlreadySet):
		writeRejection(w, "sentinel_already_set", err.Error())
	case errors.Is(err, model.ErrBandLimitExceeded):
		writeRejection(w, "limit_exceeded", err.Error())
	case errors.Is(err, model.ErrThresholdNotFound):
		writeError(w, http.StatusNotFound, "threshold not found")
	case errors.Is(err, driven.ErrAreaNotFound):
		writeError(w, http.StatusNotFound, "area not found")
	default:
		h.logger.Error("threshold operation failed", "area_id", areaID, "band", band, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseAreaID reads the {id} path segment.
func (h *Handler) parseAreaID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid area id")
		return 0, false
	}
	return id, true
}

// parseAreaBand reads the {id} and {band} path segments.
func (h *Handler) parseAreaBand(w http.ResponseWriter, r *http.Request) (int64, model.BandType, bool) {
	id, ok := h.parseAreaID(w, r)
	if !ok {
		return 0, "", false
	}

	band := model.BandType(r.PathValue("band"))
	if !band.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid band type: "+r.PathValue("band"))
		return 0, "", false
	}

	return id, band, true
}

// parseThresholdID reads the {thresholdID} path segment. Negative values
// identify pending (unsaved) bands.
func (h *Handler) parseThresholdID(w http.ResponseWriter, r *http.Request) (model.ThresholdID, bool) {
	wire, err := strconv.ParseInt(r.PathValue("thresholdID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid threshold id")
		return model.ThresholdID{}, false
	}
	return parseThresholdID(wire), true
}

// parseWindow reads the optional ?window_minutes= override; without it the
// configured default window applies.
func (h *Handler) parseWindow(w http.ResponseWriter, r *http.Request) (time.Duration, bool) {
	raw := r.URL.Query().Get("window_minutes")
	if raw == "" {
		return h.window, true
	}

	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < 0 {
		writeError(w, http.StatusBadRequest, "invalid window_minutes")
		return 0, false
	}

	return time.Duration(minutes) * time.Minute, true
}
