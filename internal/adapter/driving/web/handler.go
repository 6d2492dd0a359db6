// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/exhibitops/floorwatch/internal/application"
	"github.com/exhibitops/floorwatch/internal/domain/port/driven"
)

// Handler is the web GUI driving adapter that serves the dashboard page.
type Handler struct {
	statusSvc   *application.StatusService
	legendStore driven.LegendStore
	window      time.Duration
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	statusSvc *application.StatusService,
	legendStore driven.LegendStore,
	window time.Duration,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		statusSvc:   statusSvc,
		legendStore: legendStore,
		window:      window,
		logger:      logger,
	}
}

// Dashboard renders the floor-plan page with resolved area colors, the
// warning list and the legend.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.statusSvc.AreaStatuses(r.Context(), h.window)
	if err != nil {
		h.logger.Error("failed to load area statuses", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	warnings, err := h.statusSvc.Warnings(r.Context(), h.window)
	if err != nil {
		h.logger.Error("failed to load warnings", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// A missing legend degrades to an empty table, not a failed page.
	legend, err := h.legendStore.ListAll(r.Context())
	if err != nil {
		h.logger.Warn("failed to load legend", "error", err)
		legend = nil
	}

	view := toDashboard(statuses, warnings, legend)
	page := Layout("Floorwatch", DashboardPage(view))

	if err := page.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render dashboard", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
