// Package forecast exposes the live forecast engine over HTTP for
// preview rendering: the caller posts a wizard state and receives the
// derived calculations plus an optional projected year view.
package forecast

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"growthlens/pkg/core/config"
	coreforecast "growthlens/pkg/core/forecast"
	"growthlens/pkg/core/projection"
	"growthlens/pkg/models"
)

// Handler serves POST /api/forecast/preview.
type Handler struct {
	cfg    config.ForecastConfig
	logger *slog.Logger
}

// NewHandler creates the forecast preview handler.
func NewHandler(cfg config.ForecastConfig, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{cfg: cfg, logger: logger}
}

type previewRequest struct {
	State   models.ForecastState    `json:"state"`
	Context *models.BusinessContext `json:"context,omitempty"`
	Year    int                     `json:"year,omitempty"`
	Monthly bool                    `json:"monthly,omitempty"`
}

type previewResponse struct {
	Calculations models.ForecastCalculations `json:"calculations"`
	YearView     *projection.YearView        `json:"year_view,omitempty"`
	YearViews    []projection.YearView       `json:"year_views,omitempty"`
}

// HandlePreview derives calculations for the posted state. When a
// context payload is included it is applied first, mirroring the wizard
// hydration path. A year selector returns that year's projected view
// (optionally as a monthly view); otherwise every selected year is
// projected.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	state := req.State
	if req.Context != nil {
		coreforecast.ApplyContext(&state, *req.Context, h.cfg)
	}
	calcs := coreforecast.Calculate(state, h.cfg)

	resp := previewResponse{Calculations: calcs}
	if req.Year > 0 {
		view := projection.ProjectYear(state, calcs, req.Year, h.cfg)
		if req.Monthly {
			view = projection.MonthlyView(view)
		}
		resp.YearView = &view
	} else if len(state.YearsSelected) > 0 {
		resp.YearViews = projection.ProjectSelected(state, h.cfg)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
