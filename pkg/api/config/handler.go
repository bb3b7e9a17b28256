// Package config exposes the effective application settings so the UI
// can render the assumptions behind forecasts and projections.
package config

import (
	"encoding/json"
	"net/http"

	"growthlens/pkg/core/config"
)

// Response is the read-only settings view. Sensitive values (tokens,
// connection strings) are never part of the config type and cannot leak
// here.
type Response struct {
	Forecast config.ForecastConfig `json:"forecast"`
	Xero     xeroView              `json:"xero"`
}

// xeroView is the subset of the Xero settings worth showing a caller.
type xeroView struct {
	InvoicePageCap        int     `json:"invoice_page_cap"`
	BankPageCap           int     `json:"bank_page_cap"`
	BatchSize             int     `json:"batch_size"`
	ReconcileAbsTolerance float64 `json:"reconcile_abs_tolerance"`
	ReconcilePctTolerance float64 `json:"reconcile_pct_tolerance"`
}

// Handler serves GET /api/config.
type Handler struct {
	cfg config.Config
}

// NewHandler creates a config handler over the loaded settings.
func NewHandler(cfg config.Config) *Handler {
	return &Handler{cfg: cfg}
}

func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := Response{
		Forecast: h.cfg.Forecast,
		Xero: xeroView{
			InvoicePageCap:        h.cfg.Xero.InvoicePageCap,
			BankPageCap:           h.cfg.Xero.BankPageCap,
			BatchSize:             h.cfg.Xero.BatchSize,
			ReconcileAbsTolerance: h.cfg.Xero.ReconcileAbsTolerance,
			ReconcilePctTolerance: h.cfg.Xero.ReconcilePctTolerance,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
