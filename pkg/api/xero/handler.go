// Package xero exposes the subscription-transaction analysis pipeline
// over HTTP.
package xero

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"growthlens/pkg/core/config"
	"growthlens/pkg/core/store"
	corexero "growthlens/pkg/core/xero"
)

// Handler serves POST /api/xero/subscription-transactions. All
// collaborators are injected so tests can run against fakes and an
// httptest Xero server.
type Handler struct {
	connections store.ConnectionRepository
	syncRuns    store.SyncRunRepository
	tokens      corexero.TokenSource
	analyzer    *corexero.Analyzer
	cfg         config.XeroConfig
	logger      *slog.Logger
}

// NewHandler wires the subscription-transactions endpoint. syncRuns may
// be nil to disable run history.
func NewHandler(
	connections store.ConnectionRepository,
	syncRuns store.SyncRunRepository,
	tokens corexero.TokenSource,
	analyzer *corexero.Analyzer,
	cfg config.XeroConfig,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{
		connections: connections,
		syncRuns:    syncRuns,
		tokens:      tokens,
		analyzer:    analyzer,
		cfg:         cfg,
		logger:      logger,
	}
}

type subscriptionRequest struct {
	BusinessID   string   `json:"business_id"`
	AccountCodes []string `json:"account_codes"`
}

type subscriptionResponse struct {
	Success bool                     `json:"success"`
	Vendors []corexero.VendorSummary `json:"vendors"`
	Summary corexero.Summary         `json:"summary"`
	RunID   string                   `json:"run_id,omitempty"`
}

type errorResponse struct {
	Success           bool   `json:"success"`
	Error             string `json:"error"`
	RequiresReconnect bool   `json:"requires_reconnect,omitempty"`
}

// HandleSubscriptionTransactions runs the full pipeline for one
// business and responds with the vendor list, summary and
// reconciliation.
func (h *Handler) HandleSubscriptionTransactions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", false)
		return
	}

	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", false)
		return
	}
	req.BusinessID = strings.TrimSpace(req.BusinessID)
	codes := make([]string, 0, len(req.AccountCodes))
	for _, code := range req.AccountCodes {
		if trimmed := strings.TrimSpace(code); trimmed != "" {
			codes = append(codes, trimmed)
		}
	}
	if req.BusinessID == "" || len(codes) == 0 {
		writeError(w, http.StatusBadRequest, "business_id and account_codes are required", false)
		return
	}

	ctx := r.Context()
	conn, err := h.connections.ActiveConnection(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, store.ErrNoConnection) {
			writeError(w, http.StatusNotFound, "no active Xero connection for this business", false)
			return
		}
		h.logger.Error("connection lookup failed", "business_id", req.BusinessID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to resolve Xero connection", false)
		return
	}

	token, err := h.tokens.Token(ctx, req.BusinessID)
	if err != nil {
		h.logger.Error("token acquisition failed", "business_id", req.BusinessID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to acquire Xero token", false)
		return
	}
	if !token.Success {
		if token.ShouldDeactivate {
			// The credentials are revoked; flag a reconnect distinctly
			// from a transient failure.
			if err := h.connections.Deactivate(ctx, req.BusinessID); err != nil {
				h.logger.Warn("failed to deactivate connection", "business_id", req.BusinessID, "error", err)
			}
			writeError(w, http.StatusUnauthorized, "Xero connection expired, please reconnect", true)
			return
		}
		writeError(w, http.StatusUnauthorized, "failed to refresh Xero token", false)
		return
	}

	client := corexero.NewClient(h.cfg, token.AccessToken, conn.TenantID, h.logger)
	result, err := h.analyzer.Analyze(ctx, client, codes)
	if err != nil {
		h.logger.Error("analysis failed", "business_id", req.BusinessID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to analyze Xero transactions", false)
		return
	}

	resp := subscriptionResponse{
		Success: true,
		Vendors: result.Vendors,
		Summary: result.Summary,
	}
	resp.RunID = h.recordRun(ctx, req.BusinessID, result)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// recordRun persists the run summary best-effort; failures are logged
// and never surfaced to the caller.
func (h *Handler) recordRun(ctx context.Context, businessID string, result *corexero.Result) string {
	if h.syncRuns == nil {
		return ""
	}
	run := store.SyncRun{
		BusinessID:        businessID,
		VendorCount:       result.Summary.VendorCount,
		TransactionCount:  result.Summary.TotalTransactions,
		TotalAmount:       result.Summary.TotalAmount,
		PriorReconciled:   result.Summary.Reconciliation.PriorFY.IsReconciled,
		CurrentReconciled: result.Summary.Reconciliation.CurrentFY.IsReconciled,
	}
	id, err := h.syncRuns.RecordRun(ctx, run, result.Summary)
	if err != nil {
		h.logger.Warn("failed to record sync run", "business_id", businessID, "error", err)
		return ""
	}
	return id
}

func writeError(w http.ResponseWriter, status int, message string, reconnect bool) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{
		Success:           false,
		Error:             message,
		RequiresReconnect: reconnect,
	})
}
