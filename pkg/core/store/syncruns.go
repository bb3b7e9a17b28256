package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SyncRun summarizes one subscription-transaction pipeline execution.
type SyncRun struct {
	ID                string    `json:"id"`
	BusinessID        string    `json:"business_id"`
	VendorCount       int       `json:"vendor_count"`
	TransactionCount  int       `json:"transaction_count"`
	TotalAmount       float64   `json:"total_amount"`
	PriorReconciled   bool      `json:"prior_reconciled"`
	CurrentReconciled bool      `json:"current_reconciled"`
	RanAt             time.Time `json:"ran_at"`
}

// SyncRunRepository records pipeline runs. Persistence is best-effort:
// callers log failures and never fail the request over them.
type SyncRunRepository interface {
	RecordRun(ctx context.Context, run SyncRun, detail any) (string, error)
}

// PgSyncRunRepo is the pgx-backed SyncRunRepository.
//
// Schema assumption (managed by external migrations):
//
//	CREATE TABLE xero_sync_runs (
//	  id                TEXT PRIMARY KEY,
//	  business_id       TEXT NOT NULL,
//	  vendor_count      INT NOT NULL,
//	  transaction_count INT NOT NULL,
//	  total_amount      NUMERIC NOT NULL,
//	  prior_reconciled  BOOLEAN NOT NULL,
//	  current_reconciled BOOLEAN NOT NULL,
//	  detail_json       JSONB,
//	  ran_at            TIMESTAMPTZ NOT NULL
//	);
type PgSyncRunRepo struct {
	pool *pgxpool.Pool
}

// NewPgSyncRunRepo creates a repository over the given pool.
func NewPgSyncRunRepo(pool *pgxpool.Pool) *PgSyncRunRepo {
	return &PgSyncRunRepo{pool: pool}
}

// RecordRun inserts one run row, assigning the run ID when blank. The
// detail payload is stored as a JSONB blob alongside the summary
// columns.
func (r *PgSyncRunRepo) RecordRun(ctx context.Context, run SyncRun, detail any) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.RanAt.IsZero() {
		run.RanAt = time.Now()
	}

	detailJSON, err := json.Marshal(detail)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run detail: %w", err)
	}

	query := `
		INSERT INTO xero_sync_runs
			(id, business_id, vendor_count, transaction_count, total_amount,
			 prior_reconciled, current_reconciled, detail_json, ran_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.pool.Exec(ctx, query,
		run.ID, run.BusinessID, run.VendorCount, run.TransactionCount, run.TotalAmount,
		run.PriorReconciled, run.CurrentReconciled, detailJSON, run.RanAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to record sync run: %w", err)
	}
	return run.ID, nil
}
