package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoConnection is returned when a business has no active Xero
// connection.
var ErrNoConnection = errors.New("no active xero connection")

// Connection is one business's Xero link.
type Connection struct {
	BusinessID   string
	TenantID     string
	RefreshToken string
	ExpiresAt    time.Time
	Status       string
}

// ConnectionRepository resolves and maintains Xero connections. The
// HTTP handler receives this as an interface so tests can substitute a
// fake.
type ConnectionRepository interface {
	ActiveConnection(ctx context.Context, businessID string) (*Connection, error)
	RefreshToken(ctx context.Context, businessID string) (string, error)
	UpdateTokens(ctx context.Context, businessID, accessToken, refreshToken string, expiresAt time.Time) error
	Deactivate(ctx context.Context, businessID string) error
}

// PgConnectionRepo is the pgx-backed ConnectionRepository.
//
// Schema assumption (managed by external migrations):
//
//	CREATE TABLE xero_connections (
//	  business_id   TEXT PRIMARY KEY,
//	  tenant_id     TEXT NOT NULL,
//	  access_token  TEXT,
//	  refresh_token TEXT NOT NULL,
//	  expires_at    TIMESTAMPTZ,
//	  status        TEXT NOT NULL DEFAULT 'active'
//	);
type PgConnectionRepo struct {
	pool *pgxpool.Pool
}

// NewPgConnectionRepo creates a repository over the given pool.
func NewPgConnectionRepo(pool *pgxpool.Pool) *PgConnectionRepo {
	return &PgConnectionRepo{pool: pool}
}

// ActiveConnection loads the active connection for a business, or
// ErrNoConnection when none exists.
func (r *PgConnectionRepo) ActiveConnection(ctx context.Context, businessID string) (*Connection, error) {
	query := `
		SELECT business_id, tenant_id, refresh_token, expires_at, status
		FROM xero_connections
		WHERE business_id = $1 AND status = 'active'`

	var conn Connection
	err := r.pool.QueryRow(ctx, query, businessID).Scan(
		&conn.BusinessID, &conn.TenantID, &conn.RefreshToken, &conn.ExpiresAt, &conn.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoConnection
		}
		return nil, fmt.Errorf("failed to load xero connection: %w", err)
	}
	return &conn, nil
}

// RefreshToken returns the stored refresh token for an active
// connection.
func (r *PgConnectionRepo) RefreshToken(ctx context.Context, businessID string) (string, error) {
	conn, err := r.ActiveConnection(ctx, businessID)
	if err != nil {
		return "", err
	}
	return conn.RefreshToken, nil
}

// UpdateTokens persists a rotated access/refresh token pair.
func (r *PgConnectionRepo) UpdateTokens(ctx context.Context, businessID, accessToken, refreshToken string, expiresAt time.Time) error {
	query := `
		UPDATE xero_connections
		SET access_token = $2, refresh_token = $3, expires_at = $4
		WHERE business_id = $1`

	if _, err := r.pool.Exec(ctx, query, businessID, accessToken, refreshToken, expiresAt); err != nil {
		return fmt.Errorf("failed to update xero tokens: %w", err)
	}
	return nil
}

// Deactivate marks a connection as requiring reconnection, typically
// after a permanent token failure.
func (r *PgConnectionRepo) Deactivate(ctx context.Context, businessID string) error {
	query := `UPDATE xero_connections SET status = 'disconnected' WHERE business_id = $1`
	if _, err := r.pool.Exec(ctx, query, businessID); err != nil {
		return fmt.Errorf("failed to deactivate xero connection: %w", err)
	}
	return nil
}
