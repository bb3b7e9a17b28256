package xero

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenResult is the outcome of a token acquisition attempt. A failed
// result with ShouldDeactivate set means the connection's credentials
// have been revoked and the caller must prompt a reconnect; without it
// the failure is transient and may be retried later.
type TokenResult struct {
	Success          bool   `json:"success"`
	AccessToken      string `json:"access_token,omitempty"`
	Error            string `json:"error,omitempty"`
	Message          string `json:"message,omitempty"`
	ShouldDeactivate bool   `json:"should_deactivate"`
}

// TokenSource yields a valid bearer token for a business's Xero
// connection.
type TokenSource interface {
	Token(ctx context.Context, businessID string) (TokenResult, error)
}

// TokenStore is the persistence surface the refreshing token source
// needs: read the stored refresh token and write back rotated tokens.
type TokenStore interface {
	RefreshToken(ctx context.Context, businessID string) (string, error)
	UpdateTokens(ctx context.Context, businessID, accessToken, refreshToken string, expiresAt time.Time) error
}

const defaultIdentityURL = "https://identity.xero.com/connect/token"

// RefreshTokenSource exchanges a stored refresh token for a fresh
// access token against the Xero identity endpoint and persists the
// rotated pair.
type RefreshTokenSource struct {
	store        TokenStore
	clientID     string
	clientSecret string
	identityURL  string
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewRefreshTokenSource builds a token source over the given store and
// OAuth client credentials.
func NewRefreshTokenSource(store TokenStore, clientID, clientSecret string, logger *slog.Logger) *RefreshTokenSource {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RefreshTokenSource{
		store:        store,
		clientID:     clientID,
		clientSecret: clientSecret,
		identityURL:  defaultIdentityURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
	}
}

// SetIdentityURL overrides the token endpoint (used by tests).
func (s *RefreshTokenSource) SetIdentityURL(u string) { s.identityURL = u }

type tokenEndpointResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int    `json:"expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Token refreshes the business's access token. An invalid_grant reply
// means the refresh token was revoked: the result carries
// ShouldDeactivate so the caller can signal "reconnect required".
func (s *RefreshTokenSource) Token(ctx context.Context, businessID string) (TokenResult, error) {
	refreshToken, err := s.store.RefreshToken(ctx, businessID)
	if err != nil {
		return TokenResult{Success: false, Error: "no_refresh_token", Message: err.Error()}, nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.identityURL, strings.NewReader(form.Encode()))
	if err != nil {
		return TokenResult{}, fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// Network failure is transient; the stored token may still be good.
		return TokenResult{Success: false, Error: "refresh_failed", Message: err.Error()}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return TokenResult{Success: false, Error: "refresh_failed", Message: err.Error()}, nil
	}
	var payload tokenEndpointResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return TokenResult{Success: false, Error: "refresh_failed", Message: "unparseable token response"}, nil
	}

	if resp.StatusCode != http.StatusOK || payload.AccessToken == "" {
		deactivate := payload.Error == "invalid_grant"
		s.logger.Warn("token refresh rejected", "business_id", businessID, "error", payload.Error, "deactivate", deactivate)
		return TokenResult{
			Success:          false,
			Error:            payload.Error,
			Message:          payload.ErrorDescription,
			ShouldDeactivate: deactivate,
		}, nil
	}

	expiresAt := time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	if err := s.store.UpdateTokens(ctx, businessID, payload.AccessToken, payload.RefreshToken, expiresAt); err != nil {
		// The token is valid even if persisting the rotation failed.
		s.logger.Warn("failed to persist rotated tokens", "business_id", businessID, "error", err)
	}
	return TokenResult{Success: true, AccessToken: payload.AccessToken}, nil
}
