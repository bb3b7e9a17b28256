package xero

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"growthlens/pkg/core/config"
)

const apiPrefix = "/api.xro/2.0"

// Client issues authenticated requests against the Xero accounting API
// for a single tenant. All calls are sequential; the client never
// issues concurrent requests, which keeps rate-limit behavior simple.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	tenantID    string
	cfg         config.XeroConfig
	logger      *slog.Logger

	// sleep is swappable in tests to avoid real backoff waits.
	sleep func(time.Duration)
}

// NewClient creates a client for one tenant using the given bearer
// token. A nil logger disables diagnostics.
func NewClient(cfg config.XeroConfig, accessToken, tenantID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:     cfg.BaseURL,
		accessToken: accessToken,
		tenantID:    tenantID,
		cfg:         cfg,
		logger:      logger,
		sleep:       time.Sleep,
	}
}

// get issues one GET against an API path. On HTTP 429 it returns
// errRateLimited carrying the capped Retry-After duration; the caller
// decides the retry policy.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Xero-Tenant-Id", c.tenantID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("xero request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &rateLimitError{retryAfter: c.retryAfter(resp.Header)}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("xero returned status %d for %s: %s", resp.StatusCode, path, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse xero response: %w", err)
	}
	return nil
}

// retryAfter reads the Retry-After header, defaulting when absent and
// capping at MaxRetryAfter so a misbehaving upstream cannot stall a
// request indefinitely.
func (c *Client) retryAfter(h http.Header) time.Duration {
	wait := c.cfg.DefaultRetryAfter
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			wait = time.Duration(secs) * time.Second
		}
	}
	if wait > c.cfg.MaxRetryAfter {
		wait = c.cfg.MaxRetryAfter
	}
	return wait
}

type rateLimitError struct {
	retryAfter time.Duration
}

func (e *rateLimitError) Error() string {
	return fmt.Sprintf("xero rate limit hit, retry after %s", e.retryAfter)
}

// FetchAccounts returns the chart of accounts as a code -> name map.
// The map is built once per request and read-only afterwards.
func (c *Client) FetchAccounts(ctx context.Context) (map[string]string, error) {
	var resp accountsResponse
	if err := c.get(ctx, "/Accounts", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	accounts := make(map[string]string, len(resp.Accounts))
	for _, a := range resp.Accounts {
		if a.Code != "" {
			accounts[a.Code] = a.Name
		}
	}
	c.logger.Debug("fetched chart of accounts", "count", len(accounts))
	return accounts, nil
}
