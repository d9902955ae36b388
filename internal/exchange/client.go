package exchange

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"gitlab.com/yelinaung/fxrates/internal/logger"
	"gitlab.com/yelinaung/fxrates/internal/models"
)

const (
	defaultBaseURL = "https://openexchangerates.org/api"
	defaultTimeout = 10 * time.Second

	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 4 << 20
)

// Client is a client for an openexchangerates-compatible latest.json endpoint.
// The base currency and credential are fixed at construction.
type Client struct {
	baseURL    string
	appID      string
	base       string
	httpClient *http.Client
}

var _ Source = (*Client)(nil)

// NewClient creates a rates API client.
func NewClient(baseURL, appID, base string, timeout time.Duration) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		base = "USD"
	}

	return &Client{
		baseURL: trimmed,
		appID:   appID,
		base:    base,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Base returns the currency every rate in a snapshot is quoted against.
func (c *Client) Base() string {
	return c.base
}

// GetRates fetches the latest snapshot. No retries are attempted.
func (c *Client) GetRates(ctx context.Context) (models.Snapshot, error) {
	query := url.Values{}
	query.Set("app_id", c.appID)
	query.Set("base", c.base)
	endpoint := c.baseURL + "/latest.json?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request rates: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read rates response: %w", err)
	}

	snap, err := models.DecodeSnapshot(body)
	if err != nil {
		return nil, err
	}
	if len(snap) == 0 {
		return nil, ErrNoRates
	}

	logger.Log.Debug().
		Str("base", c.base).
		Int("currencies", len(snap)).
		Dur("duration", time.Since(start)).
		Msg("Fetched remote rates")

	return snap, nil
}
