// Package coresignal provides a client for the CoreSignal multi-source
// company data API. It is used to enrich a company website into a firmographic
// profile covering headcount, funding, industry and web presence data.
package coresignal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/companyintel/research-api/internal/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 10 * time.Second
	defaultBackoffFactor  = 2.0

	enrichPath = "/cdapi/v2/company_multi_source/enrich"
)

// Client provides access to the CoreSignal company data API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// StatusError is returned when the API responds with a non-success status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("coresignal: unexpected status %d: %s", e.StatusCode, e.Body)
}

// NewClient creates a new CoreSignal client with the given configuration.
func NewClient(cfg *config.CoreSignalConfig, logger *zap.Logger) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.TimeoutDuration()},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxRetries: maxRetries,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// IsEnabled returns true if the client has credentials configured.
func (c *Client) IsEnabled() bool {
	return c != nil && c.apiKey != ""
}

// Enrich fetches the multi-source company profile for a website.
// The website is passed through as-is; CoreSignal accepts both bare domains
// and full URLs. Transient failures (5xx, 429, network errors) are retried
// with exponential backoff.
func (c *Client) Enrich(ctx context.Context, website string) (map[string]interface{}, error) {
	if !c.IsEnabled() {
		return nil, fmt.Errorf("coresignal client not configured")
	}

	endpoint := fmt.Sprintf("%s%s?website=%s", c.baseURL, enrichPath, url.QueryEscape(website))

	var lastErr error
	backoff := defaultInitialBackoff

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("coresignal: rate limiter wait: %w", err)
		}

		c.logger.Debug("Fetching CoreSignal company profile",
			zap.String("website", website),
			zap.Int("attempt", attempt),
		)

		body, err := c.doRequest(ctx, endpoint)
		if err == nil {
			var data map[string]interface{}
			if uerr := json.Unmarshal(body, &data); uerr != nil {
				return nil, fmt.Errorf("coresignal: decode response: %w", uerr)
			}
			return data, nil
		}

		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}

		c.logger.Warn("CoreSignal request failed, retrying",
			zap.String("website", website),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff = min(time.Duration(float64(backoff)*defaultBackoffFactor), defaultMaxBackoff)
		}
	}

	return nil, fmt.Errorf("coresignal: enrich failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("coresignal: build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coresignal: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("coresignal: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 500)}
	}

	return body, nil
}

// isRetryable reports whether a failed attempt is worth repeating.
// Client errors other than 429 are permanent.
func isRetryable(err error) bool {
	if se, ok := err.(*StatusError); ok {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	// Network-level errors are retryable
	return true
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
