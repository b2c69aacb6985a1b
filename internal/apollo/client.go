// Package apollo provides a client for the Apollo.io organization enrichment
// API. Apollo resolves a bare domain into organization metadata such as the
// legal name, industry, employee count and headquarters location.
package apollo

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

	enrichPath = "/organizations/enrich"
)

// Client provides access to the Apollo organization API.
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
	return fmt.Sprintf("apollo: unexpected status %d: %s", e.StatusCode, e.Body)
}

// NewClient creates a new Apollo client with the given configuration.
func NewClient(cfg *config.ApolloConfig, logger *zap.Logger) *Client {
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

// EnrichOrganization fetches organization data for a bare domain, e.g.
// "example.com". Transient failures are retried with exponential backoff.
func (c *Client) EnrichOrganization(ctx context.Context, domain string) (map[string]interface{}, error) {
	if !c.IsEnabled() {
		return nil, fmt.Errorf("apollo client not configured")
	}

	endpoint := fmt.Sprintf("%s%s?domain=%s", c.baseURL, enrichPath, url.QueryEscape(domain))

	var lastErr error
	backoff := defaultInitialBackoff

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("apollo: rate limiter wait: %w", err)
		}

		c.logger.Debug("Fetching Apollo organization",
			zap.String("domain", domain),
			zap.Int("attempt", attempt),
		)

		body, err := c.doRequest(ctx, endpoint)
		if err == nil {
			var data map[string]interface{}
			if uerr := json.Unmarshal(body, &data); uerr != nil {
				return nil, fmt.Errorf("apollo: decode response: %w", uerr)
			}
			return data, nil
		}

		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}

		c.logger.Warn("Apollo request failed, retrying",
			zap.String("domain", domain),
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

	return nil, fmt.Errorf("apollo: enrich failed after %d attempts: %w", c.maxRetries, lastErr)
}

// Organization extracts the organization object from an enrich response.
// Returns nil when the response carries no organization.
func Organization(data map[string]interface{}) map[string]interface{} {
	if data == nil {
		return nil
	}
	if org, ok := data["organization"].(map[string]interface{}); ok {
		return org
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("apollo: build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apollo: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("apollo: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 500)}
	}

	return body, nil
}

func isRetryable(err error) bool {
	if se, ok := err.(*StatusError); ok {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	return true
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
