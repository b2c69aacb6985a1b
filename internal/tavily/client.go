// Package tavily provides a client for the Tavily web search API, used to
// gather recent news, customer mentions and competitor coverage for a company.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/companyintel/research-api/internal/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 10 * time.Second
	defaultBackoffFactor  = 2.0

	searchPath = "/search"
)

// SearchRequest describes a single Tavily search.
type SearchRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results,omitempty"`
	SearchDepth string `json:"search_depth,omitempty"`
	Topic       string `json:"topic,omitempty"`
	Days        int    `json:"days,omitempty"`
}

// SearchResult is a single hit returned by Tavily.
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// SearchResponse is the Tavily search response body.
type SearchResponse struct {
	Query   string         `json:"query"`
	Answer  string         `json:"answer,omitempty"`
	Results []SearchResult `json:"results"`
}

// StatusError is returned when the API responds with a non-success status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tavily: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client provides access to the Tavily search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a new Tavily client with the given configuration.
func NewClient(cfg *config.TavilyConfig, logger *zap.Logger) *Client {
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

// Search runs a single Tavily search. The API key is injected into the
// request body. Transient failures are retried with exponential backoff.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if !c.IsEnabled() {
		return nil, fmt.Errorf("tavily client not configured")
	}

	// API key travels in the body
	payload := struct {
		APIKey string `json:"api_key"`
		SearchRequest
	}{
		APIKey:        c.apiKey,
		SearchRequest: req,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("tavily: encode request: %w", err)
	}

	endpoint := c.baseURL + searchPath

	var lastErr error
	backoff := defaultInitialBackoff

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("tavily: rate limiter wait: %w", err)
		}

		c.logger.Debug("Running Tavily search",
			zap.String("query", req.Query),
			zap.Int("attempt", attempt),
		)

		respBody, err := c.doRequest(ctx, endpoint, body)
		if err == nil {
			var sr SearchResponse
			if uerr := json.Unmarshal(respBody, &sr); uerr != nil {
				return nil, fmt.Errorf("tavily: decode response: %w", uerr)
			}
			return &sr, nil
		}

		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}

		c.logger.Warn("Tavily request failed, retrying",
			zap.String("query", req.Query),
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

	return nil, fmt.Errorf("tavily: search failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) doRequest(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tavily: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tavily: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), 500)}
	}

	return respBody, nil
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
