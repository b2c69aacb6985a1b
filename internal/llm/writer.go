// Package llm generates report prose from collected company data using the
// Gemini API. When the model is disabled or unavailable, callers fall back to
// the deterministic template report in the report package.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/companyintel/research-api/internal/config"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Writer turns a prompt into markdown report prose.
type Writer interface {
	// WriteReport generates a markdown report from the given prompt.
	WriteReport(ctx context.Context, prompt string) (string, error)
	// IsEnabled reports whether the writer can be used.
	IsEnabled() bool
}

// GeminiWriter generates report prose using Google's Gemini API.
type GeminiWriter struct {
	client  *genai.Client
	model   string
	timeout config.LLMConfig
	logger  *zap.Logger
}

// NewGeminiWriter creates a new Gemini-backed report writer.
// Returns nil (a disabled writer) when the model is disabled or no API key
// is configured; research still works through the template fallback.
func NewGeminiWriter(ctx context.Context, cfg *config.LLMConfig, logger *zap.Logger) (*GeminiWriter, error) {
	if cfg == nil || !cfg.Enabled || cfg.APIKey == "" {
		logger.Info("Report model disabled, template reports will be used")
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logger.Info("Gemini report writer initialized",
		zap.String("model", cfg.Model),
	)

	return &GeminiWriter{
		client:  client,
		model:   cfg.Model,
		timeout: *cfg,
		logger:  logger,
	}, nil
}

// IsEnabled reports whether the writer can be used.
func (w *GeminiWriter) IsEnabled() bool {
	return w != nil && w.client != nil
}

// WriteReport generates a markdown report from the given prompt.
// Code fences the model sometimes wraps around the document are stripped.
func (w *GeminiWriter) WriteReport(ctx context.Context, prompt string) (string, error) {
	if !w.IsEnabled() {
		return "", fmt.Errorf("report model not enabled")
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout.TimeoutDuration())
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := w.client.Models.GenerateContent(ctx, w.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned empty report")
	}

	return stripCodeFence(text), nil
}

// stripCodeFence removes a wrapping ```markdown ... ``` fence if present.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}

	// Drop the opening fence line (``` or ```markdown)
	lines = lines[1:]
	// Drop the closing fence if it is the last line
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
