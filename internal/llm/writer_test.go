package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/companyintel/research-api/internal/config"
)

func TestNewGeminiWriterDisabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.LLMConfig
	}{
		{"nil config", nil},
		{"disabled", &config.LLMConfig{Enabled: false, APIKey: "key"}},
		{"no api key", &config.LLMConfig{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewGeminiWriter(context.Background(), tt.cfg, zap.NewNop())
			require.NoError(t, err)
			assert.Nil(t, w)
			assert.False(t, w.IsEnabled())
		})
	}
}

func TestWriteReportNotEnabled(t *testing.T) {
	var w *GeminiWriter
	_, err := w.WriteReport(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no fence",
			input:    "# Report\n\nSome content.",
			expected: "# Report\n\nSome content.",
		},
		{
			name:     "plain fence",
			input:    "```\n# Report\nContent.\n```",
			expected: "# Report\nContent.",
		},
		{
			name:     "markdown fence",
			input:    "```markdown\n# Report\nContent.\n```",
			expected: "# Report\nContent.",
		},
		{
			name:     "fence with surrounding whitespace",
			input:    "\n\n```markdown\n# Report\n```\n\n",
			expected: "# Report",
		},
		{
			name:     "missing closing fence",
			input:    "```markdown\n# Report\nContent.",
			expected: "# Report\nContent.",
		},
		{
			name:     "fence only",
			input:    "```",
			expected: "```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeFence(tt.input))
		})
	}
}
