package report

import (
	"testing"
	"time"

	"github.com/companyintel/research-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "Acme", "Acme"},
		{"spaces become underscores", "Acme Corp", "Acme_Corp"},
		{"punctuation stripped", "Acme, Inc.", "Acme_Inc"},
		{"keeps dashes and underscores", "acme-corp_io", "acme-corp_io"},
		{"unicode stripped", "Acmé AS", "Acm_AS"},
		{"empty falls back", "", "company"},
		{"only punctuation falls back", "!!!", "company"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeName(tt.input))
		})
	}
}

func TestFilename(t *testing.T) {
	ts := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)

	assert.Equal(t,
		"Acme_Corp_multi_source_report_20250102_150405.pdf",
		Filename("Acme Corp", domain.ResearchKindMultiSource, ts),
	)
	assert.Equal(t,
		"Acme_coresignal_report_20250102_150405.pdf",
		Filename("Acme", domain.ResearchKindCoreSignal, ts),
	)
}

func TestCompanyNameFromDomain(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"acme.com", "Acme"},
		{"www.acme.com", "Acme"},
		{"acme-corp.io", "Acme-Corp"},
		{"acme.co.uk", "Acme"},
		{"acme", "Acme"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CompanyNameFromDomain(tt.input), "input %q", tt.input)
	}
}
