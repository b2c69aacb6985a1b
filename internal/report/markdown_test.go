package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleProfile() map[string]interface{} {
	return map[string]interface{}{
		"company_name":             "Acme Corp",
		"industry":                 "Software Development",
		"type":                     "Privately Held",
		"status":                   map[string]interface{}{"value": "active"},
		"description":              "Acme builds developer tools.",
		"hq_location":              "Oslo, Norway",
		"website":                  "https://acme.com",
		"linkedin_url":             "https://linkedin.com/company/acme",
		"followers_count_linkedin": float64(12000),
		"employees_count":          float64(250),
		"size_range":               "201-500",
		"employees": []interface{}{
			map[string]interface{}{
				"full_name": "Jane Smith",
				"job_title": "CEO & Co-Founder",
			},
			map[string]interface{}{
				"full_name": "John Doe",
				"job_title": "Engineer",
			},
		},
		"employees_count_history": []interface{}{
			map[string]interface{}{
				"employees_count_by_country": []interface{}{
					map[string]interface{}{"country": "Norway", "employee_count": float64(200)},
					map[string]interface{}{"country": "Sweden", "employee_count": float64(50)},
				},
			},
		},
		"funding_info": map[string]interface{}{
			"total_amount": "$42M",
			"type":         "Series B",
			"rounds_count": float64(3),
		},
		"company_updates": []interface{}{
			map[string]interface{}{
				"date":            "2025-06-01",
				"description":     "Acme launches a new product line.",
				"reactions_count": float64(120),
				"comments_count":  float64(14),
			},
			map[string]interface{}{"description": "Second update"},
			map[string]interface{}{"description": "Third update"},
			map[string]interface{}{"description": "Fourth update should be omitted"},
		},
		"customers": []interface{}{
			map[string]interface{}{"name": "BigCo", "industry": "Retail"},
		},
		"competitors": []interface{}{
			map[string]interface{}{"name": "RivalSoft", "description": "Competing tool vendor"},
		},
		"last_updated_at": "2025-07-01T00:00:00Z",
	}
}

func TestTemplateReport(t *testing.T) {
	generatedAt := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	md := TemplateReport(sampleProfile(), generatedAt)

	assert.True(t, strings.HasPrefix(md, "# Acme Corp - Company Research Report"))

	// Section content
	assert.Contains(t, md, "**Industry:** Software Development")
	assert.Contains(t, md, "**Status:** active")
	assert.Contains(t, md, "**Name:** Jane Smith")
	assert.Contains(t, md, "**Title:** CEO & Co-Founder")
	assert.Contains(t, md, "**LinkedIn Followers:** 12000 followers")
	assert.Contains(t, md, "- **Norway:** 200 employees")
	assert.Contains(t, md, "- **Sweden:** 50 employees")
	assert.Contains(t, md, "**Total Funding:** $42M")
	assert.Contains(t, md, "**Number of Rounds:** 3")
	assert.Contains(t, md, "**Engagement:** 120 reactions, 14 comments")
	assert.Contains(t, md, "- **BigCo** - Retail")
	assert.Contains(t, md, "### RivalSoft")
	assert.Contains(t, md, "**Report Generated:** 2025-08-01T12:00:00Z")

	// Only three news items
	assert.Contains(t, md, "### News Item 3")
	assert.NotContains(t, md, "### News Item 4")
	assert.NotContains(t, md, "Fourth update should be omitted")
}

func TestTemplateReportEmptyProfile(t *testing.T) {
	md := TemplateReport(map[string]interface{}{}, time.Now())

	assert.Contains(t, md, "# Unknown Company - Company Research Report")
	assert.Contains(t, md, "**Industry:** Not Found")
	assert.Contains(t, md, "CEO information not found.")
	assert.Contains(t, md, "Geographic distribution data not available.")
	assert.Contains(t, md, "Funding information not available in current data source.")
	assert.Contains(t, md, "No recent news items found.")
	assert.Contains(t, md, "Enterprise customer information not available in current data source.")
}

func TestTemplateReportAcquiredStatus(t *testing.T) {
	profile := map[string]interface{}{
		"company_name": "Acme",
		"status":       map[string]interface{}{"comment": "Company was acquired in 2023"},
	}
	md := TemplateReport(profile, time.Now())
	assert.Contains(t, md, "**Status:** Acquired")
}

func TestTemplateReportKeywordCompetitors(t *testing.T) {
	profile := map[string]interface{}{
		"company_name": "Acme",
		"categories_and_keywords": []interface{}{
			"Developer Software",
			"Cloud Platform",
			"Bakery",
		},
	}
	md := TemplateReport(profile, time.Now())
	assert.Contains(t, md, "- Developer Software")
	assert.Contains(t, md, "- Cloud Platform")
	assert.NotContains(t, md, "- Bakery")
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10))
	long := strings.Repeat("a", 250)
	truncated := truncateText(long, 200)
	assert.Len(t, truncated, 203)
	assert.True(t, strings.HasSuffix(truncated, "..."))
}

func TestGetNumber(t *testing.T) {
	m := map[string]interface{}{
		"whole":    float64(42),
		"fraction": 3.5,
		"text":     "7",
	}
	assert.Equal(t, "42", getNumber(m, "whole"))
	assert.Equal(t, "3.5", getNumber(m, "fraction"))
	assert.Equal(t, "7", getNumber(m, "text"))
	assert.Equal(t, "", getNumber(m, "missing"))
}
